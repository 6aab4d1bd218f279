package main

import (
	"os"

	"task-manager/internal/config"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// envFiles returns the .env files read for env, most specific first. Values
// from an earlier file win because godotenv never overrides a set variable.
func envFiles(env Environment) []string {
	switch env {
	case Development, Testing:
		return []string{".env." + string(env), config.DefaultEnvFile}
	default:
		return []string{config.DefaultEnvFile}
	}
}

// newLoader creates the configuration loader for env
func newLoader(env Environment) *config.Loader {
	return config.NewLoader(envFiles(env)...)
}

// getEnvironment determines the current environment
func getEnvironment() Environment {
	switch Environment(os.Getenv("TD_ENV")) {
	case Development:
		return Development
	case Testing:
		return Testing
	default:
		// Default to production for safety
		return Production
	}
}
