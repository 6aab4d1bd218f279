package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoolColumnEncoding(t *testing.T) {
	assert.Equal(t, 1, FormatBoolForDB(true))
	assert.Equal(t, 0, FormatBoolForDB(false))

	assert.True(t, ParseBoolFromDB(1))
	assert.True(t, ParseBoolFromDB(5))
	assert.False(t, ParseBoolFromDB(0))
}
