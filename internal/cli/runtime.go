package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	goRedis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"task-manager/internal/api"
	"task-manager/internal/config"
	"task-manager/internal/content"
	"task-manager/internal/events"
	"task-manager/internal/logging"
	"task-manager/internal/notify"
	"task-manager/internal/reminder"
	"task-manager/internal/services"
	"task-manager/internal/settings"
	"task-manager/internal/state"
	"task-manager/internal/storage/bolt"
)

// BootstrapFunc builds the runtime for one invocation once flags are applied.
type BootstrapFunc func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Runtime, error)

// Runtime holds the components wired for one invocation of the CLI.
type Runtime struct {
	Config     *config.Config
	Logger     *zap.Logger
	API        api.API
	Controller *state.Controller
	Services   *services.ServiceContainer
	Settings   settings.Store
	Tray       *notify.Tray
	Worker     *reminder.Worker
	Scheduler  *reminder.Scheduler
	Hub        *events.Hub
	Provider   *content.Provider
	Redis      goRedis.UniversalClient

	closers []func(ctx context.Context) error
}

// Build opens the stores described by cfg and wires every component. The
// state store, reminders and Redis degrade gracefully: when one cannot be
// opened the runtime is built without it and a warning is logged.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Runtime, error) {
	logger = logging.OrNop(logger)
	rt := &Runtime{Config: cfg, Logger: logger}
	fail := func(err error) (*Runtime, error) {
		rt.Close(context.Background())
		return nil, err
	}

	repo, err := config.CreateRepository(cfg)
	if err != nil {
		return nil, err
	}
	rt.onClose(func(context.Context) error { return repo.Close() })
	rt.API = api.New(repo)

	var stateStore *bolt.Store
	if cfg.Settings.Persist || cfg.Reminder.Enabled {
		stateStore, err = config.OpenStateStore(cfg)
		if err != nil {
			logger.Warn("state store unavailable, settings are not persisted and reminders are disabled",
				zap.String("path", cfg.GetStatePath()), zap.Error(err))
			stateStore = nil
		} else {
			rt.onClose(func(context.Context) error { return stateStore.Close() })
		}
	}
	rt.Settings = config.CreateSettingsStore(cfg, stateStore)

	rt.Tray = notify.NewTray()
	rt.Worker = reminder.NewWorker(
		notify.Multi{rt.Tray, notify.NewLogNotifier(logger)},
		reminder.FromSettings(rt.Settings),
		logger,
	)
	if cfg.Reminder.Enabled && stateStore != nil {
		rt.Scheduler = reminder.NewScheduler(rt.Worker, logger,
			reminder.WithJobStore(reminder.NewBoltJobStore(stateStore, logger)))
	}

	var forward []events.Publisher
	if cfg.Redis.URL != "" {
		client, redisErr := events.NewRedisClient(ctx, cfg.Redis.URL)
		if redisErr != nil {
			logger.Warn("redis unavailable, change feed is local only", zap.Error(redisErr))
		} else {
			rt.Redis = client
			rt.onClose(func(context.Context) error { return client.Close() })
			forward = append(forward, events.NewRedisPublisher(client, cfg.Redis.Channel))
		}
	}
	rt.Hub = events.NewHub(logger, forward...)
	rt.onClose(func(context.Context) error { rt.Hub.Close(); return nil })

	rt.Controller = state.New(rt.API, logger, state.WithTimeout(cfg.Database.QueryTimeout))
	rt.onClose(rt.Controller.Close)
	if err := rt.Controller.Ready(ctx); err != nil {
		return fail(fmt.Errorf("failed to load tasks: %w", err))
	}

	var scheduler services.ReminderScheduler
	if rt.Scheduler != nil {
		scheduler = rt.Scheduler
	}
	rt.Services = services.NewServiceContainer(rt.Controller, scheduler, services.WithLogger(logger))
	rt.Provider = content.NewProvider(rt.API, cfg.Content.Authority, rt.Hub, logger)

	return rt, nil
}

// Close releases the components in reverse order of creation.
func (r *Runtime) Close(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return stderrors.Join(errs...)
}

func (r *Runtime) onClose(fn func(ctx context.Context) error) {
	r.closers = append(r.closers, fn)
}

// startReminders starts the reminder scheduler, when there is one, and
// returns the func that stops it.
func (r *Runtime) startReminders() (func(), error) {
	if r.Scheduler == nil {
		r.Logger.Info("reminders disabled")
		return func() {}, nil
	}
	if err := r.Scheduler.Start(); err != nil {
		return nil, err
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		r.Scheduler.Stop(ctx)
	}, nil
}

// reloadOnChange queues a controller reload for every change the hub sees on
// the tasks resource, until ctx ends.
func (r *Runtime) reloadOnChange(ctx context.Context) {
	changes, unsubscribe := r.Hub.Subscribe(r.Provider.TasksURI(), 16)
	go func() {
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				r.Controller.Load()
			}
		}
	}()
}

// relay mirrors changes published by other processes onto the local hub.
func (r *Runtime) relay(ctx context.Context) {
	if r.Redis == nil {
		return
	}
	go func() {
		if err := events.Relay(ctx, r.Redis, r.Config.Redis.Channel, r.Hub); err != nil && ctx.Err() == nil {
			r.Logger.Warn("change relay stopped", zap.Error(err))
		}
	}()
}
