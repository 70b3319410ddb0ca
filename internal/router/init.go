package router

import (
	"github.com/oksasatya/authguard/config"
	"github.com/oksasatya/authguard/internal/application"
	"github.com/oksasatya/authguard/internal/application/command"
	"github.com/oksasatya/authguard/internal/application/query"
	"github.com/oksasatya/authguard/internal/container"
	"github.com/oksasatya/authguard/internal/domain/repository"
	"github.com/oksasatya/authguard/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/authguard/internal/infrastructure/postgres"
	"github.com/oksasatya/authguard/internal/infrastructure/redisrepo"
	handlers "github.com/oksasatya/authguard/internal/interface/http"
	"github.com/oksasatya/authguard/internal/router/modules"
)

// buildDispatcher constructs the two dependency bundles exactly once
// and binds them into the facade. The repo driver and read model come
// from configuration, selected here at construction time.
func buildDispatcher() *application.Dispatcher {
	cfg := container.GetConfig()

	var (
		users        repository.WriteUserRepository
		sessions     repository.WriteSessionRepository
		readSessions repository.ReadSessionRepository
	)

	switch cfg.RepoDriver {
	case config.RepoDriverMemory:
		users = memory.NewUserRepository()
		sessionRepo := memory.NewSessionRepository()
		sessions = sessionRepo
		readSessions = sessionRepo
	default:
		users = pginfra.NewUserRepository(container.GetPGPool())
		sessionRepo := pginfra.NewSessionRepository(container.GetPGPool())
		sessions = sessionRepo
		readSessions = sessionRepo
	}

	// The Redis read model is maintained by the event projector and
	// only overrides the query side; commands keep writing to primary.
	if cfg.ReadModel == config.ReadModelRedis {
		readSessions = redisrepo.NewSessionReadRepository(container.GetRedis())
	}

	commands := command.NewService(command.Deps{
		Users:          users,
		Sessions:       sessions,
		Tokens:         container.GetTokens(),
		Events:         container.GetPublisher(),
		Logger:         container.GetLogger(),
		Clock:          container.GetClock(),
		SessionTTL:     cfg.SessionTTL,
		RegisterActive: cfg.RegisterActive,
	})

	queries := query.NewService(query.Deps{
		Sessions: readSessions,
		Tokens:   container.GetTokens(),
		Logger:   container.GetLogger(),
		Clock:    container.GetClock(),
	})

	return application.NewDispatcher(commands, queries)
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	dispatcher := buildDispatcher()
	handler := handlers.NewAuthHandler(dispatcher, container.GetLogger())
	r.Add(modules.NewAuthModule(handler))
	r.Add(modules.NewHealthModule())
}
