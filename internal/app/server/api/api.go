// VitalTrack sync API:
//
//	GET  /api/v1/health         # connectivity probe (public)
//	POST /api/v1/auth/register  # register (public)
//	POST /api/v1/auth/login     # login (public)
//	POST /api/v1/auth/logout    # drop session (auth)
//	POST /api/sync/push         # apply client operations (auth)
//	POST /api/sync/pull         # fetch changes since watermark (auth)
package api

import (
	healthAPI "vitaltrack/internal/app/server/api/http/health"
	"vitaltrack/internal/app/server/api/http/middleware"
	"vitaltrack/internal/app/server/api/http/middleware/auth"
	"vitaltrack/internal/app/server/api/http/middleware/logger"
	syncAPI "vitaltrack/internal/app/server/api/http/sync"
	userAPI "vitaltrack/internal/app/server/api/http/user"
	"vitaltrack/internal/domain/session"
	"vitaltrack/internal/domain/sync"
	"vitaltrack/internal/domain/user"
	"vitaltrack/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health *healthAPI.Handler
	User   *userAPI.Handler
	Sync   *syncAPI.Handler
}

// New builds a *chi.Mux with every operation registered through huma.
func New(storage *postgres.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("VitalTrack API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(storage, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Sync.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, log *slog.Logger) *Handlers {
	sessionRepo := session.NewRepo(storage, log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage.Pool(), log)
	userService := user.NewService(userRepo, user.NewPasswordValidator(), log)
	middlewares.Add(loggerMW.Middleware())
	userHandler := userAPI.NewHandler(userService, sessionService, log, middlewares.GetAllAndClear())

	syncRepo := postgres.NewSyncRepository(storage.Pool(), log)
	syncService := sync.NewService(syncRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	syncHandler := syncAPI.NewHandler(syncService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		User:   userHandler,
		Sync:   syncHandler,
	}
}
