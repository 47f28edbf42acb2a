package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"solarhub/internal/clients"
	appconfig "solarhub/internal/config"
	"solarhub/internal/db"
	"solarhub/internal/events"
	httpserver "solarhub/internal/http"
	"solarhub/internal/http/handlers"
	"solarhub/internal/http/middleware"
	"solarhub/internal/jobs"
	"solarhub/internal/password"
	"solarhub/internal/redisstore"
	"solarhub/internal/repository"
	"solarhub/internal/service"
	"solarhub/internal/ws"
)

// App wires all dependencies for the solar monitoring backend.
type App struct {
	server *httpserver.Server
	hub    *ws.Hub
	bus    *events.Bus
	job    *jobs.RedexPushJob
	db     *sql.DB
	redis  *redis.Client
	logger *zap.Logger
}

// New builds the application graph.
func New(cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := redisstore.NewClient(cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(sqlDB)
	energyRepo := repository.NewEnergyRepository(sqlDB)
	boxRepo := repository.NewBoxRepository(sqlDB)
	meterRepo := repository.NewMeterRepository(sqlDB)
	redexRepo := repository.NewRedexRepository(sqlDB)

	sessions := redisstore.NewSessionStore(redisClient, cfg.JWTExpiration())
	bus := events.NewBus(0)

	hasher := password.NewBcryptHasher(0)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())
	authSvc := service.NewAuthService(userRepo, hasher, tokenSvc, sessions, bus, logger)
	energySvc := service.NewEnergyService(energyRepo, userRepo, cfg.Energy.DefaultTimezone, logger)
	boxSvc := service.NewBoxService(boxRepo, bus, logger)
	meterSvc := service.NewMeterService(meterRepo)
	userSvc := service.NewUserService(userRepo, hasher, logger)

	redexClient := clients.NewRedexClient(cfg.Redex.URL, cfg.Redex.APIKey, cfg.Redex.ClientID, cfg.Redex.ClientSecret, logger)
	redexSvc := service.NewRedexService(redexRepo, redexClient, energySvc, logger)
	job := jobs.NewRedexPushJob(redexSvc, cfg.RedexPushInterval(), logger)

	hub := ws.NewHub(logger)
	wsServer := ws.NewServer(hub, tokenSvc, 10*time.Second, logger)

	routes := httpserver.Routes{
		Signup: handlers.NewSignupHandler(authSvc),
		Login:  handlers.NewLoginHandler(authSvc),
		Logout: handlers.NewLogoutHandler(authSvc),

		EnergyData:     handlers.NewEnergyDataHandler(energySvc, 7),
		MonthTotals:    handlers.NewEnergyDataHandler(energySvc, 30),
		YearTotals:     handlers.NewMonthlyTotalsHandler(energySvc),
		DecadeTotals:   handlers.NewYearlyTotalsHandler(energySvc),
		WeeklyCSV:      handlers.NewDailyCSVHandler(energySvc, 7),
		MonthCSV:       handlers.NewDailyCSVHandler(energySvc, 30),
		TwelveMonthCSV: handlers.NewMonthlyCSVHandler(energySvc),

		RegisterBox: handlers.NewRegisterBoxHandler(boxSvc),
		ListBoxes:   handlers.NewListBoxesHandler(boxSvc),
		AddMeter:    handlers.NewAddMeterHandler(meterSvc),
		GetMeter:    handlers.NewGetMeterHandler(meterSvc),

		CreateCredentials: handlers.NewCreateCredentialsHandler(userSvc),
		ResetPassword:     handlers.NewResetPasswordHandler(userSvc),

		UploadDeclaration: handlers.NewUploadDeclarationHandler(redexSvc),
		RegisterDevices:   handlers.NewRegisterDevicesHandler(redexSvc),
		RedexFileID:       handlers.NewRedexFileIDHandler(redexSvc),

		WS:     wsServer.HandleWS,
		Health: handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes, middleware.Auth(tokenSvc, sessions))
	server := httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		middleware.Recovery(logger),
		middleware.Logging(logger),
	)

	app := &App{
		server: server,
		hub:    hub,
		bus:    bus,
		db:     sqlDB,
		redis:  redisClient,
		logger: logger,
	}
	if redexClient.Enabled() {
		app.job = job
	}
	return app, nil
}

// Run starts the notification hub, the registry push job and the HTTP server.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx, a.bus)
	if a.job != nil {
		go a.job.Run(ctx)
	}
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	a.bus.Close()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
