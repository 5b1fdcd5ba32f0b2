package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/weeklyblog/internal/auth"
	"github.com/2beens/weeklyblog/internal/blog"
	"github.com/2beens/weeklyblog/internal/config"
	"github.com/2beens/weeklyblog/internal/db"
	"github.com/2beens/weeklyblog/internal/middleware"
	"github.com/2beens/weeklyblog/internal/telemetry/metrics"
	"github.com/2beens/weeklyblog/internal/telemetry/tracing"
	"github.com/2beens/weeklyblog/internal/uploads"
	"github.com/2beens/weeklyblog/internal/web"
	"github.com/2beens/weeklyblog/pkg"
)

const (
	sessionsCleanupInterval = 8 * time.Hour
	shutdownMaxWait         = 15 * time.Second
	loginRouteName          = "login"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	usersRepo    *auth.UsersRepo
	authService  *auth.Service
	loginChecker *auth.LoginChecker

	uploadStore *uploads.Store
	renderer    *web.Renderer
	sessions    *web.Sessions

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	DatabaseURL             string
	SecretKey               string
	AdminUsername           string
	AdminPassword           string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DatabaseURL:    params.DatabaseURL,
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if err := db.Migrate(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("weeklyblog", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // set to 1 once serving

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "weeklyblog", rdb)
	if err != nil {
		return nil, err
	}

	usersRepo := auth.NewUsersRepo(dbPool)
	if _, err := auth.EnsureDefaultAdmin(ctx, usersRepo, params.AdminUsername, params.AdminPassword); err != nil {
		return nil, fmt.Errorf("ensure default admin: %w", err)
	}

	authService := auth.NewAuthService(auth.DefaultTTL, rdb)
	go authService.RunCleaner(ctx, sessionsCleanupInterval)

	uploadStore, err := uploads.NewStore(cfg.UploadRoot, cfg.AllowedImageExt, cfg.AllowedVideoExt, metricsManager)
	if err != nil {
		return nil, fmt.Errorf("new upload store: %w", err)
	}
	if err := uploadStore.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create upload dirs: %w", err)
	}
	log.Debugf("upload root: %s", uploadStore.Root())

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("new renderer: %w", err)
	}

	secretKey := []byte(params.SecretKey)
	if len(secretKey) == 0 {
		log.Warnln("SECRET_KEY not set, using a random one; sessions will not survive a restart")
		randomKey, err := pkg.GenerateRandomBytes(32)
		if err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		secretKey = randomKey
	}

	return &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,

		usersRepo:    usersRepo,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		uploadStore: uploadStore,
		renderer:    renderer,
		sessions:    web.NewSessions(secretKey, cfg.SecureCookies, auth.DefaultTTL),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("weeklyblog-router"))

	adminOnly := middleware.AdminOnly(s.loginChecker, s.sessions)
	loginLimiter := middleware.RateLimit(
		redis_rate.NewLimiter(s.redisClient),
		loginRouteName,
		s.config.LoginRateLimitAllowedPerMin,
		s.metricsManager,
	)

	blogRepo := blog.NewRepo(s.dbPool)
	blog.NewHandler(
		blogRepo,
		blog.NewCommentsService(blogRepo, s.metricsManager),
		s.renderer,
		s.sessions,
	).SetupRoutes(r)

	blog.NewAdminHandler(
		blogRepo,
		blog.NewPublisher(blogRepo, s.uploadStore, s.metricsManager),
		s.renderer,
		s.sessions,
	).SetupRoutes(r, adminOnly)

	auth.NewHandler(
		s.usersRepo,
		s.authService,
		s.loginChecker,
		s.renderer,
		s.sessions,
	).SetupRoutes(r, loginLimiter, adminOnly)

	uploads.NewHandler(s.uploadStore).SetupRoutes(r)

	r.PathPrefix("/static/").Handler(web.StaticHandler()).Methods("GET", "HEAD").Name("static")

	// all the rest - unhandled paths
	r.NotFoundHandler = middleware.RequestMetrics(s.metricsManager)(http.HandlerFunc(http.NotFound))

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.BodyLimit(s.config.MaxRequestBodyBytes()))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		ReadTimeout:  s.config.ReadTimeout.Duration,
		WriteTimeout: s.config.WriteTimeout.Duration,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{Registry: s.promRegistry}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	ctx, timeoutCancel := context.WithTimeout(context.Background(), shutdownMaxWait)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown http server: %s", err)
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown metrics http server: %s", err)
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
