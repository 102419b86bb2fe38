package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"golang.org/x/crypto/bcrypt"

	"github.com/2beens/fitprogress/internal/accounts"
	"github.com/2beens/fitprogress/internal/catalog"
	"github.com/2beens/fitprogress/internal/config"
	"github.com/2beens/fitprogress/internal/history"
	"github.com/2beens/fitprogress/internal/kvstore"
	"github.com/2beens/fitprogress/internal/middleware"
	"github.com/2beens/fitprogress/internal/profile"
	"github.com/2beens/fitprogress/internal/progress"
	"github.com/2beens/fitprogress/internal/telemetry/metrics"
	"github.com/2beens/fitprogress/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config

	kv          kvstore.Store
	redisClient *redis.Client // nil unless the redis backend is used

	catalog          *catalog.Catalog
	engine           *progress.Engine
	history          *history.Service
	historyScheduler *history.Scheduler
	profileService   *profile.Service
	accountsService  *accounts.Service

	unsubscribeHistory func()

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
}

type NewServerParams struct {
	Config        *config.Config
	VersionInfo   string
	RedisPassword string
	// PasswordCost defaults to bcrypt.DefaultCost
	PasswordCost int
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("fitprogress", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	kv, rdb, err := kvstore.New(ctx, kvstore.NewStoreParams{
		Backend:       cfg.StorageBackend,
		RedisHost:     cfg.RedisHost,
		RedisPort:     cfg.RedisPort,
		RedisPassword: params.RedisPassword,
		SQLitePath:    cfg.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("new kv store: %w", err)
	}

	exercisesCatalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	log.Debugf("catalog loaded, exercises: %d", exercisesCatalog.Len())

	defaultGoals := progress.Goals{
		DailyCalorieGoal:  cfg.DefaultDailyCalorieGoal,
		WeeklyWorkoutGoal: cfg.DefaultWeeklyWorkoutGoal,
	}
	profileService := profile.NewService(defaultGoals)
	historyService := history.NewService(kv, cfg.HistoryStorageKey)

	engine := progress.NewEngine(progress.EngineParams{
		Exercises:       exercisesCatalog.All(),
		CategoryBudgets: cfg.CategoryBudgets,
		Store:           progress.NewStore(kv, cfg.ProgressStorageKey),
		Goals:           profileService,
		History:         historyService,
		Metrics:         metricsManager,
	})
	engine.Init(ctx)

	historyScheduler, err := history.NewScheduler(historyService, cfg.HistoryRolloverSchedule)
	if err != nil {
		return nil, fmt.Errorf("new history scheduler: %w", err)
	}

	passwordCost := params.PasswordCost
	if passwordCost == 0 {
		passwordCost = bcrypt.DefaultCost
	}

	s := &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,

		kv:          kv,
		redisClient: rdb,

		catalog:          exercisesCatalog,
		engine:           engine,
		history:          historyService,
		historyScheduler: historyScheduler,
		profileService:   profileService,
		accountsService:  accounts.NewService(kv, cfg.AccountsStorageKey, passwordCost),

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}

	s.unsubscribeHistory = engine.TrackHistory(historyService)

	return s, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		c, err := catalog.New(catalog.Default())
		if err != nil {
			return nil, fmt.Errorf("default catalog: %w", err)
		}
		return c, nil
	}

	c, err := catalog.LoadYAML(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog [%s]: %w", path, err)
	}
	return c, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitprogress-router"))

	catalogHandler := catalog.NewHandler(s.catalog)
	r.HandleFunc("/catalog", catalogHandler.HandleAll).Methods("GET", "OPTIONS").Name("catalog")
	r.HandleFunc("/catalog/categories", catalogHandler.HandleCategories).Methods("GET", "OPTIONS").Name("catalog-categories")
	r.HandleFunc("/catalog/category/{category}", catalogHandler.HandleCategory).Methods("GET", "OPTIONS").Name("catalog-category")

	progressHandler := progress.NewHandler(s.engine, s.history)
	r.HandleFunc("/progress/plan", progressHandler.HandleGetPlan).Methods("GET", "OPTIONS").Name("progress-plan")
	r.HandleFunc("/progress/state", progressHandler.HandleGetState).Methods("GET", "OPTIONS").Name("progress-state")
	r.HandleFunc("/progress/totals", progressHandler.HandleGetTotals).Methods("GET", "OPTIONS").Name("progress-totals")
	r.HandleFunc("/progress/history", progressHandler.HandleGetHistory).Methods("GET", "OPTIONS").Name("progress-history")
	r.HandleFunc("/progress/events", progressHandler.HandleEvents).Methods("GET").Name("progress-events")
	r.HandleFunc("/progress/exercise/{id}/set", progressHandler.HandleCompleteSet).Methods("POST", "OPTIONS").Name("complete-set")
	r.HandleFunc("/progress/exercise/{id}/reset", progressHandler.HandleResetExercise).Methods("POST", "OPTIONS").Name("reset-exercise")
	r.HandleFunc("/progress/exercise/{id}/done", progressHandler.HandleMarkExerciseDone).Methods("POST", "OPTIONS").Name("mark-exercise-done")
	r.HandleFunc("/progress/clear", progressHandler.HandleClearAll).Methods("POST", "OPTIONS").Name("clear-all")

	profileHandler := profile.NewHandler(s.profileService, s.engine, s.accountsService)
	r.HandleFunc("/profile", profileHandler.HandleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/profile/goals", profileHandler.HandleUpdateGoals).Methods("PUT", "OPTIONS").Name("update-goals")

	accountsHandler := accounts.NewHandler(s.accountsService, s.profileService)
	accountsRouter := r.PathPrefix("/accounts").Subrouter()
	accountsRouter.HandleFunc("/signup", accountsHandler.HandleSignup).Methods("POST", "OPTIONS").Name("signup")
	accountsRouter.HandleFunc("/login", accountsHandler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	accountsRouter.HandleFunc("/logout", accountsHandler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")
	accountsRouter.HandleFunc("/profile", accountsHandler.HandleUpdateProfile).Methods("PUT", "OPTIONS").Name("update-profile")
	if s.redisClient != nil {
		accountsRouter.Use(middleware.RateLimit(
			redis_rate.NewLimiter(s.redisClient),
			"accounts",
			s.config.LoginRateLimitAllowedPerMin,
			s.metricsManager,
		))
	} else {
		log.Debugln("accounts rate limiting disabled, no redis client")
	}

	r.HandleFunc("/version", s.handleVersion).Methods("GET", "OPTIONS").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	if s.versionInfo == "" {
		pkg.WriteTextResponseOK(w, "unknown")
		return
	}
	pkg.WriteTextResponseOK(w, s.versionInfo)
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:     router,
		Addr:        ipAndPort,
		ReadTimeout: time.Minute,
		// no WriteTimeout, it would cut the progress events stream
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
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

	s.historyScheduler.Start()
	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	// waits for a running rollover to finish
	s.historyScheduler.Stop()
	if s.unsubscribeHistory != nil {
		s.unsubscribeHistory()
	}

	// closes the redis client too, when used
	if err := s.kv.Close(); err != nil {
		log.Errorf("failed to close kv store: %s", err)
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
