package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	slackclient "slackproxy/clients/slack"
	"slackproxy/clients/wiki"
	"slackproxy/config"
	"slackproxy/db"
	"slackproxy/handlers"
	"slackproxy/middleware"
	"slackproxy/salesnotif"
	"slackproxy/services/aggregator"
	"slackproxy/services/dispatch"
	"slackproxy/services/installations"
	"slackproxy/services/orders"
	"slackproxy/services/permissions"
	"slackproxy/services/relations"
	"slackproxy/services/selections"
	"slackproxy/services/txmanager"
	"slackproxy/usecases/slackproxy"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackConfig.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "slackproxy",
		LogsURL:     cfg.ServerLogsURL,
	})
	salesnotif.Init(cfg.SlackConfig.SalesWebhookURL, cfg.Environment)

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	redisClient, err := db.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	relationsRepo := db.NewPostgresRelationsRepository(dbConn, cfg.DatabaseSchema)
	installationsRepo := db.NewPostgresInstallationsRepository(dbConn, cfg.DatabaseSchema)
	selectionsRepo := db.NewRedisSelectionsRepository(redisClient, cfg.TTLConfig.Selection)
	ordersRepo := db.NewRedisOrdersRepository(redisClient, cfg.TTLConfig.Order)
	statesRepo := db.NewRedisOAuthStatesRepository(redisClient, cfg.TTLConfig.OAuthState)

	txManager := txmanager.NewTransactionManager(dbConn)

	relationsService := relations.NewRelationsService(relationsRepo, cfg.TTLConfig.Permissions)
	installationsService := installations.NewInstallationsService(
		installationsRepo,
		relationsRepo,
		statesRepo,
		txManager,
		slackclient.NewSlackOAuthClient(),
		cfg.SlackConfig,
		strings.TrimRight(cfg.ProxyURI, "/")+"/slack/oauth_redirect",
	)
	selectionsService := selections.NewSelectionsService(selectionsRepo)
	ordersService := orders.NewOrdersService(ordersRepo)

	dispatcher := dispatch.NewDispatchService(
		wiki.NewClient(&http.Client{}),
		cfg.DispatchConfig.Workers,
		cfg.DispatchConfig.Timeout,
	)
	defer dispatcher.Stop()

	useCase := slackproxy.NewSlackProxyUseCase(
		relationsService,
		installationsService,
		selectionsService,
		ordersService,
		permissions.NewEvaluator(),
		dispatcher,
		aggregator.NewAggregatorService(),
		slackclient.NewSlackClient,
		cfg.ProxyURI,
		cfg.IsDev(),
	)

	// Deferred replies get the dispatch budget plus time to post the result.
	slackHandler := handlers.NewSlackHandler(
		cfg.SlackConfig.SigningSecret,
		useCase,
		alertMiddleware,
		cfg.DispatchConfig.Timeout+30*time.Second,
	)
	wikisHandler := handlers.NewWikisHandler(useCase)
	installHandler := handlers.NewInstallHandler(installationsService)

	router := mux.NewRouter()
	slackHandler.SetupEndpoints(router)
	wikisHandler.SetupEndpoints(router)
	installHandler.SetupEndpoints(router)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", handlers.WikiTokenHeader},
	})

	var handler http.Handler = c.Handler(router)
	handler = middleware.Metrics(handler)
	handler = middleware.AccessLog(newAccessLogger(cfg))(handler)
	handler = chimiddleware.RequestID(handler)
	handler = alertMiddleware.HTTPMiddleware(handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 30 * time.Second,
	}

	if err := handleGracefulShutdown(server); err != nil {
		return err
	}

	log.Printf("📋 Waiting for deferred replies to finish")
	slackHandler.Wait()
	salesnotif.Wait()
	return nil
}

func newAccessLogger(cfg *config.AppConfig) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Str("service", "slackproxy").Logger()
}

func handleGracefulShutdown(server *http.Server) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
