package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"tripchat/internal/adapters/amadeus"
	"tripchat/internal/adapters/gemini"
	server "tripchat/internal/adapters/http_server"
	"tripchat/internal/adapters/observability"
	redisad "tripchat/internal/adapters/redis"
	"tripchat/internal/app"
	"tripchat/internal/domain"
	"tripchat/internal/shared"
	mysqlrepo "tripchat/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// collaborators; both are optional and the pipeline degrades without them
	var inventory app.OfferSearcher
	if cfg.AmadeusKey != "" {
		client, err := amadeus.New(cfg.AmadeusBase, cfg.AmadeusKey, cfg.AmadeusRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize inventory client")
		}
		cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		inventory = app.NewInventoryService(client, cache, cfg.CacheTTL)
	} else {
		log.Warn().Msg("inventory client disabled; chat runs without hotel data")
	}

	var llm domain.LanguageModel
	if cfg.GeminiKey != "" {
		gc, err := gemini.New(ctx, cfg.GeminiKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize gemini client")
		}
		defer gc.Close()
		llm = gc
	}

	repo := mysqlrepo.New(db)
	chat := app.NewChatService(app.NewQueryParser(llm), inventory, llm, repo)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Chat: chat})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
