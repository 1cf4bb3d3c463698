package main

import (
	"context"
	"fmt"
	"os"

	"github.com/checho03/granja-valencia/internal/config"
	"github.com/checho03/granja-valencia/internal/interfaces/router"
	"github.com/checho03/granja-valencia/internal/scheduler"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load: " + err.Error())
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	app, db, rdb, err := router.CreateApp(cfg)
	if err != nil {
		panic("app create: " + err.Error())
	}

	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			panic("get DB: " + err.Error())
		}
		if err := sqlDB.Ping(); err != nil {
			panic("Postgres connection failed: " + err.Error())
		}
		log.Info().Msg("Postgres connected")

		sched := scheduler.NewScheduler(cfg, db)
		sched.Start()
		defer sched.Stop()
	}
	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			panic("Redis connection failed: " + err.Error())
		}
		log.Info().Msg("Redis connected")
	}

	log.Info().Str("port", cfg.Port).Msg(fmt.Sprintf("Server running at http://localhost:%s", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		panic(err)
	}
}
