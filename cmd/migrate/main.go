// Command migrate aplica las migraciones embebidas y termina.
package main

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "migrate"})

	if cfg.DB.Driver != config.DriverPostgres {
		log.Fatal().Str("db_driver", cfg.DB.Driver).Msg("las migraciones solo aplican a postgres")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log.Zerolog()); err != nil {
		pool.Close()
		log.Fatal().Err(err).Msg("migración fallida")
	}
	log.Info().Msg("migraciones aplicadas")
}
