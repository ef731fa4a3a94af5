// Command migrate aplica el esquema de migrations/ contra la base configurada.
//
//	migrate up | down | version | steps N | force V
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/gestion-comercial-api/internal/infrastructure/migration"
	"github.com/jhoicas/gestion-comercial-api/migrations"
	"github.com/jhoicas/gestion-comercial-api/pkg/config"
	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: migrate up|down|version|steps N|force V")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	m, err := migration.New(cfg.DB.ConnectionString(), migrations.FS, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer m.Close()

	cmd := os.Args[1]
	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = m.Version()
		if err == nil {
			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("versión actual")
		}
	case "steps", "force":
		var n int
		n, err = intArg()
		if err == nil && cmd == "steps" {
			err = m.Steps(n)
		} else if err == nil {
			err = m.Force(n)
		}
	default:
		err = fmt.Errorf("comando desconocido %q", cmd)
	}
	if err != nil {
		log.Error().Err(err).Str("command", cmd).Msg("migración fallida")
		_ = m.Close()
		os.Exit(1)
	}
}

func intArg() (int, error) {
	if len(os.Args) < 3 {
		return 0, fmt.Errorf("falta el argumento numérico")
	}
	n, err := strconv.Atoi(os.Args[2])
	if err != nil {
		return 0, fmt.Errorf("argumento inválido %q: %w", os.Args[2], err)
	}
	return n, nil
}
