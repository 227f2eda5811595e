package main

import (
	"context"
	"flag"
	"log"
	"time"

	"skill-swap/internal/app"
	"skill-swap/internal/config"
	"skill-swap/internal/database/migration"
	"skill-swap/internal/database/seeder"
)

func main() {
	dir := flag.String("dir", "", "migrations directory (defaults to MIGRATIONS_DIR)")
	seed := flag.Bool("seed", false, "run seeders after migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *dir != "" {
		cfg.App.MigrationsDir = *dir
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	r := migration.Runner{Dir: cfg.App.MigrationsDir, Logger: c.Logger}
	applied, err := r.RunCount(ctx, c.DB.SQLDB())
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Printf("migrations applied=%d dir=%s", applied, cfg.App.MigrationsDir)

	if !*seed {
		return
	}
	s := seeder.Runner{Seeders: seeder.Defaults(), Logger: c.Logger}
	if err := s.Run(ctx, c.DB); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
}
