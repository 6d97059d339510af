// Command migrate applies, inspects and rolls back the SkillSwap schema.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"skillswap/internal/config"
	"skillswap/internal/database"

	"gorm.io/gorm"
)

const usageText = `usage: go run ./cmd/migrate <command>

commands:
  up              apply pending SQL migrations
  auto            run GORM AutoMigrate for every persistent model
  status          show schema mode, applied and pending migrations
  down [version]  roll back the latest migration (version must be the latest if given)`

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	timeout := flag.Duration("timeout", 5*time.Minute, "abort if the command runs longer than this")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usageText) }
	flag.Parse()
	if flag.NArg() < 1 {
		return fmt.Errorf("%s", usageText)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Println("automigrations applied")
	case "status":
		return printStatus(ctx, db, cfg)
	case "down":
		return down(ctx, db, cfg)
	default:
		return fmt.Errorf("%s", usageText)
	}
	return nil
}

func printStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	status, err := database.GetSchemaStatus(ctx, db, cfg)
	if err != nil {
		return fmt.Errorf("schema status failed: %w", err)
	}
	log.Printf("mode=%s env=%s run_sql=%t run_auto=%t applied=%d pending=%d",
		status.Mode, status.Environment, status.WillRunSQL, status.WillRunAutoMigrate,
		len(status.AppliedVersions), len(status.PendingMigrations))
	for _, m := range status.PendingMigrations {
		log.Printf("pending: %s", m.String())
	}
	if status.DriftError != nil {
		return status.DriftError
	}
	return nil
}

func down(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	var version int
	if flag.NArg() >= 2 {
		v, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", flag.Arg(1), err)
		}
		version = v
	} else {
		cfg.DBSchemaMode = database.SchemaModeSQL
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		if len(status.AppliedVersions) == 0 {
			log.Println("nothing to roll back")
			return nil
		}
		version = status.AppliedVersions[len(status.AppliedVersions)-1]
	}

	if err := database.RollbackMigration(ctx, db, version); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	log.Printf("rolled back migration %06d", version)
	return nil
}
