// Command migrate applies or inspects the AskMe schema.
//
//	migrate auto    create or update every table
//	migrate status  print which tables exist as YAML
//	migrate check   like status, but exit 1 when a table is missing
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"askme/internal/config"
	"askme/internal/database"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var errSchemaIncomplete = errors.New("schema incomplete")

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate <auto|status|check>")
	}
	flag.Parse()
	cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	if cmd != "auto" && cmd != "status" && cmd != "check" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if cmd == "auto" {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		log.Printf("schema up to date (%d tables)", len(database.PersistentModels()))
		return nil
	}

	status, err := database.GetSchemaStatus(ctx, db, cfg)
	if err != nil {
		return fmt.Errorf("schema status: %w", err)
	}
	out, err := yaml.Marshal(status)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	if cmd == "check" && len(status.Missing) > 0 {
		return fmt.Errorf("%w: missing %s", errSchemaIncomplete, strings.Join(status.Missing, ", "))
	}
	return nil
}
