// Command nuke_db drops every table and recreates the schema.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"askme/internal/config"
	"askme/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	force := flag.Bool("force", false, "Allow running outside development")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if !strings.EqualFold(cfg.Env, "development") && !*force {
		log.Fatalf("refusing to nuke %s database without -force", cfg.Env)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Nuking database...")
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("DROP SCHEMA public CASCADE; CREATE SCHEMA public;").Error; err != nil {
			log.Fatalf("failed to nuke schema: %v", err)
		}
		if err := db.Exec("GRANT ALL ON SCHEMA public TO public;").Error; err != nil {
			log.Fatalf("failed to grant schema permissions: %v", err)
		}
	} else {
		models := database.PersistentModels()
		for i := len(models) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(models[i]); err != nil {
				log.Fatalf("failed to drop %T: %v", models[i], err)
			}
		}
	}
	fmt.Println("Database nuked. Run `go run ./cmd/migrate auto` to recreate the schema.")
}
