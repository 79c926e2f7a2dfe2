// Command migrate applies or rolls back the embedded database schema.
//
//	migrate up       apply every pending migration
//	migrate down     roll back the latest migration
//	migrate version  print the current schema version
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"fooddelivery/cmd"
	"fooddelivery/migrations"

	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: migrate [up|down|version]")
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}
	if err = configs.ValidateDB(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db, err := sql.Open("postgres", configs.DSN())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	switch command {
	case "up":
		err = migrations.Up(ctx, db)
	case "down":
		err = migrations.Down(ctx, db)
	case "version":
		var version int64
		if version, err = migrations.Version(ctx, db); err == nil {
			fmt.Println(version)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", command, err)
	}
}
