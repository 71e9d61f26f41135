// Command backup exports or imports the JSON snapshot from the command line,
// independently of the HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"asociacion-app-go/internal/config"
	"asociacion-app-go/internal/db"
	"asociacion-app-go/internal/domain/backup"
	backuprepo "asociacion-app-go/internal/repository/postgres/backup"
	"asociacion-app-go/pkg/logger"
)

func main() {
	var (
		export = flag.String("export", "", "write a snapshot to the given file ('-' for stdout)")
		load   = flag.String("import", "", "import a snapshot from the given file")
	)
	flag.Parse()

	log := logger.NewFromEnv()

	if (*export == "") == (*load == "") {
		log.Critical("backup: exactly one of -export or -import is required")
		os.Exit(2)
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Critical("backup: load config failed", "err", err)
		os.Exit(1)
	}

	dbConn, err := db.NewPostgres(cfg.DB)
	if err != nil {
		log.Critical("backup: db connect failed", "err", err)
		os.Exit(1)
	}

	service := backup.NewService(backuprepo.NewPostgres(dbConn), nil, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *export != "" {
		data, err := service.ExportJSON(ctx)
		if err != nil {
			log.Critical("backup: export failed", "err", err)
			os.Exit(1)
		}
		if *export == "-" {
			fmt.Println(string(data))
			return
		}
		if err := os.WriteFile(*export, data, 0o600); err != nil {
			log.Critical("backup: write file failed", "path", *export, "err", err)
			os.Exit(1)
		}
		log.Info("backup: snapshot exported", "path", *export)
		return
	}

	data, err := os.ReadFile(*load)
	if err != nil {
		log.Critical("backup: read file failed", "path", *load, "err", err)
		os.Exit(1)
	}

	if err := db.Migrate(dbConn); err != nil {
		log.Critical("backup: migrate failed", "err", err)
		os.Exit(1)
	}

	if _, err := service.Import(ctx, data); err != nil {
		if errors.Is(err, backup.ErrStoreNotEmpty) {
			log.Critical("backup: refusing to import into a non-empty database")
			os.Exit(1)
		}
		log.Critical("backup: import failed", "err", err)
		os.Exit(1)
	}

	log.Info("backup: snapshot imported", "path", *load)
}
