// Command seed creates the initial board accounts so the application can be
// administered before any membership request has been approved.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	"asociacion-app-go/internal/config"
	"asociacion-app-go/internal/db"
	"asociacion-app-go/internal/domain/member"
	memberrepo "asociacion-app-go/internal/repository/postgres/member"
	"asociacion-app-go/pkg/logger"
)

func main() {
	var (
		name     = flag.String("name", "", "display name of the board account")
		login    = flag.String("login", "", "login name of the board account")
		password = flag.String("password", "", "password of the board account")
	)
	flag.Parse()

	log := logger.NewFromEnv()

	*name = strings.TrimSpace(*name)
	*login = strings.TrimSpace(*login)
	if *name == "" || *login == "" || *password == "" {
		log.Critical("seed: -name, -login and -password are required")
		os.Exit(2)
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Critical("seed: load config failed", "err", err)
		os.Exit(1)
	}

	dbConn, err := db.NewPostgres(cfg.DB)
	if err != nil {
		log.Critical("seed: db connect failed", "err", err)
		os.Exit(1)
	}

	if err := db.Migrate(dbConn); err != nil {
		log.Critical("seed: migrate failed", "err", err)
		os.Exit(1)
	}

	members := member.NewService(memberrepo.NewPostgres(dbConn))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := members.CreateAccount(ctx, member.CreateAccountInput{
		Name:         *name,
		LoginName:    *login,
		Password:     *password,
		Role:         member.RoleBoard,
		ValidThrough: member.EndOfYear(time.Now()),
	})
	if err != nil {
		if errors.Is(err, member.ErrDuplicateLogin) {
			log.Warn("seed: login already exists", "login_name", *login)
			return
		}
		log.Critical("seed: create account failed", "err", err)
		os.Exit(1)
	}

	log.Info("seed: board account created", "member_id", created.ID, "login_name", created.LoginName)
}
