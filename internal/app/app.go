package app

import (
	"fmt"
	"net/http"

	"asociacion-app-go/internal/config"
	"asociacion-app-go/internal/db"
	"asociacion-app-go/internal/domain/activity"
	"asociacion-app-go/internal/domain/backup"
	"asociacion-app-go/internal/domain/enrollment"
	"asociacion-app-go/internal/domain/member"
	"asociacion-app-go/internal/domain/request"
	"asociacion-app-go/internal/export"
	activityrepo "asociacion-app-go/internal/repository/postgres/activity"
	backuprepo "asociacion-app-go/internal/repository/postgres/backup"
	enrollmentrepo "asociacion-app-go/internal/repository/postgres/enrollment"
	memberrepo "asociacion-app-go/internal/repository/postgres/member"
	requestrepo "asociacion-app-go/internal/repository/postgres/request"
	"asociacion-app-go/internal/transfer"
	"asociacion-app-go/internal/transport/httpserver"
	"asociacion-app-go/internal/transport/httpserver/handler"
	authmw "asociacion-app-go/internal/transport/httpserver/middleware"
	"asociacion-app-go/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

const associationName = "Asociación de Socios"

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	memberStore := memberrepo.NewPostgres(dbConn)
	activityStore := activityrepo.NewPostgres(dbConn)

	members := member.NewService(memberStore)
	activities := activity.NewService(activityStore)
	enrollments := enrollment.NewService(enrollmentrepo.NewPostgres(dbConn), activityStore, memberStore)
	requests := request.NewService(requestrepo.NewPostgres(dbConn))

	snapshots, err := newTransfer(cfg.Backup, log)
	if err != nil {
		return nil, fmt.Errorf("backup transfer: %w", err)
	}
	backups := backup.NewService(backuprepo.NewPostgres(dbConn), snapshots, log)

	auth := authmw.NewJWTAuth(cfg.Auth)
	pdf := export.NewRosterPDF(associationName)
	handlers := handler.New(members, activities, enrollments, requests, backups, auth, pdf, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, auth, reg)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

// newTransfer selects the snapshot delivery backend. A nil Transfer disables
// delivery; exports still work through the API.
func newTransfer(cfg config.BackupConfig, log logger.Logger) (backup.Transfer, error) {
	switch cfg.Transfer {
	case "", "none":
		log.Info("backup: snapshot delivery disabled")
		return nil, nil
	case "local":
		return transfer.NewLocalDir(cfg.Dir), nil
	case "ftp":
		return transfer.NewFTP(transfer.FTPConfig{
			Host:     cfg.FTP.Host,
			Port:     cfg.FTP.Port,
			User:     cfg.FTP.User,
			Password: cfg.FTP.Password,
			Dir:      cfg.FTP.Dir,
		}), nil
	case "sftp":
		return transfer.NewSFTP(transfer.SFTPConfig{
			Host:     cfg.SFTP.Host,
			Port:     cfg.SFTP.Port,
			User:     cfg.SFTP.User,
			Password: cfg.SFTP.Password,
			Dir:      cfg.SFTP.Dir,
		}), nil
	default:
		return nil, fmt.Errorf("unknown backup transfer %q", cfg.Transfer)
	}
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
