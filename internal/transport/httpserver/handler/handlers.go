package handler

import (
	"asociacion-app-go/internal/domain/activity"
	"asociacion-app-go/internal/domain/backup"
	"asociacion-app-go/internal/domain/enrollment"
	"asociacion-app-go/internal/domain/member"
	"asociacion-app-go/internal/domain/request"
	"asociacion-app-go/internal/export"
	"asociacion-app-go/internal/transport/httpserver/middleware"
	"asociacion-app-go/pkg/logger"
)

type Handlers struct {
	Members     *member.Service
	Activities  *activity.Service
	Enrollments *enrollment.Service
	Requests    *request.Service
	Backups     *backup.Service

	auth *middleware.JWTAuth
	pdf  *export.RosterPDF
	log  logger.Logger
}

func New(members *member.Service, activities *activity.Service, enrollments *enrollment.Service, requests *request.Service, backups *backup.Service, auth *middleware.JWTAuth, pdf *export.RosterPDF, log logger.Logger) *Handlers {
	return &Handlers{
		Members:     members,
		Activities:  activities,
		Enrollments: enrollments,
		Requests:    requests,
		Backups:     backups,
		auth:        auth,
		pdf:         pdf,
		log:         log,
	}
}
