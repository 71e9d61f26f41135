package httpserver

import (
	"net/http"
	"time"

	"asociacion-app-go/internal/config"
	"asociacion-app-go/internal/domain/member"
	"asociacion-app-go/internal/transport/httpserver/handler"
	authmw "asociacion-app-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.JWTAuth, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))
	r.Use(authmw.NewMetrics(reg).Middleware)

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Post("/auth/login", handlers.Login)

		// Applicants reach these without an account.
		r.Post("/requests", handlers.SubmitRequest)
		r.Get("/requests/{token}", handlers.GetRequestByToken)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Post("/auth/logout", handlers.Logout)
			r.Get("/auth/me", handlers.AuthMe)

			r.Get("/me", handlers.Me)
			r.Get("/me/beneficiaries", handlers.MyBeneficiaries)
			r.Get("/me/enrollments", handlers.MyEnrollments)

			r.Get("/activities", handlers.ListActivities)
			r.Get("/activities/{id}", handlers.GetActivity)
			r.Post("/activities/{id}/enrollments", handlers.Enroll)
			r.Delete("/activities/{id}/enrollments", handlers.CancelEnrollment)

			r.Route("/admin", func(r chi.Router) {
				r.Use(authmw.RequireRole(member.RoleBoard))

				r.Get("/members", handlers.ListMembers)
				r.Post("/members", handlers.CreateMember)
				r.Get("/members/expiring", handlers.ExpiringMembers)
				r.Get("/members/{id}", handlers.GetMember)
				r.Post("/members/{id}/renew", handlers.RenewMember)

				r.Post("/activities", handlers.CreateActivity)
				r.Put("/activities/{id}", handlers.UpdateActivity)
				r.Delete("/activities/{id}", handlers.DeleteActivity)
				r.Get("/activities/{id}/roster", handlers.ActivityRoster)
				r.Post("/activities/{id}/enrollments/{enrollment_id}/attendance", handlers.ToggleAttendance)
				r.Get("/activities/{id}/roster.pdf", handlers.ActivityRosterPDF)
				r.Get("/activities.pdf", handlers.ActivitiesPDF)

				r.Get("/requests", handlers.ListRequests)
				r.Post("/requests/{id}/approve", handlers.ApproveRequest)
				r.Post("/requests/{id}/reject", handlers.RejectRequest)
				r.Put("/requests/{id}", handlers.EditRequest)

				r.Post("/backup/export", handlers.ExportBackup)
				r.Post("/backup/import", handlers.ImportBackup)
			})
		})
	})

	return r
}
