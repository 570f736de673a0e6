package http

import (
	"net/http"

	"staff-service/internal/delivery/http/handler"
	"staff-service/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Router struct {
	router            *mux.Router
	apiPrefix         string
	log               *logrus.Logger
	doctorHandler     *handler.DoctorHandler
	auditLogHandler   *handler.AuditLogHandler
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
	gatherer          prometheus.Gatherer
}

func NewRouter(
	apiPrefix string,
	log *logrus.Logger,
	doctorHandler *handler.DoctorHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	gatherer prometheus.Gatherer,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		apiPrefix:         apiPrefix,
		log:               log,
		doctorHandler:     doctorHandler,
		auditLogHandler:   auditLogHandler,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
		gatherer:          gatherer,
	}
}

func (r *Router) Setup() http.Handler {
	// Metrics
	if r.gatherer != nil {
		r.router.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// Health check
	r.router.HandleFunc(r.apiPrefix+"/", r.rootCheck).Methods(http.MethodGet)
	r.router.HandleFunc(r.apiPrefix+"/health", r.healthCheck).Methods(http.MethodGet)

	staff := r.router.PathPrefix(r.apiPrefix + "/staff").Subrouter()

	// Audit trail (clinic admin)
	staff.Handle("/audit-logs", r.admin(r.auditLogHandler.ListAuditLogs)).Methods(http.MethodGet)
	staff.Handle("/audit-logs/{id}", r.admin(r.auditLogHandler.GetAuditLog)).Methods(http.MethodGet)

	// Doctor routes; /me must be registered before /{doctorId}
	staff.Handle("/register", r.admin(r.doctorHandler.Register)).Methods(http.MethodPost)
	staff.HandleFunc("/clinic/{clinicId}/speciality", r.doctorHandler.GetDoctorsBySpecialty).Methods(http.MethodGet)
	staff.HandleFunc("/clinic/{clinicId}/speciality/{speciality}", r.doctorHandler.GetDoctorsBySpecialty).Methods(http.MethodGet)
	staff.Handle("/me", r.authenticated(r.doctorHandler.GetMe)).Methods(http.MethodGet)
	staff.HandleFunc("/{doctorId}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	staff.Handle("/{doctorId}", r.admin(r.doctorHandler.UpdateSpecialty)).Methods(http.MethodPut)
	staff.Handle("/{doctorId}", r.admin(r.doctorHandler.DeleteDoctor)).Methods(http.MethodDelete)

	r.router.Use(r.loggingMiddleware.Handle)

	// CORS wraps the router so preflight requests are answered before route matching
	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) authenticated(h http.HandlerFunc) http.Handler {
	return r.authMiddleware.Authenticate(h)
}

func (r *Router) admin(h http.HandlerFunc) http.Handler {
	return r.authMiddleware.Authenticate(middleware.RequireClinicAdmin(r.log)(h))
}

func (r *Router) rootCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Staff service is running"))
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
