// Package api provides the REST API HTTP server for chisubmit.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"github.com/uchicago-cs/chisubmit-sub001/internal/logger"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/api/handlers"
	apiMiddleware "github.com/uchicago-cs/chisubmit-sub001/pkg/api/middleware"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/auth"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/metrics"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/store"
)

// NewRouter creates and configures the chi router with all middleware and routes.
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe
//   - GET /metrics - Prometheus scrape endpoint
//   - GET /api/v1/auth/me - Authenticated caller's identity
//   - /api/v1/users/* - User management (admin only, except self-access)
//   - /api/v1/courses/* - Course, membership, assignment, team and
//     grading management; per-operation authorization is role-based
//     inside the handlers
func NewRouter(st store.Store, db *gorm.DB, authenticator *auth.Authenticator) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	healthHandler := handlers.NewHealthHandler(st)

	// Health and metrics routes - unauthenticated
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})
	r.Method("GET", "/metrics", metrics.Handler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	userHandler := handlers.NewUserHandler(st)
	courseHandler := handlers.NewCourseHandler(st, db)
	assignmentHandler := handlers.NewAssignmentHandler(st)
	teamHandler := handlers.NewTeamHandler(st, db)

	// API v1 routes - everything requires authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiMiddleware.Authenticate(authenticator))

		r.Get("/auth/me", userHandler.Me)

		r.Route("/users", func(r chi.Router) {
			// Self-access allowed - handlers do their own authorization
			r.Get("/{username}", userHandler.Get)
			r.Post("/{username}/api-key", userHandler.RegenerateAPIKey)

			// Admin-only operations
			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireAdmin())

				r.Post("/", userHandler.Create)
				r.Get("/", userHandler.List)
				r.Put("/{username}", userHandler.Update)
				r.Delete("/{username}", userHandler.Delete)
			})
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", courseHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireAdmin())
				r.Post("/", courseHandler.Create)
				r.Delete("/{course}", courseHandler.Delete)
			})

			r.Route("/{course}", func(r chi.Router) {
				// Role checks happen in the handlers against the loaded course
				r.Get("/", courseHandler.Get)
				r.Put("/", courseHandler.Update)

				r.Route("/members", func(r chi.Router) {
					r.Get("/", courseHandler.ListMembers)
					r.Post("/", courseHandler.AddMember)
					r.Put("/{username}", courseHandler.UpdateMember)
					r.Delete("/{username}", courseHandler.RemoveMember)
				})

				// Batch roster import
				r.Post("/students", courseHandler.ImportRoster)

				r.Route("/assignments", func(r chi.Router) {
					r.Get("/", assignmentHandler.List)
					r.Post("/", assignmentHandler.Create)

					r.Route("/{assignment}", func(r chi.Router) {
						r.Get("/", assignmentHandler.Get)
						r.Put("/", assignmentHandler.Update)
						r.Delete("/", assignmentHandler.Delete)

						r.Post("/rubric", assignmentHandler.AddRubricComponent)
						r.Delete("/rubric/{component}", assignmentHandler.DeleteRubricComponent)

						r.Get("/registrations", teamHandler.ListRegistrations)
					})
				})

				r.Route("/teams", func(r chi.Router) {
					r.Get("/", teamHandler.List)
					r.Post("/", teamHandler.Create)

					r.Route("/{team}", func(r chi.Router) {
						r.Get("/", teamHandler.Get)
						r.Delete("/", teamHandler.Delete)

						r.Post("/members", teamHandler.AddMember)
						r.Delete("/members/{username}", teamHandler.RemoveMember)

						r.Post("/registrations", teamHandler.Register)
					})
				})

				r.Route("/registrations/{registration}", func(r chi.Router) {
					r.Put("/grader", teamHandler.AssignGrader)
					r.Put("/grades", teamHandler.SubmitGrade)
					r.Post("/penalties", teamHandler.AddPenalty)
					r.Delete("/penalties/{penalty}", teamHandler.DeletePenalty)
				})
			})
		})
	})

	return r
}

// isHealthPath returns true if the request path is a healthcheck endpoint.
func isHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/") || path == "/metrics"
}

// requestLogger is a custom middleware that logs requests using the internal logger.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): method, path, status, duration
//   - Healthcheck and metrics requests are logged at DEBUG level to reduce noise
//
// API keys travel in the query string, so the raw URL is never logged;
// only the path is.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("API request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		// Wrap response writer to capture status code
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		metrics.ObserveRequest(r.Method, routePattern(r), ww.Status(), duration)

		logArgs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.String(),
		}

		if isHealthPath(r.URL.Path) {
			logger.Debug("API request completed", logArgs...)
		} else {
			logger.Info("API request completed", logArgs...)
		}
	})
}

// routePattern returns the chi route pattern for metrics labels, falling
// back to the raw path for unmatched requests.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
