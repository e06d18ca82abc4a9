package routes

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kvist-io/settingstore/internal/db"
	"github.com/kvist-io/settingstore/internal/handlers/health"
	"github.com/kvist-io/settingstore/internal/handlers/settings"
	"github.com/kvist-io/settingstore/internal/repository"
	"github.com/kvist-io/settingstore/pkg/debug"
	"github.com/kvist-io/settingstore/web"
)

// CORSMiddleware handles CORS headers for all requests. The browser page is
// served from the same origin, but the API stays usable from other pages.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Origin")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SetupRoutes configures all application routes and middleware.
//
// Route Groups:
//   - Health check (/health)
//   - Settings CRUD (/settings, /settings/{id})
//   - Embedded browser UI (everything else)
func SetupRoutes(r *mux.Router, sqlDB *sql.DB) {
	debug.Info("Initializing route configuration")

	database := db.NewDB(sqlDB)

	r.Use(CORSMiddleware)
	r.Use(loggingMiddleware)

	settingRepo := repository.NewSettingRepository(database)
	settingsHandler := settings.NewHandler(settingRepo)
	healthHandler := health.NewHandler()

	r.HandleFunc("/health", healthHandler.HandleHealth).Methods("GET")

	r.HandleFunc("/settings", settingsHandler.HandleList).Methods("GET")
	r.HandleFunc("/settings", settingsHandler.HandleCreate).Methods("POST")
	r.HandleFunc("/settings/{id}", settingsHandler.HandleGet).Methods("GET")
	r.HandleFunc("/settings/{id}", settingsHandler.HandleReplace).Methods("PUT")
	r.HandleFunc("/settings/{id}", settingsHandler.HandleDelete).Methods("DELETE")

	// Embedded browser page at the root
	r.PathPrefix("/").Handler(web.StaticHandler())

	debug.Info("Route configuration completed successfully")
	logRegisteredRoutes(r)
}

// loggingMiddleware logs details about each request
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "OPTIONS" {
			debug.Debug("OPTIONS request received: %s from %s", r.URL.Path, r.RemoteAddr)
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		debug.Info("Request received: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

		rw := &responseWriter{w, http.StatusOK}
		next.ServeHTTP(rw, r)

		debug.Info("Request completed: %s %s - Status: %d - Duration: %v",
			r.Method, r.URL.Path, rw.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// logRegisteredRoutes prints all registered routes for debugging
func logRegisteredRoutes(r *mux.Router) {
	debug.Debug("Registered routes:")
	r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			pathTemplate = "<unknown>"
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"ANY"}
		}
		debug.Debug("Route: %s %v", pathTemplate, methods)
		return nil
	})
}
