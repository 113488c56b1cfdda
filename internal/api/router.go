package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/oshpulse/atlas/internal/api/handlers"
	"github.com/oshpulse/atlas/pkg/config"
	"github.com/oshpulse/atlas/pkg/database"
	"github.com/oshpulse/atlas/pkg/logger"
	"github.com/oshpulse/atlas/pkg/redis"
)

// NewRouter creates and configures the HTTP router.
// ⭐ SSOT: route registration happens only in this function.
func NewRouter(
	countryHandler *handlers.CountryHandler,
	resolveHandler *handlers.ResolveHandler,
	statsHandler *handlers.StatsHandler,
	benchmarkHandler *handlers.BenchmarkHandler,
	insightHandler *handlers.InsightHandler,
	hub *Hub,
	db *database.DB,
	rdb *redis.Client,
	cfg *config.Config,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthHandler(db, rdb)).Methods("GET")

	// API v1
	api := r.PathPrefix("/api/v1").Subrouter()

	// Country endpoints
	api.HandleFunc("/countries/geojson-metadata", countryHandler.GetGeoJSONMetadata).Methods("GET")
	api.HandleFunc("/countries/{iso}/intelligence", countryHandler.GetIntelligence).Methods("GET")
	api.HandleFunc("/countries/{iso}/resolve/{category}", resolveHandler.Resolve).Methods("GET")

	// Stats and benchmarks
	api.HandleFunc("/stats/global", statsHandler.GetGlobal).Methods("GET")
	api.HandleFunc("/benchmarks", benchmarkHandler.GetTable).Methods("GET")

	// Insight endpoints; writes go through the admin gate
	gate := adminOnly(cfg.API.AdminToken, cfg.IsProduction(), log)
	api.HandleFunc("/insights/ws", hub.HandleWS).Methods("GET")
	api.HandleFunc("/insights/{iso}/initialize", gate(insightHandler.Initialize)).Methods("POST")
	api.HandleFunc("/insights/{iso}/regenerate-all", gate(insightHandler.RegenerateAll)).Methods("POST")
	api.HandleFunc("/insights/{iso}/{category}/regenerate", gate(insightHandler.Regenerate)).Methods("POST")
	api.HandleFunc("/insights/{iso}/{category}", insightHandler.Get).Methods("GET")

	// CORS for the dashboard origin
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.API.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         86400,
	})

	// Apply middleware
	r.Use(corsHandler.Handler)
	r.Use(requestIDMiddleware())
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthHandler reports liveness plus dependency status
// GET /health
func healthHandler(db *database.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]string)
		status := "ok"

		switch {
		case db == nil:
			checks["database"] = "not configured"
		default:
			if err := db.Ping(r.Context()); err != nil {
				checks["database"] = err.Error()
				status = "degraded"
			} else {
				checks["database"] = "ok"
			}
		}

		switch {
		case rdb == nil || !rdb.Enabled():
			checks["redis"] = "disabled"
		default:
			if err := rdb.Ping(r.Context()); err != nil {
				checks["redis"] = err.Error()
				status = "degraded"
			} else {
				checks["redis"] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  status,
			"service": "atlas-api",
			"checks":  checks,
		})
	}
}

// adminOnly wraps handlers that mutate insight state. An empty token
// disables the gate outside production; production with no token
// rejects everything rather than running open.
func adminOnly(token string, production bool, log *logger.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if token == "" && !production {
				next(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if token == "" || !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
				log.WithFields(map[string]interface{}{
					"method": r.Method,
					"path":   r.URL.Path,
				}).Warn("Admin endpoint rejected")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Unauthorized",
				})
				return
			}

			next(w, r)
		}
	}
}

// requestIDMiddleware tags every request with an ID for log correlation.
// An inbound X-Request-ID is kept so upstream proxies can trace calls.
func requestIDMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
				r.Header.Set("X-Request-ID", id)
			}
			w.Header().Set("X-Request-ID", id)

			next.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"duration":   time.Since(start),
				"request_id": r.Header.Get("X-Request-ID"),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
