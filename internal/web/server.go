package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/folioscope/folioscope/internal/diagnostic"
	"github.com/folioscope/folioscope/internal/logger"
	"github.com/folioscope/folioscope/internal/state"
	"github.com/folioscope/folioscope/internal/types"
)

var webLogger = logger.GetForComponent("web_server")

// WebServer handles HTTP requests for portfolio diagnostics
type WebServer struct {
	router  *mux.Router
	port    string
	engine  *diagnostic.Engine
	tables  types.ScoringTables
	persist bool
}

// NewWebServer creates a new web server instance. persist controls whether
// completed runs are written to the database.
func NewWebServer(port string, engine *diagnostic.Engine, tables types.ScoringTables, persist bool) *WebServer {
	if port == "" {
		port = "8080"
	}

	server := &WebServer{
		router:  mux.NewRouter(),
		port:    port,
		engine:  engine,
		tables:  tables,
		persist: persist,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	// Health endpoint (direct route)
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")

	// API endpoints
	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.handleHealth).Methods("GET")
	api.HandleFunc("/diagnostic", ws.handleDiagnostic).Methods("POST")
	api.HandleFunc("/diagnostics/recent", ws.handleRecentDiagnostics).Methods("GET")
	api.HandleFunc("/scoring-tables", ws.handleGetScoringTables).Methods("GET")

	// Add CORS middleware
	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Router exposes the configured router, mainly for tests.
func (ws *WebServer) Router() http.Handler {
	return ws.router
}

// Start starts the web server
func (ws *WebServer) Start() error {
	webLogger.Info().Str("port", ws.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + ws.port,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// diagnosticRequest is the POST /api/diagnostic body.
type diagnosticRequest struct {
	Profile    types.InvestorProfile `json:"profile"`
	Allocation types.Allocation      `json:"allocation"`
}

// handleDiagnostic runs one diagnostic for the submitted profile and
// allocation. Validation failures map to 400 with the offending field.
func (ws *WebServer) handleDiagnostic(w http.ResponseWriter, r *http.Request) {
	var req diagnosticRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := ws.engine.GenerateDiagnostic(r.Context(), req.Profile, req.Allocation)
	if err != nil {
		var validationErr *types.ValidationError
		if errors.As(err, &validationErr) {
			ws.writeJSONResponse(w, http.StatusBadRequest, map[string]interface{}{
				"error":   true,
				"field":   validationErr.Field,
				"message": validationErr.Reason,
			})
			return
		}
		webLogger.Error().Err(err).Msg("Diagnostic generation failed")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to generate diagnostic")
		return
	}

	if ws.persist {
		if _, err := state.SaveDiagnosticRun(result); err != nil {
			// Persistence is best effort, the response is already computed.
			webLogger.Warn().Err(err).Msg("Failed to persist diagnostic run")
		}
	}

	ws.writeJSONResponse(w, http.StatusOK, result)
}

// handleRecentDiagnostics returns stored run summaries, newest first.
func (ws *WebServer) handleRecentDiagnostics(w http.ResponseWriter, r *http.Request) {
	if !ws.persist {
		ws.writeErrorResponse(w, http.StatusNotFound, "Persistence is disabled")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 200 {
			ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	records, err := state.GetRecentDiagnosticRuns(limit)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to retrieve diagnostic runs")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve diagnostic runs")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}

// handleGetScoringTables returns the scoring tables in use.
func (ws *WebServer) handleGetScoringTables(w http.ResponseWriter, r *http.Request) {
	ws.writeJSONResponse(w, http.StatusOK, ws.tables)
}

// handleHealth returns server health status
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	dbHealthy := true
	if ws.persist {
		if err := state.TestDBConnection(); err != nil {
			dbHealthy = false
			status = "degraded"
		}
	}

	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":      status,
		"db_healthy":  dbHealthy,
		"persistence": ws.persist,
		"timestamp":   time.Now().UTC(),
	})
}

func (ws *WebServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (ws *WebServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, statusCode, response)
}

func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// responseWriterWrapper captures the status code for request logging.
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		webLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}
