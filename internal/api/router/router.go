package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/inis-relay/internal/http/apierror"
	httpmiddleware "github.com/wolfman30/inis-relay/internal/http/middleware"
	"github.com/wolfman30/inis-relay/internal/leads"
	"github.com/wolfman30/inis-relay/internal/voice"
	"github.com/wolfman30/inis-relay/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	LeadsHandler   *leads.Handler
	VoiceHandler   *voice.Handler
	MetricsHandler http.Handler
	AllowedOrigin  string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.CORS(cfg.AllowedOrigin))

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.LeadsHandler != nil {
			api.Post("/lead", cfg.LeadsHandler.SubmitLead)
		}
		if cfg.VoiceHandler != nil {
			api.Post("/call-me", cfg.VoiceHandler.CallMe)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apierror.WriteJSON(w, http.StatusNotFound, apierror.Body{Error: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apierror.WriteJSON(w, http.StatusMethodNotAllowed, apierror.Body{Error: "Method not allowed"})
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	apierror.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
