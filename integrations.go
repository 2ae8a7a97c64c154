package integrations

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/Seann-Moser/integrations/oauth/oclient"
	"github.com/Seann-Moser/integrations/utils"
	"github.com/google/uuid"
)

// Provider is one CRM integration: its OAuth handshake and item listing.
type Provider interface {
	oclient.OAuthService
	oclient.ItemLoader
	Name() string
}

// Integrations mounts every registered provider under /integrations/{name}/.
type Integrations struct {
	providers   map[string]Provider
	corsOrigins []string
	logger      *slog.Logger
}

func NewIntegrations(logger *slog.Logger, corsOrigins []string, providers ...Provider) *Integrations {
	if logger == nil {
		logger = slog.Default()
	}
	i := &Integrations{
		providers:   map[string]Provider{},
		corsOrigins: corsOrigins,
		logger:      logger,
	}
	for _, p := range providers {
		i.Register(p)
	}
	return i
}

// Register adds p, replacing any provider with the same name.
func (i *Integrations) Register(p Provider) {
	i.providers[p.Name()] = p
}

// Names returns the registered provider names in sorted order.
func (i *Integrations) Names() []string {
	names := make([]string, 0, len(i.providers))
	for name := range i.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handler returns the routed HTTP handler wrapped in CORS and request logging.
//
// Per provider:
//
//	POST /integrations/{name}/authorize       form user_id, org_id → authorization URL
//	GET  /integrations/{name}/oauth2callback  provider redirect → page closing the popup
//	POST /integrations/{name}/credentials     form user_id, org_id → token bundle, once
//	POST /integrations/{name}/load            form credentials → items
func (i *Integrations) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, name := range i.Names() {
		h := oclient.NewHandler(i.providers[name], i.providers[name], i.logger)
		prefix := "/integrations/" + name
		mux.HandleFunc("POST "+prefix+"/authorize", h.Authorize)
		mux.HandleFunc("GET "+prefix+"/oauth2callback", h.Callback)
		mux.HandleFunc("POST "+prefix+"/credentials", h.Credentials)
		mux.HandleFunc("POST "+prefix+"/load", h.Load)
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return i.Middleware(utils.CORS(i.corsOrigins)(mux))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Middleware tags each request with an X-Request-ID and logs its outcome.
func (i *Integrations) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", reqID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		i.logger.InfoContext(r.Context(), "request",
			"request_id", reqID,
			"method", r.Method,
			"url", fullURL(r),
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func fullURL(r *http.Request) string {
	// Default to the original scheme
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host

	// Trust X-Forwarded-Proto if set (e.g., behind Nginx)
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// Use X-Forwarded-Host if available
	if fwdHost := r.Header.Get("X-Forwarded-Host"); fwdHost != "" {
		host = fwdHost
	}

	return fmt.Sprintf("%s://%s%s", scheme, host, r.URL.Path)
}
