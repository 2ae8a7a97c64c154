package oclient

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Seann-Moser/integrations/integration"
)

// closeWindowPage is returned by the callback. It carries no data: the opener
// observes the popup closing and then calls the credentials endpoint.
const closeWindowPage = `<html>
<script>
    window.close();
</script>
</html>
`

// ItemLoader lists a provider's records using a credential bundle.
type ItemLoader interface {
	Items(ctx context.Context, credentials []byte) ([]integration.Item, error)
}

type Handler struct {
	service OAuthService
	loader  ItemLoader
	logger  *slog.Logger
}

func NewHandler(service OAuthService, loader ItemLoader, logger *slog.Logger) Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return Handler{service: service, loader: loader, logger: logger}
}

// Authorize handles POST /authorize with form fields user_id and org_id.
func (h *Handler) Authorize(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Authorize(r.Context(), identityFromForm(r))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Callback handles the provider redirect and closes the popup on success.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	_, err := h.service.Callback(r.Context(), CallbackParams{
		Code:  q.Get("code"),
		State: q.Get("state"),
		Error: q.Get("error"),
	})
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(closeWindowPage))
}

// Credentials handles POST /credentials with form fields user_id and org_id.
func (h *Handler) Credentials(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.service.Credentials(r.Context(), identityFromForm(r))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

// Load handles POST /load with the form field credentials holding a bundle.
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	items, err := h.loader.Items(r.Context(), []byte(r.FormValue("credentials")))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	if items == nil {
		items = []integration.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func identityFromForm(r *http.Request) Identity {
	return Identity{
		UserID: r.FormValue("user_id"),
		OrgID:  r.FormValue("org_id"),
	}
}

// writeErr reports client errors with their detail and hides everything else
// behind a 500.
func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var ce *ClientError
	if errors.As(err, &ce) {
		writeJSON(w, ce.Status, map[string]string{"detail": ce.Detail})
		return
	}
	h.logger.ErrorContext(r.Context(), "integration request failed", "path", r.URL.Path, "err", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal Server Error"})
}

// writeJSON helper sends a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("error writing json response", "err", err)
	}
}
