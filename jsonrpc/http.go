package jsonrpc

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// httpHandler binds a Server to HTTP per the JSON-RPC over HTTP convention:
// POST only, application/json bodies, 204 No Content when every member of
// the request was a notification.
type httpHandler[M any] struct {
	server *Server[M]
	meta   func(*http.Request) M
}

// HTTPHandler returns an http.Handler feeding request bodies through the
// server. meta derives the per-call metadata from the HTTP request; it may
// be nil when M's zero value suffices.
//
// Transport policy beyond this (timeouts, limits, auth at the HTTP layer)
// belongs to the caller's server configuration.
func (s *Server[M]) HTTPHandler(meta func(*http.Request) M) http.Handler {
	return &httpHandler[M]{server: s, meta: meta}
}

func (h *httpHandler[M]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "JSON-RPC requires POST method", http.StatusMethodNotAllowed)
		return
	}
	contentType := r.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	var meta M
	if h.meta != nil {
		meta = h.meta(r)
	}

	out := h.server.HandleBytes(r.Context(), body, meta)
	if out.Empty() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	// Headers are already written; an encode failure here has nowhere to go.
	_ = json.NewEncoder(w).Encode(out)
}
