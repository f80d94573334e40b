package health

import (
	"net/http"
)

type handler struct{}

func New() *handler {
	return &handler{}
}

// Handler answers liveness without touching the upstream node.
func (h *handler) Handler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
