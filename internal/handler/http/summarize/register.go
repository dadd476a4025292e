package summarize

import "net/http"

// Register mounts the summarize endpoints. wrap, when non-nil, is applied to
// both handlers; the server uses it for the per-request time budget.
func Register(mux *http.ServeMux, svc Pipeline, wrap func(http.Handler) http.Handler) {
	if wrap == nil {
		wrap = func(h http.Handler) http.Handler { return h }
	}
	mux.Handle("POST /summarize", wrap(Handler{Svc: svc}))
	mux.Handle("POST /summarize/hf", wrap(Handler{Svc: svc, Forced: true}))
}
