package controller

import (
	"net/http"
	"net/http/pprof"
)

// PprofMux returns an http.ServeMux with net/http/pprof handlers registered
// at the root. Mount it with http.StripPrefix under the debug path.
func PprofMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", pprof.Index)
	mux.HandleFunc("GET /cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /profile", pprof.Profile)
	mux.HandleFunc("GET /symbol", pprof.Symbol)
	mux.HandleFunc("POST /symbol", pprof.Symbol)
	mux.HandleFunc("GET /trace", pprof.Trace)
	for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
		mux.Handle("GET /"+name, pprof.Handler(name))
	}

	return mux
}
