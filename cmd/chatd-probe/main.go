package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"

	"chatd/pkg/httpx"
)

// chatd-probe is a minimal fasthttp sidecar exposing liveness endpoints.
// Deployments that scrape health at high frequency can point probes here
// instead of the main server.
func main() {
	addr := flag.String("addr", ":8081", "listen address for the health probe")
	ver := flag.String("version", "dev", "version string to return")
	flag.Parse()

	h := func(w httpx.ResponseWriter, r *httpx.Request) {
		switch r.Path {
		case "/health", "/healthz":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(fmt.Sprintf("{\"status\":\"ok\",\"version\":%q}", *ver)))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}

	fmt.Printf("chatd-probe listening on %s\n", *addr)
	srv := &fasthttp.Server{
		Handler:            httpx.FastHTTPAdapter(h),
		Name:               "chatd-probe",
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       5 * time.Second,
		MaxRequestBodySize: 1 << 20,
	}
	if err := srv.ListenAndServe(*addr); err != nil {
		fmt.Printf("fasthttp server exit: %v\n", err)
	}
}
