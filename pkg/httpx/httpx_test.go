package httpx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/valyala/fasthttp"
)

func echo(w ResponseWriter, r *Request) {
	w.Header().Set("X-Echo-Method", r.Method)
	w.WriteHeader(http.StatusTeapot)
	body, _ := io.ReadAll(r.Body)
	_, _ = w.Write([]byte(r.Path + ":" + string(body)))
}

func TestNetHTTPAdapter(t *testing.T) {
	h := NetHTTPAdapter(echo)
	req := httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader("hello"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status %d", rec.Code)
	}
	if rec.Header().Get("X-Echo-Method") != http.MethodPost {
		t.Fatalf("header not forwarded: %v", rec.Header())
	}
	if rec.Body.String() != "/ping:hello" {
		t.Fatalf("body %q", rec.Body.String())
	}
}

func TestFastHTTPAdapter(t *testing.T) {
	h := FastHTTPAdapter(echo)

	var req fasthttp.Request
	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI("http://localhost/ping")
	req.SetBodyString("hello")

	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	h(&ctx)

	if ctx.Response.StatusCode() != http.StatusTeapot {
		t.Fatalf("status %d", ctx.Response.StatusCode())
	}
	if string(ctx.Response.Header.Peek("X-Echo-Method")) != http.MethodPost {
		t.Fatalf("header not forwarded")
	}
	if string(ctx.Response.Body()) != "/ping:hello" {
		t.Fatalf("body %q", ctx.Response.Body())
	}
}
