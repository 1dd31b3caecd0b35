package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareDisabledWhenKeyUnset(t *testing.T) {
	h := Middleware("")(okHandler())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/workers/x/assignments", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestMiddlewareRejectsWrongKey(t *testing.T) {
	h := Middleware("secret")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/workers/x/assignments", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", rr.Code)
	}

	req.Header.Set("Authorization", "Bearer wrong")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong key, got %d", rr.Code)
	}
}

func TestMiddlewareAcceptsKeyAndExemptsHealth(t *testing.T) {
	h := Middleware("secret")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/workers/x/assignments", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected health to stay open, got %d", rr.Code)
	}
}

func TestExtractBearerKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := ExtractBearerKey(r); err != ErrMissingAuthorization {
		t.Fatalf("expected ErrMissingAuthorization, got %v", err)
	}

	r.Header.Set("Authorization", "Basic abc")
	if _, err := ExtractBearerKey(r); err != ErrMalformedAuthorization {
		t.Fatalf("expected ErrMalformedAuthorization, got %v", err)
	}

	r.Header.Set("Authorization", "Bearer abc")
	key, err := ExtractBearerKey(r)
	if err != nil || key != "abc" {
		t.Fatalf("expected abc, got %q err %v", key, err)
	}
}
