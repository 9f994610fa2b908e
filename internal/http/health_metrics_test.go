package handlers_test

import (
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	r := env.do(t, "GET", "/healthz", "", nil)
	if r.Status != fiber.StatusOK || !strings.Contains(string(r.Body), `"ok":true`) {
		t.Fatalf("expected healthy, got %d body=%s", r.Status, r.Body)
	}

	_ = env.db.Close()
	r = env.do(t, "GET", "/healthz", "", nil)
	if r.Status != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503 with the database closed, got %d", r.Status)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@x.com", "secret1")
	env.do(t, "POST", "/api/v1/auth/login", "", map[string]any{"email": "a@x.com", "password": "nope123"})

	r := env.do(t, "GET", "/metrics", "", nil)
	if r.Status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", r.Status)
	}
	body := string(r.Body)
	for _, want := range []string{
		`shopapi_signups_total{outcome="success"} 1`,
		`shopapi_logins_total{outcome="invalid_credentials"} 1`,
		`route="/api/v1/auth/signup"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %s:\n%s", want, body)
		}
	}
}
