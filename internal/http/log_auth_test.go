package handlers_test

import (
	"strings"
	"testing"
)

// auth outcomes are logged, credentials are not
func TestAuthLogging(t *testing.T) {
	env := newTestEnv(t)

	var token string
	lines := captureLogs(t, func() {
		env.signup(t, "a@x.com", "Sup3rSecret")
		env.do(t, "POST", "/api/v1/auth/signup", "", map[string]any{"email": "a@x.com", "password": "Sup3rSecret"})
		env.do(t, "POST", "/api/v1/auth/login", "", map[string]any{"email": "a@x.com", "password": "WrongPass1"})
		token = env.login(t, "a@x.com", "Sup3rSecret")
	})

	signup := findAction(lines, "auth.signup.success")
	if signup == nil {
		t.Fatal("missing auth.signup.success log")
	}
	if signup.Level != "audit" || signup.Fields["email"] != "a@x.com" {
		t.Fatalf("unexpected signup log: %s", signup.Raw)
	}

	dup := findAction(lines, "auth.signup.fail")
	if dup == nil || dup.Fields["reason"] != "duplicate" {
		t.Fatalf("expected duplicate signup failure log, got %+v", dup)
	}

	fail := findAction(lines, "auth.login.fail")
	if fail == nil {
		t.Fatal("missing auth.login.fail log")
	}
	if fail.Level != "warn" || fail.Fields["reason"] != "invalid_credentials" {
		t.Fatalf("unexpected login failure log: %s", fail.Raw)
	}

	ok := findAction(lines, "auth.login.success")
	if ok == nil || ok.UserID == "" {
		t.Fatalf("login success should carry the user id, got %+v", ok)
	}

	for _, l := range lines {
		if strings.Contains(l.Raw, "Sup3rSecret") || strings.Contains(l.Raw, "WrongPass1") {
			t.Fatalf("password leaked into logs: %s", l.Raw)
		}
		if strings.Contains(l.Raw, token) || strings.Contains(l.Raw, "$2a$") {
			t.Fatalf("credential material leaked into logs: %s", l.Raw)
		}
	}
}

// rejected bearer tokens are logged with the status the client receives
func TestTokenRejectionLogStatus(t *testing.T) {
	env := newTestEnv(t)

	lines := captureLogs(t, func() {
		env.do(t, "GET", "/api/v1/users", "", nil)
		env.do(t, "GET", "/api/v1/users", "not-a-jwt", nil)
	})

	for _, action := range []string{"auth.token.missing", "auth.token.reject"} {
		l := findAction(lines, action)
		if l == nil {
			t.Fatalf("missing %s log", action)
		}
		if l.Status != 401 {
			t.Fatalf("%s: expected status 401 in log, got %d: %s", action, l.Status, l.Raw)
		}
	}
}
