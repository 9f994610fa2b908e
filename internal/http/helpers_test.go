package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"shopapi/internal/config"
	"shopapi/internal/crypto"
	"shopapi/internal/domain"
	"shopapi/internal/http/handlers"
	applog "shopapi/internal/log"
	"shopapi/internal/repos"
)

const testSecret = "test-secret"

func testConfig() config.Config {
	return config.Config{
		DBDriver:       repos.DriverSQLite,
		DBDSN:          ":memory:",
		JWT:            config.JWT{Secret: testSecret, Issuer: "shopapi", TTL: time.Hour},
		PasswordHasher: "bcrypt",
		BcryptCost:     bcrypt.MinCost,
		AuthRateMax:    1000,
		AuthRateWindow: time.Minute,
	}
}

type testEnv struct {
	app  *fiber.App
	db   *sqlx.DB
	deps *handlers.Deps
	reg  *prometheus.Registry
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) testEnv {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	reg := prometheus.NewRegistry()
	deps, err := handlers.NewDeps(db, cfg, reg)
	if err != nil {
		t.Fatalf("wire deps: %v", err)
	}
	return testEnv{app: handlers.NewApp(deps), db: db, deps: deps, reg: reg}
}

type response struct {
	Status int
	Header http.Header
	Body   []byte
}

func (r response) json(t *testing.T, out any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, out); err != nil {
		t.Fatalf("decode body %q: %v", r.Body, err)
	}
}

func (e testEnv) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return response{Status: resp.StatusCode, Header: resp.Header, Body: b}
}

type userJSON struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	RoleID       string  `json:"roleId"`
	IsActive     bool    `json:"isActive"`
	PasswordHash *string `json:"passwordHash"`
}

func (e testEnv) signup(t *testing.T, email, password string) userJSON {
	t.Helper()
	r := e.do(t, "POST", "/api/v1/auth/signup", "", map[string]any{"email": email, "password": password})
	if r.Status != fiber.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d body=%s", email, r.Status, r.Body)
	}
	var out struct {
		User userJSON `json:"user"`
	}
	r.json(t, &out)
	return out.User
}

func (e testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	r := e.do(t, "POST", "/api/v1/auth/login", "", map[string]any{"email": email, "password": password})
	if r.Status != fiber.StatusOK {
		t.Fatalf("login %s: expected 200, got %d body=%s", email, r.Status, r.Body)
	}
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	r.json(t, &out)
	return out.AccessToken
}

// seedAdmin inserts an Admin directly; signup cannot grant the role.
func (e testEnv) seedAdmin(t *testing.T, email, password string) string {
	t.Helper()
	hash, err := crypto.NewBcrypt(bcrypt.MinCost).Hash(password)
	if err != nil {
		t.Fatal(err)
	}
	u := &domain.User{Email: email, PasswordHash: hash, IsActive: true, RoleID: domain.RoleAdminID}
	if err := repos.NewUserRepo(e.db).Create(context.Background(), u); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return e.login(t, email, password)
}

type logLine struct {
	Level   string         `json:"level"`
	Action  string         `json:"action"`
	Message string         `json:"message"`
	Status  int            `json:"status"`
	ReqID   string         `json:"req_id"`
	UserID  string         `json:"user_id"`
	Fields  map[string]any `json:"fields"`
	Raw     string         `json:"-"`
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

// captureLogs points the process logger at a buffer while fn runs.
func captureLogs(t *testing.T, fn func()) []logLine {
	t.Helper()
	buf := &lockedBuf{}
	if err := applog.Setup(buf, "debug"); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = applog.Setup(os.Stdout, "info") }()

	fn()

	var out []logLine
	for _, raw := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		var l logLine
		if err := json.Unmarshal([]byte(raw), &l); err == nil {
			l.Raw = raw
			out = append(out, l)
		}
	}
	return out
}

func findAction(lines []logLine, action string) *logLine {
	for i := range lines {
		if lines[i].Action == action {
			return &lines[i]
		}
	}
	return nil
}
