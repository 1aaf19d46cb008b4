package handlers_test

import (
	"bytes"
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
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"menuboard/internal/config"
	"menuboard/internal/http/handlers"
	"menuboard/internal/ids"
	applog "menuboard/internal/log"
	"menuboard/internal/repos"
	"menuboard/web"
)

const (
	adminEmail = "admin@menuboard.test"
	adminPass  = "Passw0rd!"
)

type testApp struct {
	app  *fiber.App
	db   *sqlx.DB
	deps *handlers.Deps
}

// newTestApp wires the storefront, auth and back-office routes the way main
// does, over an in-memory database with a seeded admin.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := repos.SeedAdmin(db, adminEmail, adminPass); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	deps := handlers.NewDeps(db, config.Config{}, ids.NewSequence("id"))
	deps.CheckoutHandler.Checkout.NewReference = func() (string, error) { return "REF123", nil }
	deps.CheckoutHandler.ProofDir = t.TempDir()

	app := fiber.New(fiber.Config{Views: web.Engine(), BodyLimit: handlers.MaxImportSize + 1<<20})
	app.Use(requestid.New())
	app.Use(handlers.BodyLimit(1<<20, map[string]int{"/api/v1/admin/import": handlers.MaxImportSize + 1<<20}))
	app.Use(handlers.LoadSession(deps.Auth))
	app.Use(csrf.New(csrf.Config{
		Extractor:      handlers.CSRFToken,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		ContextKey:     "csrf",
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	app.Get("/", deps.MenuHandler.Home)
	app.Get("/search", limiter.New(limiter.Config{Max: 3, Expiration: time.Second}), deps.SearchHandler.Search)
	api := app.Group("/api/v1")
	api.Get("/menu", deps.MenuHandler.API)
	api.Get("/products/:id", deps.MenuHandler.Product)

	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Post("/cart/clear", deps.CartHandler.Clear)
	app.Get("/checkout", deps.CheckoutHandler.Form)
	app.Post("/checkout", deps.CheckoutHandler.Place)

	app.Get("/login", deps.AuthHandler.LoginForm)
	app.Post("/login", deps.AuthHandler.Login)
	app.Post("/logout", deps.AuthHandler.Logout)

	app.Get("/admin", handlers.RequireAdmin(deps.Auth), deps.AdminHandler.Dashboard)
	admin := api.Group("/admin", handlers.RequireAdminAPI(deps.Auth))
	admin.Get("/categories", deps.AdminHandler.ListCategories)
	admin.Post("/categories", deps.AdminHandler.CreateCategory)
	admin.Patch("/categories/:id", deps.AdminHandler.UpdateCategory)
	admin.Delete("/categories/:id", deps.AdminHandler.DeleteCategory)
	admin.Post("/addons", deps.AdminHandler.CreateAddon)
	admin.Delete("/addons/:id", deps.AdminHandler.DeleteAddon)
	admin.Post("/products", deps.AdminHandler.CreateProduct)
	admin.Patch("/products/:id", deps.AdminHandler.UpdateProduct)
	admin.Get("/config", deps.AdminHandler.GetConfig)
	admin.Put("/config", deps.AdminHandler.UpdateConfig)
	admin.Get("/orders", deps.AdminHandler.Orders)
	admin.Post("/import", deps.ImportHandler.Upload)
	admin.Post("/import/sheets", deps.ImportHandler.Sheets)
	admin.Get("/export.csv", deps.ImportHandler.ExportCSV)
	admin.Get("/template.csv", deps.ImportHandler.Template)

	return &testApp{app: app, db: db, deps: deps}
}

// client carries the csrf and session cookies between requests.
type client struct {
	t    *testing.T
	ta   *testApp
	csrf string
	sid  string
	json bool
}

func (ta *testApp) client(t *testing.T, sid string) *client {
	t.Helper()
	resp, err := ta.app.Test(httptest.NewRequest("GET", "/login", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	tok := cookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return &client{t: t, ta: ta, csrf: tok, sid: sid, json: true}
}

// adminClient is a client whose session is bound to the seeded admin.
func (ta *testApp) adminClient(t *testing.T) *client {
	t.Helper()
	if err := repos.NewUserRepo(ta.db).BindSession("sid-admin", "u-admin"); err != nil {
		t.Fatal(err)
	}
	return ta.client(t, "sid-admin")
}

func (cl *client) do(method, path, contentType string, body io.Reader) *http.Response {
	cl.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cl.json {
		req.Header.Set("Accept", "application/json")
	}
	req.Header.Set("X-Csrf-Token", cl.csrf)
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: cl.csrf})
	if cl.sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: cl.sid})
	}
	resp, err := cl.ta.app.Test(req, -1)
	if err != nil {
		cl.t.Fatal(err)
	}
	if sid := cookie(resp, "sid"); sid != "" {
		cl.sid = sid
	}
	return resp
}

func (cl *client) form(path, body string) *http.Response {
	return cl.do("POST", path, fiber.MIMEApplicationForm, strings.NewReader(body))
}

func (cl *client) sendJSON(method, path string, v any) *http.Response {
	cl.t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		cl.t.Fatal(err)
	}
	return cl.do(method, path, fiber.MIMEApplicationJSON, bytes.NewReader(b))
}

func cookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode (status %d): %v", resp.StatusCode, err)
	}
}

func bodyString(resp *http.Response) string {
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// captureLogs collects the events logged while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	w := &lockedWriter{}
	applog.SetOutput(w)
	defer applog.SetOutput(os.Stdout)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(w.buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
