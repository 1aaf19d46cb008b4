package main

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"menuboard/internal/config"
	"menuboard/internal/http/handlers"
	"menuboard/internal/ids"
	applog "menuboard/internal/log"
	"menuboard/internal/repos"
	"menuboard/web"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
			applog.SetOutput(mw)
		}
	}
	defer applog.Sync()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.AdminPassword == "" {
		log.Printf("[warn] ADMIN_PASSWORD not set; no admin account seeded")
	} else if err := repos.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal(err)
	}

	deps := handlers.NewDeps(db, cfg, ids.UUID{})
	deps.CheckoutHandler.ProofDir = filepath.Join(cfg.MediaDir, "proofs")

	app := fiber.New(fiber.Config{
		Views:     web.Engine(),
		BodyLimit: handlers.MaxImportSize + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
				return c.Status(fe.Code).Render("notfound", fiber.Map{"Message": fe.Message})
			}
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New(helmet.Config{
		// product photos are served from other hosts
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))
	app.Use(handlers.BodyLimit(1<<20, map[string]int{
		"/api/v1/admin/import": handlers.MaxImportSize + 1<<20,
		"/checkout":            5 << 20,
	}))
	app.Use(handlers.LoadSession(deps.Auth))
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		Extractor:      handlers.CSRFToken,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"err": err.Error()})
			if strings.HasPrefix(c.Path(), "/api/") {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "security check failed"})
			}
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	log.Printf("[static] /media -> %s", mediaDir)

	app.Use("/static", filesystem.New(filesystem.Config{Root: web.Static(), MaxAge: 3600}))
	app.Get("/media/*", handlers.Media(mediaDir))

	// ---------- Storefront ----------
	app.Get("/", deps.MenuHandler.Home)
	app.Get("/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), deps.SearchHandler.Search)

	api := app.Group("/api/v1")
	api.Get("/menu", deps.MenuHandler.API)
	api.Get("/products/:id", deps.MenuHandler.Product)

	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Post("/cart/clear", deps.CartHandler.Clear)
	app.Get("/checkout", deps.CheckoutHandler.Form)
	app.Post("/checkout", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.checkout.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("notfound", fiber.Map{"Message": "Too many orders from this device. Please wait a few minutes."})
		},
	}), deps.CheckoutHandler.Place)

	// Auth routes (login throttled)
	app.Get("/login", deps.AuthHandler.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), deps.AuthHandler.Login)
	app.Post("/logout", deps.AuthHandler.Logout)

	// ---------- Back office ----------
	app.Get("/admin", handlers.RequireAdmin(deps.Auth), deps.AdminHandler.Dashboard)

	admin := api.Group("/admin", handlers.RequireAdminAPI(deps.Auth))
	adminH, importH := deps.AdminHandler, deps.ImportHandler
	admin.Get("/categories", adminH.ListCategories)
	admin.Post("/categories", adminH.CreateCategory)
	admin.Patch("/categories/:id", adminH.UpdateCategory)
	admin.Delete("/categories/:id", adminH.DeleteCategory)
	admin.Get("/addons", adminH.ListAddons)
	admin.Post("/addons", adminH.CreateAddon)
	admin.Patch("/addons/:id", adminH.UpdateAddon)
	admin.Delete("/addons/:id", adminH.DeleteAddon)
	admin.Get("/products", adminH.ListProducts)
	admin.Post("/products", adminH.CreateProduct)
	admin.Patch("/products/:id", adminH.UpdateProduct)
	admin.Delete("/products/:id", adminH.DeleteProduct)
	admin.Get("/config", adminH.GetConfig)
	admin.Put("/config", adminH.UpdateConfig)
	admin.Get("/orders", adminH.Orders)

	importLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.import.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	admin.Post("/import", importLimiter, importH.Upload)
	admin.Post("/import/sheets", importLimiter, importH.Sheets)
	admin.Get("/export.csv", importH.ExportCSV)
	admin.Get("/export.xlsx", importH.ExportXLSX)
	admin.Get("/template.csv", importH.Template)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port})
	log.Fatal(app.Listen(":" + cfg.Port))
}
