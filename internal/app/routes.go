package app

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/resonoraudio/resonora/internal/middleware"
	"github.com/resonoraudio/resonora/internal/plugins/articles"
	"github.com/resonoraudio/resonora/internal/plugins/assetstore"
	"github.com/resonoraudio/resonora/internal/plugins/auth"
	"github.com/resonoraudio/resonora/internal/plugins/contact"
	"github.com/resonoraudio/resonora/internal/plugins/media"
	"github.com/resonoraudio/resonora/internal/plugins/pages"
	"github.com/resonoraudio/resonora/internal/plugins/products"
	"github.com/resonoraudio/resonora/internal/plugins/seo"
	"github.com/resonoraudio/resonora/internal/plugins/settings"
	"github.com/resonoraudio/resonora/internal/plugins/smtp"
	templpages "github.com/resonoraudio/resonora/internal/templates/pages"
)

// settingsCacheTTL bounds how stale the settings snapshot may get. Every
// public page render reads settings, so the window is kept short.
const settingsCacheTTL = 5 * time.Minute

// RegisterRoutes builds the full dependency graph and sets up all routes.
// This is the single place where plugins are constructed and aggregated;
// when a new plugin is added, it is wired here.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// --- Shared plugin construction ---

	authRepo := auth.NewAdminRepository(a.DB)
	authSvc := auth.NewAuthService(authRepo, a.Redis, a.Config.Auth.SessionTTL)

	assetRepo := assetstore.NewAssetRepository(a.DB)
	assetStore := assetstore.NewStore(assetRepo, a.Config.Storage.Root)

	mediaRepo := media.NewMediaRepository(a.DB)
	resolver := media.NewResolver(assetRepo)
	mediaSvc := media.NewMediaService(mediaRepo, assetStore, resolver, a.Config.Storage.Root)

	settingsRepo := settings.NewSettingsRepository(a.DB)
	settingsCache := settings.NewCache(a.Redis, settingsCacheTTL)
	settingsSvc := settings.NewSettingsService(settingsRepo, settingsCache)

	productRepo := products.NewProductRepository(a.DB)
	productSvc := products.NewProductService(productRepo, mediaSvc)

	articleRepo := articles.NewArticleRepository(a.DB)
	articleSvc := articles.NewArticleService(articleRepo, mediaSvc)

	pageRepo := pages.NewPageRepository(a.DB)
	pageSvc := pages.NewPageService(pageRepo)

	mailer := smtp.NewMailer(a.Config.SMTP)
	contactRepo := contact.NewContactRepository(a.DB)
	contactSvc := contact.NewContactService(contactRepo, mailer, settingsSvc)

	seoSvc := seo.NewSEOService(settingsSvc, mediaSvc, a.Config.BaseURL)

	// --- Public infrastructure routes ---

	e.GET("/", func(c echo.Context) error {
		return middleware.Render(c, http.StatusOK, templpages.Landing())
	})

	e.GET("/healthz", a.healthz)

	// Media files: originals, conversions, and legacy flat files. Filenames
	// are unique per upload, so far-future caching is safe.
	storage := e.Group("/storage", staticCacheHeaders())
	storage.Static("/", a.Config.Storage.Root)

	// --- Plugin routes ---

	auth.RegisterRoutes(e, auth.NewHandler(authSvc), authSvc)
	media.RegisterRoutes(e, media.NewHandler(mediaSvc), authSvc, a.Config.Storage.MaxUploadSize)
	settings.RegisterRoutes(e, settings.NewHandler(settingsSvc), authSvc)
	products.RegisterRoutes(e, products.NewHandler(productSvc), authSvc)
	articles.RegisterRoutes(e, articles.NewHandler(articleSvc), authSvc)
	pages.RegisterRoutes(e, pages.NewHandler(pageSvc), authSvc)
	contact.RegisterRoutes(e, contact.NewHandler(contactSvc), authSvc)
	seo.RegisterRoutes(e, seo.NewHandler(seoSvc, productSvc, articleSvc), authSvc)
}

// healthz reports liveness of the process and its backing stores.
func (a *App) healthz(c echo.Context) error {
	ctx := c.Request().Context()

	status := map[string]string{"status": "ok"}
	code := http.StatusOK

	if err := a.DB.PingContext(ctx); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		status["status"] = "degraded"
		status["redis"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, status)
}

// staticCacheHeaders sets far-future caching on media responses. Uploaded
// filenames embed a timestamp and random suffix, so content never changes
// under a URL.
func staticCacheHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
			return next(c)
		}
	}
}
