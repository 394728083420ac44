package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Lynx-thelearner/BE-Wisata/internal/api/http/handlers"
	"github.com/Lynx-thelearner/BE-Wisata/internal/auth"
	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Categories     *handlers.LookupHandler
	Tags           *handlers.LookupHandler
	Facilities     *handlers.LookupHandler
	Wisata         *handlers.WisataHandler
	Reviews        *handlers.ReviewHandler
	AuthMiddleware *auth.AuthMiddleware
	StaticPrefix   string
	StaticDir      string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	authn := cfg.AuthMiddleware.Handle
	admin := auth.RequireRole(domain.RoleAdmin)
	curators := auth.RequireRole(domain.RoleAdmin, domain.RoleEditor)

	app.Get("/", cfg.Health.Banner)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", authn, admin, cfg.Health.Metrics)

	if cfg.StaticDir != "" {
		app.Static(cfg.StaticPrefix, cfg.StaticDir)
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)

	users := app.Group("/user")
	users.Post("/register", cfg.Auth.Register)
	users.Get("/profile", authn, cfg.Users.Profile)
	users.Patch("/update-me", authn, cfg.Users.UpdateMe)
	users.Post("/", authn, admin, cfg.Users.Create)
	users.Get("/", authn, admin, cfg.Users.List)
	users.Get("/id/:id", authn, admin, cfg.Users.GetByID)
	users.Get("/email/:email", authn, admin, cfg.Users.GetByEmail)
	users.Get("/username/:username", authn, admin, cfg.Users.GetByUsername)
	users.Patch("/:id", authn, admin, cfg.Users.Update)
	users.Delete("/:id", authn, admin, cfg.Users.Delete)

	registerLookup(app.Group("/category"), cfg.Categories, authn, curators)
	registerLookup(app.Group("/tag"), cfg.Tags, authn, curators)
	registerLookup(app.Group("/facility"), cfg.Facilities, authn, curators)

	wisata := app.Group("/wisata")
	wisata.Get("/", authn, curators, cfg.Wisata.ListAll)
	wisata.Get("/published", cfg.Wisata.ListPublished)
	wisata.Delete("/images/:id", authn, curators, cfg.Wisata.DeleteImage)
	wisata.Get("/:id", cfg.Wisata.Get)
	wisata.Post("/", authn, curators, cfg.Wisata.Create)
	wisata.Patch("/:id", authn, curators, cfg.Wisata.Update)
	wisata.Delete("/:id", authn, curators, cfg.Wisata.Delete)
	wisata.Post("/:id/images", authn, curators, cfg.Wisata.UploadImage)

	reviews := app.Group("/review")
	reviews.Get("/wisata/:id", cfg.Reviews.ListForWisata)
	reviews.Post("/user", authn, cfg.Reviews.CreateUserReview)
	reviews.Patch("/user/:id", authn, cfg.Reviews.UpdateUserReview)
	reviews.Delete("/user/:id", authn, cfg.Reviews.DeleteUserReview)
	reviews.Post("/editor", authn, curators, cfg.Reviews.CreateEditorReview)
	reviews.Patch("/editor/:id", authn, cfg.Reviews.UpdateEditorReview)
	reviews.Delete("/editor/:id", authn, cfg.Reviews.DeleteEditorReview)
}

func registerLookup(group fiber.Router, h *handlers.LookupHandler, authn, curators fiber.Handler) {
	group.Get("/", h.List)
	group.Get("/:id", h.Get)
	group.Post("/", authn, curators, h.Create)
	group.Patch("/:id", authn, curators, h.Update)
	group.Delete("/:id", authn, curators, h.Delete)
}
