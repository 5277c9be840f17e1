package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ascendo/trainboard/internal/handlers"
	"github.com/ascendo/trainboard/internal/middleware"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	problemHandler *handlers.ProblemHandler,
	sectorHandler *handlers.SectorHandler,
	authenticator middleware.Authenticator,
) {
	// Public routes - no authentication required
	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)
	router.Post("/auth/logout", authHandler.Logout)
	router.Get("/auth/rotate_token", authHandler.RotateToken)

	router.Get("/sectors", sectorHandler.List)
	router.Get("/sectors/{id}", sectorHandler.Get)
	router.Get("/sectors/{id}/image", sectorHandler.Image)

	router.Get("/problems", problemHandler.List)
	router.Get("/problems/{id}", problemHandler.Get)
	router.Get("/problems/{id}/grades", problemHandler.Grades)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(authenticator))

		r.Post("/problems", problemHandler.Create)
		r.Put("/problems/{id}", problemHandler.Update)
		r.Delete("/problems/{id}", problemHandler.Delete)
		r.Post("/problems/{id}/grades", problemHandler.SubmitGrade)
	})
}
