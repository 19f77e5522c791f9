package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmadchreiff/eigen-journal/internal/auth"
	"github.com/ahmadchreiff/eigen-journal/internal/http/middleware"
	"github.com/ahmadchreiff/eigen-journal/internal/service"
)

// access classifies a route for the access gate.
type access int

const (
	public access = iota
	adminOnly
)

type route struct {
	method  string
	path    string
	access  access
	handler fiber.Handler
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app. Route
// classification is this static table; the admin gate is applied exactly to
// the rows marked adminOnly, never decided inside a handler.
func RegisterRoutes(app *fiber.App, db *sql.DB, authn *auth.Authenticator, tm *auth.TokenManager, drafts service.DraftService) {
	adminGate := middleware.RequireRole(tm, auth.RoleAdmin)

	table := []route{
		{fiber.MethodPost, "/auth/login", public, Login(authn)},
		{fiber.MethodPost, "/drafts", public, SubmitDraft(drafts)}, // submission is intentionally open
		{fiber.MethodGet, "/drafts", adminOnly, ListDrafts(drafts)},
		{fiber.MethodGet, "/drafts/:id", public, GetDraft(drafts)},
		{fiber.MethodGet, "/drafts/:id/pdf", public, StreamDraftPDF(drafts)},
		{fiber.MethodPut, "/drafts/:id", adminOnly, UpdateDraftStatus(drafts)},
		{fiber.MethodDelete, "/drafts/:id", adminOnly, DeleteDraft(drafts)},
		{fiber.MethodGet, "/health", public, HealthCheck(db)},
		{fiber.MethodGet, "/healthz", public, LivenessProbe()},
	}

	for _, r := range table {
		if r.access == adminOnly {
			app.Add(r.method, r.path, adminGate, r.handler)
		} else {
			app.Add(r.method, r.path, r.handler)
		}
	}

	registerDocs(app)
}

// HealthCheck verifies database connectivity.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a plain liveness endpoint with no dependency checks.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
