package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/CRM-api/internal/application/crm"
	"github.com/jhoicas/CRM-api/pkg/validator"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ContactUC   *crm.ContactUseCase
	MetricsUC   *crm.ContactMetricsUseCase
	QuoteUC     *crm.QuoteUseCase
	LifecycleUC *crm.QuoteLifecycleUseCase
	ArchivalUC  *crm.ArchivalUseCase
	FollowUpUC  *crm.FollowUpUseCase
	Validator   *validator.Validator
	JWTSecret   string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	v := deps.Validator
	if v == nil {
		v = validator.New()
	}
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	contacts := api.Group("/contacts")
	contactHandler := NewContactHandler(deps.ContactUC, deps.MetricsUC, deps.QuoteUC, deps.ArchivalUC, deps.FollowUpUC, v)
	contacts.Post("/", contactHandler.Create)
	contacts.Get("/:id", contactHandler.GetByID)
	contacts.Delete("/:id", contactHandler.Delete)
	contacts.Post("/:id/metrics", contactHandler.RecomputeMetrics)
	contacts.Get("/:id/overview", contactHandler.Overview)
	contacts.Get("/:id/quotes", contactHandler.Quotes)
	contacts.Get("/:id/follow-ups", contactHandler.FollowUps)

	quotes := api.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.QuoteUC, deps.LifecycleUC, deps.ArchivalUC, deps.FollowUpUC, v)
	// antes de /:id para que "follow-ups" no se tome como un id
	quotes.Get("/follow-ups", quoteHandler.PendingFollowUps)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/:id", quoteHandler.GetByID)
	quotes.Put("/:id/items", quoteHandler.UpdateItems)
	quotes.Post("/:id/validate", quoteHandler.Validate)
	quotes.Post("/:id/send", quoteHandler.Send)
	quotes.Post("/:id/viewed", quoteHandler.Viewed)
	quotes.Post("/:id/status", quoteHandler.Transition)
	quotes.Delete("/:id", quoteHandler.Delete)
	quotes.Post("/:id/restore", quoteHandler.Restore)
	quotes.Get("/:id/follow-up", quoteHandler.FollowUp)

	archives := api.Group("/archives")
	archiveHandler := NewArchiveHandler(deps.ArchivalUC)
	archives.Get("/", archiveHandler.List)
	archives.Get("/:quoteId", archiveHandler.GetByQuoteID)

	followUpHandler := NewFollowUpHandler(deps.FollowUpUC, v)
	api.Get("/follow-up", followUpHandler.Evaluate)
}
