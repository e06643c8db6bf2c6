package listings

import (
	"errors"

	"listing-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for listings.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the listing routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/listings")
	group.Get("/", h.HandleGetListings)
	group.Get("/queue", h.HandleGetQueue)
	group.Post("/flush", h.HandleFlush)
}

// HandleGetListings returns the cached listings.
// @Summary List Listings
// @Description Returns the listings of the account as of the last refetch.
// @Tags listings
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "count and listings"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /listings [get]
func (h *Handler) HandleGetListings(c *fiber.Ctx) error {
	views := h.service.Listings()
	return c.JSON(fiber.Map{
		"count":    len(views),
		"listings": views,
	})
}

// HandleGetQueue returns the pending creates and removes.
// @Summary Get Action Queue
// @Description Returns a consistent copy of the pending creates and removes, with retry markers.
// @Tags listings
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} listings.QueueState
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /listings/queue [get]
func (h *Handler) HandleGetQueue(c *fiber.Ctx) error {
	return c.JSON(h.service.Queue())
}

// HandleFlush flushes the queue and reports the outcome.
// @Summary Flush Queue
// @Description Runs a flush now. A flush already in progress defers this one and returns 202.
// @Tags listings
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} listings.FlushResult
// @Success 202 {object} listings.FlushResult "Deferred"
// @Failure 502 {object} map[string]interface{} "Marketplace error"
// @Failure 503 {object} map[string]interface{} "Manager not ready or stopped"
// @Router /listings/flush [post]
func (h *Handler) HandleFlush(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.Flush(c.Context())
	if err != nil {
		l.Error("Manual flush failed", zap.Error(err))

		status := fiber.StatusBadGateway
		if errors.Is(err, ErrNotReady) || errors.Is(err, ErrStopped) {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"error":  err.Error(),
			"result": result,
		})
	}

	if result.Deferred {
		return c.Status(fiber.StatusAccepted).JSON(result)
	}
	return c.JSON(result)
}
