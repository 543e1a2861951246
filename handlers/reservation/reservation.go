// Package reservation exposes the public contact/reservation form
// endpoint.
package reservation

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ukotvy/website/services"
	"github.com/ukotvy/website/utils/response"
)

// ReservationHandler serves the public reservation form
type ReservationHandler struct {
	service *services.ReservationService
}

// NewReservationHandler creates the reservation handler
func NewReservationHandler(service *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// Submit accepts a reservation form and forwards it by email
// POST /api/reservation
func (h *ReservationHandler) Submit(c *fiber.Ctx) error {
	var req services.ReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err := h.service.Submit(req, c.IP(), time.Now())
	if err == nil {
		return response.SuccessWithMessage(c, "Reservation sent", nil)
	}

	var fieldErr *services.FieldError
	switch {
	case errors.Is(err, services.ErrRateLimited):
		return response.TooManyRequests(c, "Too many reservation requests. Please try again later.")
	case errors.As(err, &fieldErr):
		return response.ValidationFailed(c, map[string]string{
			fieldErr.Field: fieldErr.Message,
		})
	case errors.Is(err, services.ErrSendFailed):
		return response.ServiceUnavailable(c, "Reservation could not be sent. Please call us instead.")
	default:
		log.Printf("reservation: submit failed: %v", err)
		return response.InternalServerError(c, "")
	}
}
