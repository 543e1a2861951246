package admin

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ukotvy/website/model"
	"github.com/ukotvy/website/services/openinghours"
	"github.com/ukotvy/website/utils/response"
	"github.com/ukotvy/website/utils/validation"
)

// SaveSettings replaces the whole settings document
// PUT /admin/settings
func (h *AdminHandler) SaveSettings(c *fiber.Ctx) error {
	var payload model.Settings
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if fields := validateSettings(payload); len(fields) > 0 {
		return response.ValidationFailed(c, fields)
	}

	if err := h.settings.Replace(payload); err != nil {
		log.Printf("admin: save settings: %v", err)
		return response.InternalServerError(c, "Failed to save settings")
	}
	return response.SuccessWithMessage(c, "Settings saved", nil)
}

// validateSettings checks the editable fields of a settings payload and
// returns per-field messages. The password hash is not part of the
// payload; the store preserves the stored one on every save.
func validateSettings(s model.Settings) map[string]string {
	fields := map[string]string{}

	if s.Contact.Email != "" && !validation.ValidateEmail(s.Contact.Email) {
		fields["contact.email"] = "Invalid email format"
	}
	if s.Contact.EmailReservation != "" && !validation.ValidateEmail(s.Contact.EmailReservation) {
		fields["contact.email_reservation"] = "Invalid email format"
	}
	if s.Contact.Phone != "" && !validation.ValidatePhone(s.Contact.Phone) {
		fields["contact.phone"] = "Invalid phone number"
	}
	if s.Contact.PhoneAlt != "" && !validation.ValidatePhone(s.Contact.PhoneAlt) {
		fields["contact.phone_alt"] = "Invalid phone number"
	}

	if s.Rating.Value < 0 || s.Rating.Value > 5 {
		fields["rating.value"] = "Rating must be between 0 and 5"
	}
	if s.Rating.Count < 0 {
		fields["rating.count"] = "Rating count must not be negative"
	}

	for key := range s.OpeningHours {
		// A typo in a day key would otherwise silently sort last
		// forever.
		if openinghours.RangeDays(key) == nil {
			fields["opening_hours."+key] = "Unknown day key"
		}
	}

	for key := range s.Exceptions {
		if !validation.ValidateDateRangeKey(key) {
			fields["exceptions."+key] = "Exception key must be YYYY-MM-DD_YYYY-MM-DD with from not after to"
		}
	}

	for field, value := range map[string]string{
		"event.date_from": s.Event.DateFrom,
		"event.date_to":   s.Event.DateTo,
	} {
		if value == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", value); err != nil {
			fields[field] = "Date must be YYYY-MM-DD"
		}
	}

	return fields
}
