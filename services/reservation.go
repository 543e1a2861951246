package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ukotvy/website/store"
	"github.com/ukotvy/website/utils/validation"
)

// submissionLimit is how many reservations one client address may send
// inside the rolling hour window.
const submissionLimit = 3

var (
	// ErrRateLimited rejects a submission before any of its fields are
	// looked at.
	ErrRateLimited = errors.New("too many reservation requests from this address")

	// ErrSendFailed means the form was valid but the outbound mail could
	// not be delivered. It does not count against the rate limit.
	ErrSendFailed = errors.New("failed to forward reservation")
)

// FieldError reports which reservation field failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ReservationRequest carries the public reservation form. Website is a
// hidden honeypot field; humans leave it empty.
type ReservationRequest struct {
	Name    string `json:"name" form:"name" validate:"required,min=2"`
	Phone   string `json:"phone" form:"phone" validate:"required,phone_loose"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Note    string `json:"note" form:"note" validate:"required,min=10"`
	Website string `json:"website" form:"website"`
}

// ReservationMailer is the outbound mail collaborator.
type ReservationMailer interface {
	SendReservation(to string, r ReservationRequest) error
}

// ReservationService validates and forwards reservation submissions.
type ReservationService struct {
	settings  *store.SettingsStore
	rateLimit *store.RateLimitLog
	mailer    ReservationMailer
	validator *validation.Validator
}

// NewReservationService wires the forwarder with its rate-limit log and
// mailer.
func NewReservationService(settings *store.SettingsStore, rateLimit *store.RateLimitLog, mailer ReservationMailer) *ReservationService {
	return &ReservationService{
		settings:  settings,
		rateLimit: rateLimit,
		mailer:    mailer,
		validator: validation.NewValidator(),
	}
}

// NewRateLimitLog creates the reservation rate-limit log with the
// service's submission limit.
func NewRateLimitLog(path string) *store.RateLimitLog {
	return store.NewRateLimitLog(path, submissionLimit)
}

// Submit handles one reservation from the given client address, at now.
// The checks run in a fixed order: the rolling rate limit first (a fourth
// attempt within the hour is rejected before any field is validated),
// then the honeypot, then the fields. A filled honeypot reports success
// without sending anything. Only a successful handoff to the mailer is
// recorded against the rate limit.
func (s *ReservationService) Submit(req ReservationRequest, addr string, now time.Time) error {
	allowed, err := s.rateLimit.Allow(addr, now)
	if err != nil {
		return fmt.Errorf("check rate limit: %w", err)
	}
	if !allowed {
		return ErrRateLimited
	}

	if req.Website != "" {
		// Honeypot tripped: deflect the bot with a fake success.
		log.Printf("reservation: honeypot tripped from %s", addr)
		return nil
	}

	if err := s.validator.ValidateStruct(req); err != nil {
		field, message := validation.FirstValidationError(err)
		return &FieldError{Field: field, Message: message}
	}

	settings, err := s.settings.Load()
	if err != nil {
		return err
	}
	to := settings.Contact.EmailReservation
	if to == "" {
		to = settings.Contact.Email
	}
	if to == "" {
		return fmt.Errorf("%w: no reservation address configured", ErrSendFailed)
	}

	if err := s.mailer.SendReservation(to, req); err != nil {
		log.Printf("reservation: send failed: %v", err)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	if err := s.rateLimit.Record(addr, now); err != nil {
		// The mail already went out; a logging failure must not turn
		// the submission into an error for the visitor.
		log.Printf("reservation: record rate limit entry: %v", err)
	}
	return nil
}
