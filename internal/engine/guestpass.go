package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"

	"roomreserve-backend/internal/model"
)

// phoneRegions are tried in order when the guest's number has no country
// prefix.
var phoneRegions = []string{"CN", "US"}

// normalizePhone returns the E.164 form of the number, or "" when it cannot
// be parsed for any supported region.
func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	for _, region := range phoneRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		if !phonenumbers.IsValidNumber(parsed) {
			continue
		}
		return phonenumbers.Format(parsed, phonenumbers.E164)
	}
	return ""
}

// AccessWindow derives the pass validity window from the booking's current
// time window plus the grace margins. It is computed on demand so it can
// never go stale after the booking is edited.
func (e *Engine) AccessWindow(booking *model.Booking) Window {
	return Window{
		Start: booking.StartTime.Add(-e.graceBefore),
		End:   booking.EndTime.Add(e.graceAfter),
	}
}

// IssuePassInput carries a guest's registration details.
type IssuePassInput struct {
	BookingID     string
	Name          string
	Phone         string
	Company       string
	CarPlate      string
	AttendeeCount int
}

// IssuePass creates a pending pass for a guest of an active booking.
func (e *Engine) IssuePass(ctx context.Context, in IssuePassInput) (*model.GuestPass, error) {
	booking, err := e.store.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", in.BookingID, ErrNotFound)
	}
	if booking.Status != model.BookingActive {
		return nil, fmt.Errorf("booking %s: %w", in.BookingID, ErrBookingNotActive)
	}

	phone := normalizePhone(in.Phone)
	if phone == "" {
		return nil, fmt.Errorf("%q: %w", in.Phone, ErrInvalidPhone)
	}

	id := uuid.NewString()
	pass := &model.GuestPass{
		ID:            id,
		BookingID:     booking.ID,
		Name:          strings.TrimSpace(in.Name),
		Phone:         phone,
		Company:       in.Company,
		CarPlate:      in.CarPlate,
		AttendeeCount: in.AttendeeCount,
		PassCode:      strings.ToUpper(id[:8]),
		Status:        model.PassPending,
	}
	if err := e.store.SavePass(ctx, pass); err != nil {
		return nil, err
	}
	return pass, nil
}

// RegisterPass moves a pending pass to registered and notifies the organizer.
func (e *Engine) RegisterPass(ctx context.Context, passID string) (*model.GuestPass, error) {
	pass, err := e.store.GetPass(ctx, passID)
	if err != nil {
		return nil, err
	}
	if pass == nil {
		return nil, fmt.Errorf("pass %s: %w", passID, ErrNotFound)
	}
	switch pass.Status {
	case model.PassPending:
	case model.PassRegistered, model.PassCheckedIn:
		return nil, fmt.Errorf("pass %s: %w", passID, ErrAlreadyRegistered)
	default:
		return nil, fmt.Errorf("pass %s is %s: %w", passID, pass.Status, ErrInvalidTransition)
	}

	pass.Status = model.PassRegistered
	if err := e.store.SavePass(ctx, pass); err != nil {
		return nil, err
	}

	if booking, err := e.store.GetBooking(ctx, pass.BookingID); err == nil && booking != nil {
		e.notifier.GuestRegistered(*pass, *booking)
	}
	return pass, nil
}

// CheckInPass records the guest's arrival. The timestamp must fall inside
// the pass's access window and the guest must already be registered.
func (e *Engine) CheckInPass(ctx context.Context, passID string, at time.Time) (*model.GuestPass, error) {
	pass, err := e.store.GetPass(ctx, passID)
	if err != nil {
		return nil, err
	}
	if pass == nil {
		return nil, fmt.Errorf("pass %s: %w", passID, ErrNotFound)
	}
	if pass.Status == model.PassInvalid {
		return nil, fmt.Errorf("pass %s: %w", passID, ErrBookingNotActive)
	}

	booking, err := e.store.GetBooking(ctx, pass.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.Status != model.BookingActive {
		return nil, fmt.Errorf("booking %s: %w", pass.BookingID, ErrBookingNotActive)
	}

	at = at.UTC()
	if !e.AccessWindow(booking).ContainsTime(at) {
		return nil, fmt.Errorf("pass %s at %s: %w", passID, at.Format(time.RFC3339), ErrOutsideWindow)
	}
	switch pass.Status {
	case model.PassPending:
		return nil, fmt.Errorf("pass %s: %w", passID, ErrNotRegistered)
	case model.PassCheckedIn:
		return nil, fmt.Errorf("pass %s already checked in: %w", passID, ErrInvalidTransition)
	}

	pass.Status = model.PassCheckedIn
	pass.CheckedInAt = &at
	if err := e.store.SavePass(ctx, pass); err != nil {
		return nil, err
	}
	return pass, nil
}

// PassValidity is the result of an access-validity query.
type PassValidity struct {
	Valid        bool             `json:"valid"`
	Status       model.PassStatus `json:"status"`
	AccessWindow *Window          `json:"accessWindow,omitempty"`
}

// IsValidAt answers whether the pass grants access at the given instant. The
// access window is recomputed from the live booking, so a cancelled booking
// makes every one of its passes invalid at any timestamp and an edited
// booking shifts its passes' windows with it.
func (e *Engine) IsValidAt(ctx context.Context, passID string, at time.Time) (PassValidity, error) {
	pass, err := e.store.GetPass(ctx, passID)
	if err != nil {
		return PassValidity{}, err
	}
	if pass == nil {
		return PassValidity{}, fmt.Errorf("pass %s: %w", passID, ErrNotFound)
	}
	if pass.Status == model.PassInvalid {
		return PassValidity{Status: pass.Status}, nil
	}

	booking, err := e.store.GetBooking(ctx, pass.BookingID)
	if err != nil {
		return PassValidity{}, err
	}
	if booking == nil || booking.Status != model.BookingActive {
		return PassValidity{Status: pass.Status}, nil
	}

	w := e.AccessWindow(booking)
	return PassValidity{
		Valid:        w.ContainsTime(at.UTC()),
		Status:       pass.Status,
		AccessWindow: &w,
	}, nil
}

// RecordFace marks the guest's biometric enrollment on a live pass.
func (e *Engine) RecordFace(ctx context.Context, passID string) (*model.GuestPass, error) {
	pass, err := e.store.GetPass(ctx, passID)
	if err != nil {
		return nil, err
	}
	if pass == nil {
		return nil, fmt.Errorf("pass %s: %w", passID, ErrNotFound)
	}
	if pass.Status == model.PassInvalid {
		return nil, fmt.Errorf("pass %s: %w", passID, ErrBookingNotActive)
	}
	if pass.FaceEnrolled {
		return pass, nil
	}
	pass.FaceEnrolled = true
	if err := e.store.SavePass(ctx, pass); err != nil {
		return nil, err
	}
	return pass, nil
}
