package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"roomreserve-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// notice is one pending notification for one user.
type notice struct {
	userID  string
	message string
}

// WorkerPool delivers engine notifications over web push. It implements
// engine.Notifier; delivery is best-effort and never blocks the engines — a
// full queue drops the notice rather than stalling a booking operation.
type WorkerPool struct {
	size    int
	jobs    chan notice
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan notice, 64),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("notification worker %d started", id)
	for {
		select {
		case n := <-wp.jobs:
			wp.sendNotificationsForUser(ctx, n.userID, []byte(n.message))
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

func (wp *WorkerPool) dispatch(n notice) {
	select {
	case wp.jobs <- n:
	default:
		log.Printf("notification queue full, dropping notice for user %s", n.userID)
	}
}

// BookingCreated notifies the organizer that their booking is in place.
func (wp *WorkerPool) BookingCreated(b model.Booking) {
	wp.dispatch(notice{
		userID: b.Organizer,
		message: fmt.Sprintf("Booking %q confirmed: %s %s–%s", b.Title,
			b.StartTime.Format("2006-01-02"), b.StartTime.Format("15:04"), b.EndTime.Format("15:04")),
	})
}

// BookingCancelled notifies the organizer and every participant.
func (wp *WorkerPool) BookingCancelled(b model.Booking) {
	msg := fmt.Sprintf("Booking %q on %s was cancelled", b.Title, b.StartTime.Format("2006-01-02"))
	wp.dispatch(notice{userID: b.Organizer, message: msg})
	seen := map[string]bool{b.Organizer: true}
	for _, p := range b.Participants {
		if seen[p] {
			continue
		}
		seen[p] = true
		wp.dispatch(notice{userID: p, message: msg})
	}
}

// GuestRegistered notifies the organizer that a guest completed registration.
func (wp *WorkerPool) GuestRegistered(pass model.GuestPass, b model.Booking) {
	wp.dispatch(notice{
		userID:  b.Organizer,
		message: fmt.Sprintf("Guest %s registered for %q", pass.Name, b.Title),
	})
}

// sendNotificationsForUser fetches the user's subscriptions and pushes the payload to each.
func (wp *WorkerPool) sendNotificationsForUser(ctx context.Context, userID string, payload []byte) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for user %s: %v", userID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}

// SetSender swaps the push transport, for tests.
func (wp *WorkerPool) SetSender(s NotificationSender) {
	wp.sender = s
}

// Drain waits briefly for queued notices to be picked up, for tests.
func (wp *WorkerPool) Drain(timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for len(wp.jobs) > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
}
