package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"roomreserve-backend/internal/model"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func testBooking() model.Booking {
	return model.Booking{
		ID:           "b1",
		RoomID:       "room-1",
		Organizer:    "alice",
		Title:        "design review",
		StartTime:    time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC),
		Participants: []string{"bob", "alice", "bob", "carol"},
		Status:       model.BookingActive,
	}
}

func TestWorkerPool_BookingCreatedDispatch(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	// Not started, so the notice stays queued.
	wp.BookingCreated(testBooking())

	select {
	case n := <-wp.jobs:
		assert.Equal(t, "alice", n.userID)
		assert.Contains(t, n.message, "design review")
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for the notice to be dispatched")
	}
}

func TestWorkerPool_BookingCancelledFanout(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	wp.BookingCancelled(testBooking())

	// Organizer plus deduplicated participants: alice, bob, carol.
	var users []string
	for len(wp.jobs) > 0 {
		n := <-wp.jobs
		users = append(users, n.userID)
	}
	assert.Equal(t, []string{"alice", "bob", "carol"}, users)
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, gormDB, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("sends notification to each subscription of the user", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		wp.SetSender(&mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				assert.Equal(t, "https://example.com/push", sub.Endpoint)
				assert.Contains(t, string(payload), "design review")
				wg.Done()
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		})

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions" WHERE user_id = \$1`).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "user_id", "created_at"}).
				AddRow("https://example.com/push", "test_p256dh", "test_auth", "alice", time.Now()))

		wp.BookingCreated(testBooking())
		wg.Wait()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		wp.SetSender(&mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusGone,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		})

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions" WHERE user_id = \$1`).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "user_id", "created_at"}).
				AddRow("https://example.com/expired", "test_p256dh", "test_auth", "alice", time.Now()))

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"\."endpoint" = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		wp.BookingCreated(testBooking())

		// A short sleep to allow the worker to process the notice
		time.Sleep(100 * time.Millisecond)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no subscriptions is a quiet no-op", func(t *testing.T) {
		wp.SetSender(&mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				t.Error("send should not be called without subscriptions")
				return nil, nil
			},
		})

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions" WHERE user_id = \$1`).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "user_id", "created_at"}))

		wp.BookingCreated(testBooking())
		wp.Drain(time.Second)
		time.Sleep(50 * time.Millisecond)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
