package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"roomreserve-backend/internal/model"
)

// Store defines the persistence operations the engines depend on. Lookups
// return (nil, nil) when the record does not exist so callers stay free of
// driver-specific not-found errors.
type Store interface {
	DB() *gorm.DB

	GetRoom(ctx context.Context, id string) (*model.Room, error)
	ListRooms(ctx context.Context) ([]model.Room, error)
	SaveRoom(ctx context.Context, room *model.Room) error
	DeleteRoom(ctx context.Context, id string) error

	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	SaveBooking(ctx context.Context, booking *model.Booking) error
	ActiveBookings(ctx context.Context) ([]model.Booking, error)
	ActiveBookingsByRoom(ctx context.Context, roomID string) ([]model.Booking, error)

	GetHold(ctx context.Context, id string) (*model.Hold, error)
	SaveHold(ctx context.Context, hold *model.Hold) error
	OpenHolds(ctx context.Context) ([]model.Hold, error)
	PendingHolds(ctx context.Context) ([]model.Hold, error)
	OpenHoldsByRoom(ctx context.Context, roomID string) ([]model.Hold, error)

	GetPass(ctx context.Context, id string) (*model.GuestPass, error)
	SavePass(ctx context.Context, pass *model.GuestPass) error
	PassesByBooking(ctx context.Context, bookingID string) ([]model.GuestPass, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).First(&room, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *gormStore) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := s.db.WithContext(ctx).Order("name").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *gormStore) SaveRoom(ctx context.Context, room *model.Room) error {
	return s.db.WithContext(ctx).Save(room).Error
}

func (s *gormStore) DeleteRoom(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&model.Room{ID: id}).Error
}

func (s *gormStore) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	var booking model.Booking
	err := s.db.WithContext(ctx).First(&booking, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *gormStore) SaveBooking(ctx context.Context, booking *model.Booking) error {
	return s.db.WithContext(ctx).Save(booking).Error
}

func (s *gormStore) ActiveBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Where("status = ?", model.BookingActive).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *gormStore) ActiveBookingsByRoom(ctx context.Context, roomID string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := s.db.WithContext(ctx).
		Where("room_id = ? AND status = ?", roomID, model.BookingActive).
		Order("start_time").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *gormStore) GetHold(ctx context.Context, id string) (*model.Hold, error) {
	var hold model.Hold
	err := s.db.WithContext(ctx).First(&hold, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &hold, nil
}

func (s *gormStore) SaveHold(ctx context.Context, hold *model.Hold) error {
	return s.db.WithContext(ctx).Save(hold).Error
}

// OpenHolds returns the holds that still occupy a room slot.
func (s *gormStore) OpenHolds(ctx context.Context) ([]model.Hold, error) {
	var holds []model.Hold
	err := s.db.WithContext(ctx).
		Where("status IN ?", []model.HoldStatus{model.HoldPending, model.HoldConfirmed}).
		Find(&holds).Error
	if err != nil {
		return nil, err
	}
	return holds, nil
}

func (s *gormStore) PendingHolds(ctx context.Context) ([]model.Hold, error) {
	var holds []model.Hold
	err := s.db.WithContext(ctx).
		Where("status = ?", model.HoldPending).
		Find(&holds).Error
	if err != nil {
		return nil, err
	}
	return holds, nil
}

func (s *gormStore) OpenHoldsByRoom(ctx context.Context, roomID string) ([]model.Hold, error) {
	var holds []model.Hold
	err := s.db.WithContext(ctx).
		Where("room_id = ? AND status IN ?", roomID, []model.HoldStatus{model.HoldPending, model.HoldConfirmed}).
		Find(&holds).Error
	if err != nil {
		return nil, err
	}
	return holds, nil
}

func (s *gormStore) GetPass(ctx context.Context, id string) (*model.GuestPass, error) {
	var pass model.GuestPass
	err := s.db.WithContext(ctx).First(&pass, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pass, nil
}

func (s *gormStore) SavePass(ctx context.Context, pass *model.GuestPass) error {
	return s.db.WithContext(ctx).Save(pass).Error
}

func (s *gormStore) PassesByBooking(ctx context.Context, bookingID string) ([]model.GuestPass, error) {
	var passes []model.GuestPass
	err := s.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at").
		Find(&passes).Error
	if err != nil {
		return nil, err
	}
	return passes, nil
}
