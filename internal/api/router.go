package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"roomreserve-backend/config"
	"roomreserve-backend/internal/engine"
	"roomreserve-backend/internal/mw"
	"roomreserve-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(e *engine.Engine, clock engine.Clock, s store.Store, cfg *config.ServerConfig, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(e, clock, s, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, cfg.RequestIPHeader)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/rooms", caching, handler.GetRooms)
		api.POST("/rooms", handler.PostRoom)
		api.PUT("/rooms/:room_id", handler.PutRoom)
		api.DELETE("/rooms/:room_id", handler.DeleteRoom)
		api.GET("/rooms/:room_id/conflicts", handler.GetConflicts)

		api.POST("/bookings", handler.PostBooking)
		api.PUT("/bookings/:booking_id", handler.PutBooking)
		api.DELETE("/bookings/:booking_id", handler.DeleteBooking)
		api.POST("/bookings/:booking_id/passes", handler.PostPass)

		api.POST("/holds", handler.PostHold)
		api.POST("/holds/:hold_id/confirm", handler.PostHoldConfirm)
		api.DELETE("/holds/:hold_id", handler.DeleteHold)

		api.POST("/passes/:pass_id/register", handler.PostPassRegister)
		api.POST("/passes/:pass_id/checkin", handler.PostPassCheckIn)
		api.GET("/passes/:pass_id/validity", handler.GetPassValidity)
		api.POST("/passes/:pass_id/face", handler.PostPassFace)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
