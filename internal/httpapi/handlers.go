package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"hotel-frontdesk/internal/auth"
	"hotel-frontdesk/internal/booking"
	"hotel-frontdesk/internal/callflow"
	"hotel-frontdesk/internal/callsession"
	"hotel-frontdesk/internal/telephony"
	"hotel-frontdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups the admin-surface HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth         *auth.Manager
	Sessions     callsession.Store
	Reservations booking.Repository
	Dialer       telephony.Dialer

	// PublicBaseURL is where the provider fetches voice instructions from
	// once an outbound callee answers.
	PublicBaseURL string
	// FromNumber is the hotel's caller id on outbound calls.
	FromNumber string

	clock func() time.Time
}

func (h Handlers) now() time.Time {
	if h.clock != nil {
		return h.clock()
	}
	return time.Now()
}

// --- Auth ---

type loginRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Login issues an access token.
//
// NOTE: This is a skeleton-only endpoint. Real systems must validate credentials.
func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" || req.Role == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id, role required"})
		return
	}
	tok, err := h.Auth.Issue(h.now(), req.UserID, req.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": tok})
}

// --- Outbound calls ---

type startCallRequest struct {
	To string `json:"to"`
}

// StartCall places an outbound booking call. The provider dials the guest and,
// on answer, fetches the greeting from the public voice webhook; from there the
// call walks the same flow as an inbound one.
func (h Handlers) StartCall(c *gin.Context) {
	if h.Dialer == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "dialer not configured"})
		return
	}
	var req startCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.To == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "to required"})
		return
	}
	if h.PublicBaseURL == "" {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "public base url not configured"})
		return
	}

	voiceURL := h.PublicBaseURL + callflow.PathVoice
	callSid, err := h.Dialer.StartOutboundCall(c.Request.Context(), req.To, h.FromNumber, voiceURL)
	if err != nil {
		logger.FromGin(c).Error("start outbound call", "error", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "call creation failed"})
		return
	}

	now := h.now().UTC()
	sess := callsession.CallSession{
		CallID:      callSid,
		FromNumber:  h.FromNumber,
		ToNumber:    req.To,
		Direction:   callsession.DirectionOutbound,
		Status:      callsession.StatusInitiated,
		CurrentStep: callsession.StepGreeting,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.Sessions.Create(c.Request.Context(), sess); err != nil {
		// The call is already ringing; report it even if bookkeeping lagged.
		logger.FromGin(c).Error("record outbound session", "call_id", callSid, "error", err)
	}

	c.JSON(http.StatusCreated, gin.H{"call_id": callSid, "status": string(callsession.StatusInitiated)})
}

// ListCalls returns recent call sessions, newest first.
func (h Handlers) ListCalls(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	sessions, err := h.Sessions.ListRecent(c.Request.Context(), limit)
	if err != nil {
		logger.FromGin(c).Error("list call sessions", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"calls": sessions})
}

// --- Reservations ---

type fixDatesRequest struct {
	ReservationID string `json:"reservation_id"`
}

// FixDates resets a reservation to the default stay window, tomorrow through
// three days out. It exists for the support desk: when extraction mangled the
// dates, this puts the reservation into a known-sane state before a human
// follows up with the guest.
func (h Handlers) FixDates(c *gin.Context) {
	var req fixDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.ReservationID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "reservation_id required"})
		return
	}

	today := h.now().UTC().Truncate(24 * time.Hour)
	checkIn := today.AddDate(0, 0, 1)
	checkOut := today.AddDate(0, 0, 3)

	err := h.Reservations.UpdateDates(c.Request.Context(), req.ReservationID, checkIn, checkOut)
	if errors.Is(err, booking.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("fix reservation dates", "reservation_id", req.ReservationID, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	r, err := h.Reservations.FindByID(c.Request.Context(), req.ReservationID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reload failed"})
		return
	}
	c.JSON(http.StatusOK, r)
}

// GetReservation looks up a single reservation by confirmation number.
func (h Handlers) GetReservation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}
	r, err := h.Reservations.FindByID(c.Request.Context(), id)
	if errors.Is(err, booking.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("find reservation", "reservation_id", id, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, r)
}
