package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/internal/auth"
	"hotel-frontdesk/internal/booking"
	"hotel-frontdesk/internal/callsession"
	"hotel-frontdesk/internal/config"
)

type fakeDialer struct {
	gotTo       string
	gotFrom     string
	gotVoiceURL string
	sid         string
	err         error
}

func (f *fakeDialer) StartOutboundCall(ctx context.Context, to, from, voiceURL string) (string, error) {
	f.gotTo = to
	f.gotFrom = from
	f.gotVoiceURL = voiceURL
	if f.err != nil {
		return "", f.err
	}
	return f.sid, nil
}

var testNow = time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

func newTestHandlers(t *testing.T) (Handlers, *callsession.MemoryStore, *booking.MemoryRepo, *fakeDialer) {
	t.Helper()
	m, err := auth.NewManager(config.AuthConfig{JWTSecret: "secret", AccessTokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("auth manager: %v", err)
	}
	store := callsession.NewMemoryStore()
	repo := booking.NewMemoryRepo()
	dialer := &fakeDialer{sid: "CA900"}
	h := Handlers{
		Auth:          m,
		Sessions:      store,
		Reservations:  repo,
		Dialer:        dialer,
		PublicBaseURL: "https://frontdesk.example.com",
		FromNumber:    "+15559990000",
		clock:         func() time.Time { return testNow },
	}
	return h, store, repo, dialer
}

func newTestRouter(h Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/call", h.StartCall)
	r.GET("/calls", h.ListCalls)
	r.POST("/fix-dates", h.FixDates)
	r.GET("/reservations/:id", h.GetReservation)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStartCallCreatesOutboundSession(t *testing.T) {
	h, store, _, dialer := newTestHandlers(t)
	r := newTestRouter(h)

	w := postJSON(t, r, "/call", gin.H{"to": "+15550001111"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if dialer.gotTo != "+15550001111" || dialer.gotFrom != "+15559990000" {
		t.Fatalf("dialer got to=%q from=%q", dialer.gotTo, dialer.gotFrom)
	}
	if dialer.gotVoiceURL != "https://frontdesk.example.com/voice" {
		t.Fatalf("voice url = %q", dialer.gotVoiceURL)
	}

	var resp struct {
		CallID string `json:"call_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CallID != "CA900" {
		t.Fatalf("call_id = %q", resp.CallID)
	}

	sess, err := store.Find(context.Background(), "CA900")
	if err != nil {
		t.Fatalf("session not recorded: %v", err)
	}
	if sess.Direction != callsession.DirectionOutbound {
		t.Fatalf("direction = %q", sess.Direction)
	}
	if sess.ToNumber != "+15550001111" {
		t.Fatalf("to = %q", sess.ToNumber)
	}
}

func TestStartCallDialerFailure(t *testing.T) {
	h, store, _, dialer := newTestHandlers(t)
	dialer.err = errors.New("provider 500")
	r := newTestRouter(h)

	w := postJSON(t, r, "/call", gin.H{"to": "+15550001111"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	if _, err := store.Find(context.Background(), "CA900"); !errors.Is(err, callsession.ErrNotFound) {
		t.Fatalf("no session should exist, got err=%v", err)
	}
}

func TestStartCallValidation(t *testing.T) {
	h, _, _, _ := newTestHandlers(t)
	r := newTestRouter(h)

	w := postJSON(t, r, "/call", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestListCallsNewestFirst(t *testing.T) {
	h, store, _, _ := newTestHandlers(t)
	r := newTestRouter(h)

	for i, id := range []string{"CA1", "CA2", "CA3"} {
		s := callsession.CallSession{
			CallID:    id,
			CreatedAt: testNow.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Create(context.Background(), s); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/calls?limit=2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Calls []callsession.CallSession `json:"calls"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Calls) != 2 {
		t.Fatalf("len = %d, want 2", len(resp.Calls))
	}
	if resp.Calls[0].CallID != "CA3" || resp.Calls[1].CallID != "CA2" {
		t.Fatalf("order = %q, %q", resp.Calls[0].CallID, resp.Calls[1].CallID)
	}
}

func TestFixDatesResetsToDefaultWindow(t *testing.T) {
	h, _, repo, _ := newTestHandlers(t)
	r := newTestRouter(h)

	seed := booking.Reservation{
		ID:        "HB-1",
		GuestName: "John Smith",
		CheckIn:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		RoomType:  "Suite",
		Status:    booking.StatusConfirmed,
	}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := postJSON(t, r, "/fix-dates", gin.H{"reservation_id": "HB-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	got, err := repo.FindByID(context.Background(), "HB-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	wantIn := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	wantOut := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if !got.CheckIn.Equal(wantIn) || !got.CheckOut.Equal(wantOut) {
		t.Fatalf("dates = %v / %v, want %v / %v", got.CheckIn, got.CheckOut, wantIn, wantOut)
	}
	if got.GuestName != "John Smith" || got.RoomType != "Suite" {
		t.Fatalf("other fields changed: %+v", got)
	}
}

func TestFixDatesUnknownReservation(t *testing.T) {
	h, _, _, _ := newTestHandlers(t)
	r := newTestRouter(h)

	w := postJSON(t, r, "/fix-dates", gin.H{"reservation_id": "HB-missing"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	h, _, _, _ := newTestHandlers(t)
	r := newTestRouter(h)

	w := postJSON(t, r, "/auth/login", gin.H{"user_id": "u1", "role": "admin"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	claims, err := h.Auth.Verify(resp.AccessToken, testNow.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != "admin" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestGetReservation(t *testing.T) {
	h, _, repo, _ := newTestHandlers(t)
	r := newTestRouter(h)

	seed := booking.Reservation{ID: "HB-2", GuestName: "Maria Garcia", Status: booking.StatusConfirmed}
	if err := repo.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/reservations/HB-2", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got booking.Reservation
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.GuestName != "Maria Garcia" {
		t.Fatalf("guest = %q", got.GuestName)
	}

	req = httptest.NewRequest(http.MethodGet, "/reservations/HB-nope", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}
