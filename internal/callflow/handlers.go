package callflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-frontdesk/internal/booking"
	"hotel-frontdesk/internal/callsession"
	"hotel-frontdesk/internal/extract"
	"hotel-frontdesk/internal/telephony"
	"hotel-frontdesk/pkg/logger"
)

// Extractor turns a call transcript into a best-effort booking. It never
// fails; when the transcript is useless it returns sensible defaults.
type Extractor interface {
	Extract(ctx context.Context, transcript, callerPhone string) extract.Booking
}

// Committer persists a booking and closes out the call session.
type Committer interface {
	Commit(ctx context.Context, callID string, b extract.Booking) (booking.Confirmation, error)
}

// Deduper remembers payloads it has already seen. A nil Deduper disables
// duplicate suppression.
type Deduper interface {
	MarkOnce(ctx context.Context, scope, payload string, ttl time.Duration) (bool, error)
}

// Controller drives the phone booking flow. Every handler answers HTTP 200
// with a well-formed voice document no matter what goes wrong underneath;
// a caller mid-conversation must never hear a dead line because a database
// hiccuped.
type Controller struct {
	sessions  callsession.Store
	extractor Extractor
	committer Committer
	dedupe    Deduper

	clock func() time.Time
}

func NewController(sessions callsession.Store, ex Extractor, cm Committer, dedupe Deduper) *Controller {
	return &Controller{
		sessions:  sessions,
		extractor: ex,
		committer: cm,
		dedupe:    dedupe,
		clock:     time.Now,
	}
}

// fallbackDocument is pre-rendered so the failure path cannot itself fail.
const fallbackDocument = `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
	`<Response><Say voice="Polly.Joanna">We are sorry, something went wrong on our end. Please call back in a few minutes.</Say><Hangup></Hangup></Response>`

// closedResponse answers a webhook for an already-finished call: restate the
// outcome and hang up without touching the stores.
func closedResponse(sess callsession.CallSession) telephony.VoiceResponse {
	say := []string{"This call has already been completed."}
	if sess.Summary != "" {
		say = append(say, sess.Summary+".")
	}
	say = append(say, "Goodbye.")
	return telephony.VoiceResponse{Say: say, Hangup: true}
}

func apologyResponse() telephony.VoiceResponse {
	return telephony.VoiceResponse{
		Say: []string{
			"We are sorry, we could not complete your booking over the phone.",
			"Please call us back and our front desk will take care of you.",
		},
		Hangup: true,
	}
}

// Register mounts the voice webhook routes on the given router group.
func (ctl *Controller) Register(r gin.IRoutes) {
	r.POST(PathVoice, ctl.handleStep(PathVoice))
	r.POST(PathHandleRecording, ctl.handleStep(PathHandleRecording))
	r.POST(PathCollectName, ctl.handleStep(PathCollectName))
	r.POST(PathCollectEmail, ctl.handleStep(PathCollectEmail))
	r.POST(PathCollectCheckIn, ctl.handleStep(PathCollectCheckIn))
	r.POST(PathCollectCheckOut, ctl.handleStep(PathCollectCheckOut))
	r.POST(PathCreateBooking, ctl.handleStep(PathCreateBooking))
	r.POST(PathTranscription, ctl.HandleTranscription)
}

func (ctl *Controller) handleStep(path string) gin.HandlerFunc {
	pathStep := pathSteps[path]
	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				logger.FromGin(c).Error("voice handler panicked", "path", path, "panic", p)
				writeDocument(c, fallbackDocument)
			}
		}()
		respondTwiML(c, ctl.advance(c, pathStep))
	}
}

// advance runs one round-trip of the flow: resolve which step this call is
// actually on, speak that step's prompt, and persist the step marker for the
// next webhook.
func (ctl *Controller) advance(c *gin.Context, pathStep callsession.Step) telephony.VoiceResponse {
	log := logger.FromGin(c)
	ctx := c.Request.Context()

	hook, err := telephony.ParseVoiceWebhook(c.Request)
	if err != nil || hook.CallSid == "" {
		log.Warn("voice webhook without usable call sid", "error", err)
		return apologyResponse()
	}
	log = log.With("call_id", hook.CallSid)

	sess, err := ctl.sessions.Find(ctx, hook.CallSid)
	switch {
	case errors.Is(err, callsession.ErrNotFound):
		sess = ctl.newSession(hook, pathStep)
		if cerr := ctl.sessions.Create(ctx, sess); cerr != nil {
			log.Error("create call session", "error", cerr)
		}
	case err != nil:
		log.Error("load call session", "error", err)
		sess = ctl.newSession(hook, pathStep)
	}

	// A terminal session never runs another step. Without this, a provider
	// retry of the finalization webhook would book a second room under a
	// fresh confirmation number.
	if sess.CurrentStep == callsession.StepDone {
		log.Info("webhook for finished call, replaying outcome", "status", sess.Status)
		return closedResponse(sess)
	}

	// The persisted marker wins over the path the provider happened to post
	// to. Providers retry and callers hang up mid-prompt; the path alone is
	// not trustworthy.
	step := pathStep
	if sess.CurrentStep.Valid() {
		step = sess.CurrentStep
	}

	if step == callsession.StepFinalize {
		return ctl.finalize(ctx, log, hook.CallSid)
	}

	resp, ok := promptFor(step)
	if !ok {
		log.Error("no prompt for step", "step", step)
		return apologyResponse()
	}

	status := callsession.StatusInProgress
	if step == callsession.StepGreeting {
		status = callsession.StatusInitiated
	}
	if uerr := ctl.sessions.UpdateStep(ctx, hook.CallSid, step.Next(), status); uerr != nil {
		log.Error("persist call step", "step", step.Next(), "error", uerr)
	}
	return resp
}

func (ctl *Controller) newSession(hook telephony.VoiceWebhook, step callsession.Step) callsession.CallSession {
	direction := callsession.DirectionInbound
	if hook.Direction != "" && hook.Direction != "inbound" {
		direction = callsession.DirectionOutbound
	}
	now := ctl.clock().UTC()
	return callsession.CallSession{
		CallID:      hook.CallSid,
		FromNumber:  hook.From,
		ToNumber:    hook.To,
		Direction:   direction,
		Status:      callsession.StatusInitiated,
		CurrentStep: step,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// finalize is the last round-trip: pull whatever transcript the async
// transcription callbacks have accumulated, extract a booking from it, commit
// the reservation, and read the confirmation back to the caller.
func (ctl *Controller) finalize(ctx context.Context, log *slog.Logger, callID string) telephony.VoiceResponse {
	sess, err := ctl.sessions.Find(ctx, callID)
	if err != nil {
		log.Error("load session for booking", "error", err)
		ctl.markFailed(ctx, log, callID, "session unavailable at finalization")
		return apologyResponse()
	}

	b := ctl.extractor.Extract(ctx, sess.Transcript, sess.FromNumber)

	conf, err := ctl.committer.Commit(ctx, callID, b)
	if err != nil {
		log.Error("commit booking", "error", err)
		ctl.markFailed(ctx, log, callID, "booking commit failed, needs follow-up")
		return apologyResponse()
	}

	log.Info("booking confirmed over phone",
		"reservation_id", conf.ReservationID,
		"guest", conf.GuestName,
		"room_type", conf.RoomType,
		"nights", conf.Nights,
	)

	say := []string{
		fmt.Sprintf("Wonderful news %s, your reservation is confirmed.", conf.GuestName),
		fmt.Sprintf("Your confirmation number is %s.", conf.ReservationID),
		fmt.Sprintf("Your %s is %d dollars per night for %d nights, checking in %s and checking out %s.",
			conf.RoomType, conf.NightlyRate, conf.Nights,
			conf.CheckIn.Format("January 2"), conf.CheckOut.Format("January 2")),
	}
	if conf.EmailSent {
		say = append(say, "A confirmation email is on its way to you.")
	}
	say = append(say, "We look forward to welcoming you. Goodbye.")
	return telephony.VoiceResponse{Say: say, Hangup: true}
}

func (ctl *Controller) markFailed(ctx context.Context, log *slog.Logger, callID, reason string) {
	if err := ctl.sessions.MarkFailed(ctx, callID, reason); err != nil {
		log.Error("mark call failed", "error", err)
	}
}

func respondTwiML(c *gin.Context, v telephony.VoiceResponse) {
	doc, err := v.Render()
	if err != nil {
		logger.FromGin(c).Error("render voice document", "error", err)
		doc = fallbackDocument
	}
	writeDocument(c, doc)
}

func writeDocument(c *gin.Context, doc string) {
	c.Header("Content-Type", "application/xml")
	c.String(http.StatusOK, doc)
}
