package extract

import (
	"context"
	"time"

	"hotel-frontdesk/pkg/logger"
)

// Completer is the natural-language extraction service boundary.
// Implemented by the OpenAI adapter; substituted with fakes in tests.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Service converts an accumulated call transcript into a validated Booking.
//
// It never returns an error: every failure mode (service unreachable,
// timeout, non-JSON output, hallucinated dates) degrades to the
// deterministic defaults, because the result feeds a live phone call that
// must keep moving.
type Service struct {
	llm     Completer
	clock   func() time.Time
	timeout time.Duration
}

func NewService(llm Completer, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{llm: llm, clock: time.Now, timeout: timeout}
}

// Extract interprets the transcript for the given caller.
func (s *Service) Extract(ctx context.Context, transcript, callerPhone string) Booking {
	log := logger.From(ctx)
	now := s.clock().UTC()

	if s.llm == nil {
		log.Warn("extraction service not configured, using defaults")
		return Defaults(now, callerPhone)
	}

	// The completion call is the only step with unbounded external latency
	// on the synchronous finalization path; cap it hard.
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.llm.Complete(callCtx,
		buildSystemPrompt(now.Format(wireDateLayout)),
		buildUserPrompt(transcript),
	)
	if err != nil {
		log.Warn("extraction service call failed, using defaults", "err", err)
		return Defaults(now, callerPhone)
	}

	w, err := parseServiceOutput(raw)
	if err != nil {
		log.Warn("extraction output unparseable, using defaults", "err", err)
		return Defaults(now, callerPhone)
	}

	return repair(w.toBooking(), now, callerPhone)
}
