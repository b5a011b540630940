package callsession

import "time"

// CallSession tracks one telephone interaction across webhook round-trips.
//
// The booking flow is stateless per request: every handler derives all of its
// context from this record, never from process memory. The record is an
// append-only audit trail; sessions are never deleted.
//
// CurrentStep is persisted explicitly so a webhook arriving on the wrong path
// (provider retry, misconfigured action URL) can still be dispatched to the
// step the call is actually on.

type CallSession struct {
	CallID      string    `json:"call_id" db:"call_id"`
	FromNumber  string    `json:"from_number" db:"from_number"`
	ToNumber    string    `json:"to_number" db:"to_number"`
	Direction   Direction `json:"direction" db:"direction"`
	Status      Status    `json:"status" db:"status"`
	CurrentStep Step      `json:"current_step" db:"current_step"`

	// Transcript accumulates the caller's answers as the provider's async
	// transcription events land. Append-only until extraction reads it.
	Transcript string `json:"transcript" db:"transcript"`

	// Summary is the human-readable outcome, set once at completion. The
	// admin dashboard reads it to link a call to its reservation.
	Summary string `json:"summary,omitempty" db:"summary"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Status string

const (
	StatusInitiated  Status = "INITIATED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// Step identifies where in the collection flow a call currently is.
// The order is linear; there are no backward transitions.
type Step string

const (
	StepGreeting        Step = "greeting"
	StepCollectName     Step = "collect_name"
	StepCollectEmail    Step = "collect_email"
	StepCollectCheckIn  Step = "collect_checkin"
	StepCollectCheckOut Step = "collect_checkout"
	StepCollectRoomType Step = "collect_roomtype"
	StepFinalize        Step = "finalize"
	StepDone            Step = "done"
)

var stepOrder = []Step{
	StepGreeting,
	StepCollectName,
	StepCollectEmail,
	StepCollectCheckIn,
	StepCollectCheckOut,
	StepCollectRoomType,
	StepFinalize,
	StepDone,
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return s.index() >= 0
}

// Next returns the step after s; StepDone is terminal.
func (s Step) Next() Step {
	i := s.index()
	if i < 0 || i+1 >= len(stepOrder) {
		return StepDone
	}
	return stepOrder[i+1]
}

func (s Step) index() int {
	for i, v := range stepOrder {
		if v == s {
			return i
		}
	}
	return -1
}
