package callflow

import (
	"hotel-frontdesk/internal/callsession"
	"hotel-frontdesk/internal/telephony"
)

// Webhook paths, in flow order. The provider is told, in every response,
// which path to post the next recording to; the persisted step marker is the
// authority if the two ever disagree.
const (
	PathVoice           = "/voice"
	PathHandleRecording = "/handle-recording"
	PathCollectName     = "/collect-name"
	PathCollectEmail    = "/collect-email"
	PathCollectCheckIn  = "/collect-checkin"
	PathCollectCheckOut = "/collect-checkout"
	PathCreateBooking   = "/create-booking"
	PathTranscription   = "/transcription"
)

// stepPrompt describes one collection round-trip: what to speak, and where the
// provider posts the caller's recorded answer.
type stepPrompt struct {
	say          []string
	recordAction string
}

var stepPrompts = map[callsession.Step]stepPrompt{
	callsession.StepGreeting: {
		say: []string{
			"Thank you for calling the Grand Plaza Hotel.",
			"I can book a room for you right now. After the beep, please tell me briefly what you need.",
		},
		recordAction: PathHandleRecording,
	},
	callsession.StepCollectName: {
		say: []string{
			"Our nightly rates are 150 dollars for a Standard Room, 200 dollars for a Deluxe Room, and 300 dollars for a Suite.",
			"Let's get your reservation started. After the beep, please say your full name.",
		},
		recordAction: PathCollectName,
	},
	callsession.StepCollectEmail: {
		say: []string{
			"Thank you. After the beep, please say your email address, slowly.",
		},
		recordAction: PathCollectEmail,
	},
	callsession.StepCollectCheckIn: {
		say: []string{
			"Great. After the beep, please say your check in date.",
		},
		recordAction: PathCollectCheckIn,
	},
	callsession.StepCollectCheckOut: {
		say: []string{
			"And after the beep, please say your check out date.",
		},
		recordAction: PathCollectCheckOut,
	},
	callsession.StepCollectRoomType: {
		say: []string{
			"Almost done. After the beep, please say which room you would like: Standard Room, Deluxe Room, or Suite.",
		},
		recordAction: PathCreateBooking,
	},
}

// pathSteps maps each webhook path to the step it nominally executes.
var pathSteps = map[string]callsession.Step{
	PathVoice:           callsession.StepGreeting,
	PathHandleRecording: callsession.StepCollectName,
	PathCollectName:     callsession.StepCollectEmail,
	PathCollectEmail:    callsession.StepCollectCheckIn,
	PathCollectCheckIn:  callsession.StepCollectCheckOut,
	PathCollectCheckOut: callsession.StepCollectRoomType,
	PathCreateBooking:   callsession.StepFinalize,
}

const (
	recordMaxLengthSec = 12
	recordTimeoutSec   = 4
)

// promptFor builds the voice response for a collection step.
func promptFor(step callsession.Step) (telephony.VoiceResponse, bool) {
	p, ok := stepPrompts[step]
	if !ok {
		return telephony.VoiceResponse{}, false
	}
	return telephony.VoiceResponse{
		Say: p.say,
		Record: &telephony.RecordParams{
			Action:             p.recordAction,
			MaxLengthSec:       recordMaxLengthSec,
			TimeoutSec:         recordTimeoutSec,
			Transcribe:         true,
			TranscribeCallback: PathTranscription,
			PlayBeep:           true,
		},
	}, true
}
