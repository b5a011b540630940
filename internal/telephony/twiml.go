package telephony

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
)

// Minimal Twilio Markup Language response builder.
// It intentionally avoids any provider SDK dependency.
//
// Only include primitives we need at the adapter boundary: the booking flow
// speaks fixed scripts, records the caller's answer, and names the webhook
// that handles the next step.

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlSay struct {
	XMLName xml.Name `xml:"Say"`
	Voice   string   `xml:"voice,attr,omitempty"`
	Text    string   `xml:",chardata"`
}

type twimlRecord struct {
	XMLName            xml.Name `xml:"Record"`
	Action             string   `xml:"action,attr"`
	Method             string   `xml:"method,attr"`
	MaxLength          int      `xml:"maxLength,attr,omitempty"`
	Timeout            int      `xml:"timeout,attr,omitempty"`
	PlayBeep           string   `xml:"playBeep,attr,omitempty"`
	Transcribe         string   `xml:"transcribe,attr,omitempty"`
	TranscribeCallback string   `xml:"transcribeCallback,attr,omitempty"`
}

type twimlRedirect struct {
	XMLName xml.Name `xml:"Redirect"`
	Method  string   `xml:"method,attr,omitempty"`
	URL     string   `xml:",chardata"`
}

type twimlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

type twimlPause struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr,omitempty"`
}

// DefaultVoice is applied to every Say verb.
const DefaultVoice = "Polly.Joanna"

// RecordParams instructs the provider to record the caller's next utterance
// and post the result to Action. When Transcribe is set, the provider also
// sends the text to TranscribeCallback out of band.
type RecordParams struct {
	Action             string
	MaxLengthSec       int
	TimeoutSec         int
	Transcribe         bool
	TranscribeCallback string
	PlayBeep           bool
}

// VoiceResponse is the provider-facing instruction document for one webhook
// round-trip: speak the script, then either record, redirect, or hang up.
type VoiceResponse struct {
	Say        []string
	PauseSec   int
	Record     *RecordParams
	RedirectTo string
	Hangup     bool
}

// Render serializes the response to TwiML.
func (v VoiceResponse) Render() (string, error) {
	var r twimlResponse

	for _, line := range v.Say {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.Verbs = append(r.Verbs, twimlSay{Voice: DefaultVoice, Text: line})
	}
	if v.PauseSec > 0 {
		r.Verbs = append(r.Verbs, twimlPause{Length: v.PauseSec})
	}

	switch {
	case v.Record != nil:
		if strings.TrimSpace(v.Record.Action) == "" {
			return "", errors.New("telephony: record action required")
		}
		rec := twimlRecord{
			Action:    v.Record.Action,
			Method:    "POST",
			MaxLength: v.Record.MaxLengthSec,
			Timeout:   v.Record.TimeoutSec,
			PlayBeep:  boolAttr(v.Record.PlayBeep),
		}
		if v.Record.Transcribe {
			rec.Transcribe = "true"
			rec.TranscribeCallback = v.Record.TranscribeCallback
		}
		r.Verbs = append(r.Verbs, rec)
	case v.RedirectTo != "":
		r.Verbs = append(r.Verbs, twimlRedirect{Method: "POST", URL: v.RedirectTo})
	case v.Hangup:
		r.Verbs = append(r.Verbs, twimlHangup{})
	}

	if len(r.Verbs) == 0 {
		return "", errors.New("telephony: empty voice response")
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
