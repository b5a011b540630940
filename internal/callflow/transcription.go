package callflow

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"hotel-frontdesk/internal/telephony"
	"hotel-frontdesk/pkg/logger"
	"hotel-frontdesk/pkg/utils"
)

// Transcription callbacks can arrive seconds after the call has moved on, so
// a generous window is enough to absorb provider retries.
const transcriptionDedupeTTL = time.Hour

// ackDocument acknowledges a callback that needs no spoken instructions:
// still a well-formed voice document, just an empty one.
const ackDocument = `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
	`<Response></Response>`

// RedisDeduper suppresses replayed transcription callbacks via Redis SETNX.
type RedisDeduper struct {
	rdb *redis.Client
}

func NewRedisDeduper(rdb *redis.Client) *RedisDeduper {
	return &RedisDeduper{rdb: rdb}
}

func (d *RedisDeduper) MarkOnce(ctx context.Context, scope, payload string, ttl time.Duration) (bool, error) {
	return utils.MarkOnce(ctx, d.rdb, utils.DedupeKey(scope, payload), ttl)
}

// HandleTranscription ingests an async transcription callback. The provider
// only cares that we answer 200; anything we cannot use is acknowledged and
// dropped.
func (ctl *Controller) HandleTranscription(c *gin.Context) {
	log := logger.FromGin(c)
	ctx := c.Request.Context()

	defer func() {
		if p := recover(); p != nil {
			log.Error("transcription handler panicked", "panic", p)
		}
		writeDocument(c, ackDocument)
	}()

	hook, err := telephony.ParseVoiceWebhook(c.Request)
	if err != nil || hook.CallSid == "" || hook.TranscriptionText == "" {
		log.Debug("transcription callback without usable payload", "error", err)
		return
	}
	log = log.With("call_id", hook.CallSid)

	if ctl.dedupe != nil {
		fresh, derr := ctl.dedupe.MarkOnce(ctx, "transcription:"+hook.CallSid, hook.TranscriptionText, transcriptionDedupeTTL)
		if derr != nil {
			// Dedupe is best effort. A flaky Redis must not cost us the
			// caller's words.
			log.Warn("transcription dedupe unavailable", "error", derr)
		} else if !fresh {
			log.Debug("duplicate transcription callback dropped")
			return
		}
	}

	if err := ctl.sessions.AppendTranscript(ctx, hook.CallSid, hook.TranscriptionText); err != nil {
		log.Error("append transcript", "error", err)
		return
	}
	log.Debug("transcript segment stored", "chars", len(hook.TranscriptionText))
}
