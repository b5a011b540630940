package utils

import (
	"testing"
	"time"
)

func TestPostgresPoolConfigDefaults(t *testing.T) {
	cfg := PostgresPoolConfig{}.withDefaults()
	if cfg.MaxOpenConns <= 0 {
		t.Fatalf("expected MaxOpenConns default")
	}
	if cfg.PingTimeout <= 0 {
		t.Fatalf("expected PingTimeout default")
	}

	custom := PostgresPoolConfig{MaxOpenConns: 5, PingTimeout: time.Second}.withDefaults()
	if custom.MaxOpenConns != 5 {
		t.Fatalf("expected explicit MaxOpenConns to survive, got %d", custom.MaxOpenConns)
	}
	if custom.PingTimeout != time.Second {
		t.Fatalf("expected explicit PingTimeout to survive, got %v", custom.PingTimeout)
	}
}
