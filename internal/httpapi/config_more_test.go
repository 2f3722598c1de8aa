package httpapi

import (
	"testing"
	"time"
)

func TestSetMaxBodyBytes_DefaultWhenNonPositive(t *testing.T) {
	SetMaxBodyBytes(-1)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB, got %d", maxBodyBytes)
	}
	SetMaxBodyBytes(0)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB on zero, got %d", maxBodyBytes)
	}
}

func TestSetMaxBodyBytes_PositiveSetsValue(t *testing.T) {
	defer SetMaxBodyBytes(0)
	SetMaxBodyBytes(1234)
	if maxBodyBytes != 1234 {
		t.Fatalf("expected 1234, got %d", maxBodyBytes)
	}
}

func TestSetPredictTimeout_NormalizesNegativeToZero(t *testing.T) {
	defer SetPredictTimeout(0)
	SetPredictTimeout(-5 * time.Second)
	if predictTimeout != 0 {
		t.Fatalf("expected 0, got %s", predictTimeout)
	}
	SetPredictTimeout(3 * time.Second)
	if predictTimeout != 3*time.Second {
		t.Fatalf("expected 3s, got %s", predictTimeout)
	}
}

func TestSetCORSOptions_Defaults(t *testing.T) {
	defer SetCORSOptions(false, nil, nil, nil)
	SetCORSOptions(true, []string{"https://a.example"}, nil, nil)
	if !corsEnabled || len(corsAllowedOrigins) != 1 {
		t.Fatalf("origins not applied: %v", corsAllowedOrigins)
	}
	if len(corsAllowedMethods) != 3 || corsAllowedHeaders[0] != "Content-Type" {
		t.Fatalf("defaults not applied: %v %v", corsAllowedMethods, corsAllowedHeaders)
	}
}
