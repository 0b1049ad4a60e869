package mq

import (
	"bytes"
	"strings"
	"testing"
)

func TestMessageSizeIsExact(t *testing.T) {
	if MessageSize != 124 {
		t.Fatalf("MessageSize = %d, want 124", MessageSize)
	}
	msg := NewSummaryMessage("alpha", 1, 2, 3)
	buf := msg.Encode()
	if len(buf) != 124 {
		t.Fatalf("encoded size = %d, want 124", len(buf))
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	msg := NewSummaryMessage("alpha", 10.0, 50.0, 50.0)
	buf := msg.Encode()
	got := DecodeSummaryMessage(buf[:])

	if got.MaxCpuPct != 10.0 || got.MaxMemPct != 50.0 || got.MaxPidPct != 50.0 {
		t.Fatalf("decoded maxima wrong: %+v", got)
	}
	if got.Name() != "alpha" {
		t.Fatalf("decoded name = %q, want alpha", got.Name())
	}
}

func TestIdNullPadded(t *testing.T) {
	msg := NewSummaryMessage("ab", 0, 0, 0)
	if msg.Id[0] != 'a' || msg.Id[1] != 'b' {
		t.Fatalf("id prefix wrong: %v", msg.Id[:4])
	}
	if !bytes.Equal(msg.Id[2:], make([]byte, IdSize-2)) {
		t.Fatalf("id tail not null padded")
	}
}

func TestLongNameTruncatedTo99Bytes(t *testing.T) {
	long := strings.Repeat("x", 150)
	msg := NewSummaryMessage(long, 0, 0, 0)
	if msg.Id[IdSize-1] != 0 {
		t.Fatalf("last id byte must stay null")
	}
	if got := msg.Name(); got != strings.Repeat("x", 99) {
		t.Fatalf("name length = %d, want 99", len(got))
	}
}

func TestDecodeShortBufferIsZero(t *testing.T) {
	got := DecodeSummaryMessage(make([]byte, 10))
	if got.MaxCpuPct != 0 || got.Name() != "" {
		t.Fatalf("short buffer must decode to zero message: %+v", got)
	}
}
