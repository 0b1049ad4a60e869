package dashboard

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestRenderTable(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var out strings.Builder
	r := NewRenderer(&out, 80, 100)
	r.Render([]Row{
		{Name: "alpha", MaxCpuPct: 10, MaxMemPct: 50, MaxPidPct: 50},
	})

	body := out.String()
	for _, want := range []string{ColContainerName, ColMaxCpu, ColMaxMem, ColMaxPids, "alpha", "10.00", "50.00"} {
		if !strings.Contains(body, want) {
			t.Fatalf("output missing %q:\n%s", want, body)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var out strings.Builder
	NewRenderer(&out, 80, 100).Render(nil)
	if !strings.Contains(out.String(), "(no containers)") {
		t.Fatalf("empty table placeholder missing:\n%s", out.String())
	}
}

func TestColorizeThresholds(t *testing.T) {
	color.NoColor = false
	defer func() { color.NoColor = true }()

	r := NewRenderer(&strings.Builder{}, 80, 100)

	plain := r.colorize(50, 8)
	if strings.Contains(plain, "\x1b[") {
		t.Fatalf("below warning must be uncolored: %q", plain)
	}
	warn := r.colorize(85, 8)
	if !strings.Contains(warn, "\x1b[33m") {
		t.Fatalf("warning cell not yellow: %q", warn)
	}
	crit := r.colorize(120, 8)
	if !strings.Contains(crit, "\x1b[31m") {
		t.Fatalf("critical cell not red: %q", crit)
	}
}

func TestSetThresholdsSwapsLive(t *testing.T) {
	color.NoColor = false
	defer func() { color.NoColor = true }()

	r := NewRenderer(&strings.Builder{}, 80, 100)
	if got := r.colorize(70, 8); strings.Contains(got, "\x1b[") {
		t.Fatalf("70%% should be plain under warning=80: %q", got)
	}
	r.SetThresholds(60, 65)
	if got := r.colorize(70, 8); !strings.Contains(got, "\x1b[31m") {
		t.Fatalf("70%% should be critical under critical=65: %q", got)
	}
}
