package lifecycle

import (
	"errors"
	"testing"
)

func TestInspectLimitsConversion(t *testing.T) {
	factory := &fakeFactory{commands: []*fakeCommand{{
		output: []byte(`[{"HostConfig":{"NanoCpus":1500000000,"Memory":268435456,"PidsLimit":100}}]`),
	}}}

	limits, err := InspectLimits(factory, "docker", "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limits.Cpus != 1.5 {
		t.Fatalf("cpus = %v, want 1.5", limits.Cpus)
	}
	if limits.MemoryMb != 256 {
		t.Fatalf("memory = %v, want 256", limits.MemoryMb)
	}
	if limits.PidsLimit != 100 {
		t.Fatalf("pids = %v, want 100", limits.PidsLimit)
	}
	if limits.Id != "abc" {
		t.Fatalf("id = %q, want abc", limits.Id)
	}

	want := []string{"docker", "inspect", "abc"}
	got := factory.calls[0]
	if len(got) != len(want) {
		t.Fatalf("argv = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("argv = %v, want %v", got, want)
		}
	}
}

func TestInspectLimitsFailures(t *testing.T) {
	cases := []struct {
		name string
		cmd  *fakeCommand
	}{
		{"command error", &fakeCommand{err: errors.New("no such container")}},
		{"broken json", &fakeCommand{output: []byte(`{not json`)}},
		{"empty array", &fakeCommand{output: []byte(`[]`)}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			factory := &fakeFactory{commands: []*fakeCommand{tc.cmd}}
			if _, err := InspectLimits(factory, "docker", "abc"); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
