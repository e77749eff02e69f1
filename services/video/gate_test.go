package video

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/nijaru/yt-summarizer/media"
)

func TestWithinLimit(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		want     bool
	}{
		{name: "under the cap", duration: 120, want: true},
		{name: "exactly the cap", duration: 300, want: true},
		{name: "one second over", duration: 301, want: false},
		{name: "no duration reported", duration: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			prober := &fakeMedia{info: &media.Info{Title: "T", Duration: tt.duration}}
			gate := NewGate(prober, 300*time.Second, logger)

			info, ok := gate.WithinLimit(context.Background(), "https://youtu.be/validId")
			if ok != tt.want {
				t.Errorf("WithinLimit() = %v, want %v", ok, tt.want)
			}
			if info == nil || info.Title != "T" {
				t.Errorf("expected probed info to be returned, got %+v", info)
			}

			wantEntries := 0
			if !tt.want {
				wantEntries = 1
			}
			if got := len(hook.AllEntries()); got != wantEntries {
				t.Errorf("expected %d log entries, got %d", wantEntries, got)
			}
		})
	}
}

func TestWithinLimitFailsClosed(t *testing.T) {
	logger, hook := test.NewNullLogger()
	prober := &fakeMedia{probeErr: fmt.Errorf("ERROR: Video unavailable")}
	gate := NewGate(prober, 300*time.Second, logger)

	if _, ok := gate.WithinLimit(context.Background(), "https://youtu.be/validId"); ok {
		t.Error("WithinLimit() must be false when probing fails")
	}

	entries := hook.AllEntries()
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 log entry, got %d", len(entries))
	}
	if entries[0].Level != logrus.ErrorLevel {
		t.Errorf("expected error level, got %s", entries[0].Level)
	}
	if prober.probes != 1 {
		t.Errorf("expected a single probe, got %d", prober.probes)
	}
}

func TestLimitMessage(t *testing.T) {
	tests := map[time.Duration]string{
		300 * time.Second: "Video duration exceeds 5-minute limit.",
		10 * time.Minute:  "Video duration exceeds 10-minute limit.",
		90 * time.Second:  "Video duration exceeds 90-second limit.",
	}
	for limit, want := range tests {
		if got := LimitMessage(limit); got != want {
			t.Errorf("LimitMessage(%s) = %q, want %q", limit, got, want)
		}
	}
}
