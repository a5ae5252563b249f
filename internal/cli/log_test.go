package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkdrift/pkg/mode"
	"github.com/matzehuels/linkdrift/pkg/scene"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("started session") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("pipeline timing") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("pipeline timing") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestSessionLogger(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    string
		wantTag bool
	}{
		{"uuid is shortened", "0b7c6f1e-3d1f-4c8e-9a57-4f3f0e2b9d11", "session=0b7c6f1e", true},
		{"short id kept", "abc", "session=abc", true},
		{"no session", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			sessionLogger(newLogger(&buf, log.InfoLevel), tt.id).Info("placed links")
			out := buf.String()
			if tt.wantTag && !strings.Contains(out, tt.want) {
				t.Errorf("output %q missing %q", out, tt.want)
			}
			if !tt.wantTag && strings.Contains(out, "session=") {
				t.Errorf("output %q should carry no session", out)
			}
		})
	}
}

func TestProgressPlaced(t *testing.T) {
	tests := []struct {
		name    string
		layout  scene.Layout
		want    []string
		notWant []string
	}{
		{
			name: "clean wander",
			layout: scene.Layout{
				Mode:  mode.Wander,
				Links: make([]scene.PlacedLink, 3),
				Stats: scene.Stats{Passes: 2},
			},
			want:    []string{"placed links", "links=3", "mode=wander", "passes=2", "elapsed="},
			notWant: []string{"dimmed=", "coalesced="},
		},
		{
			name: "dimmed after resizes",
			layout: scene.Layout{
				Mode:  mode.Wander,
				Links: make([]scene.PlacedLink, 5),
				Stats: scene.Stats{Passes: 3, Coalesced: 4, Unresolved: 1},
			},
			want: []string{"links=5", "coalesced=4", "dimmed=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			newProgress(newLogger(&buf, log.InfoLevel)).placed(&tt.layout)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output %q should not contain %q", out, w)
				}
			}
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("a bare context should yield the default logger")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}
