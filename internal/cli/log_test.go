package cli

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{log.InfoLevel, func(l *log.Logger) { l.Info("bound field") }, true},
		{log.InfoLevel, func(l *log.Logger) { l.Debug("bound field") }, false},
		{log.DebugLevel, func(l *log.Logger) { l.Debug("bound field") }, true},
		{log.WarnLevel, func(l *log.Logger) { l.Info("bound field") }, false},
		{log.WarnLevel, func(l *log.Logger) { l.Warn("missing attribute") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("wrote output = %v, want %v (%q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("ready")
	if !regexp.MustCompile(`^\d\d:\d\d:\d\d\.\d\d `).MatchString(buf.String()) {
		t.Errorf("log line should start with a short timestamp: %q", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Resolved 3 badges")

	out := buf.String()
	if !strings.Contains(out, "Resolved 3 badges (") || !strings.Contains(out, "s)") {
		t.Errorf("progress line = %q", out)
	}
}
