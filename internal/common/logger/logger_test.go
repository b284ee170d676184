package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name string
		level Level
		want  []string
		drop  []string
	}{
		{
			name:  "debug level passes everything",
			level: LevelDebug,
			want:  []string{"dbg", "inf", "wrn", "err"},
		},
		{
			name:  "info level drops debug",
			level: LevelInfo,
			want:  []string{"inf", "wrn", "err"},
			drop:  []string{"dbg"},
		},
		{
			name:  "warn level drops debug and info",
			level: LevelWarn,
			want:  []string{"wrn", "err"},
			drop:  []string{"dbg", "inf"},
		},
		{
			name:  "error level keeps errors only",
			level: LevelError,
			want:  []string{"err"},
			drop:  []string{"dbg", "inf", "wrn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			log := New(buf)
			log.SetLevel(tt.level)

			log.Debug("dbg")
			log.Info("inf")
			log.Warn("wrn")
			log.Error("err")

			out := buf.String()
			for _, msg := range tt.want {
				if !strings.Contains(out, msg) {
					t.Errorf("output missing %q at level %v", msg, tt.level)
				}
			}
			for _, msg := range tt.drop {
				if strings.Contains(out, msg) {
					t.Errorf("output contains %q at level %v", msg, tt.level)
				}
			}
		})
	}
}

func TestSetVerbose(t *testing.T) {
	buf := new(bytes.Buffer)
	log := New(buf)

	log.Debug("before verbose")
	if strings.Contains(buf.String(), "before verbose") {
		t.Error("debug message passed at the default level")
	}

	log.SetVerbose(true)
	log.Debug("after verbose")
	if !strings.Contains(buf.String(), "after verbose") {
		t.Error("debug message dropped in verbose mode")
	}

	// SetVerbose(false) must not raise the level back
	log.SetVerbose(false)
	log.Debug("still verbose")
	if !strings.Contains(buf.String(), "still verbose") {
		t.Error("SetVerbose(false) changed the level")
	}
}

func TestSetQuiet(t *testing.T) {
	buf := new(bytes.Buffer)
	log := New(buf)
	log.SetQuiet(true)

	log.Info("quiet info")
	if strings.Contains(buf.String(), "quiet info") {
		t.Error("info message passed in quiet mode")
	}

	log.Error("quiet error")
	if !strings.Contains(buf.String(), "quiet error") {
		t.Error("error message dropped in quiet mode")
	}
}

func TestTerminalOutputCarriesMessageOnly(t *testing.T) {
	buf := new(bytes.Buffer)
	log := New(buf)

	log.Info("resolved kernel %s", "6.6.47")
	if got := buf.String(); got != "resolved kernel 6.6.47\n" {
		t.Errorf("terminal output = %q, want message plus newline only", got)
	}
}

func TestLevelString(t *testing.T) {
	for level, want := range map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
	} {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	buf := new(bytes.Buffer)
	once = sync.Once{}
	defaultLogger = nil
	once.Do(func() {
		defaultLogger = New(buf)
		defaultLogger.SetLevel(LevelDebug)
	})

	Debug("d")
	Info("i")
	Warn("w")
	Error("e")

	out := buf.String()
	for _, msg := range []string{"d\n", "i\n", "w\n", "e\n"} {
		if !strings.Contains(out, msg) {
			t.Errorf("package-level output missing %q", msg)
		}
	}
}
