package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_OnlyFirstCallWins(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	var first, second bytes.Buffer
	Init(Options{Level: "debug", Output: &first, Service: "nursing-api", Env: "test"})
	Init(Options{Level: "error", Output: &second})

	lc := Component("lifecycle")
	lc.Debug().Msg("hello")

	if second.Len() != 0 {
		t.Fatalf("second Init should be ignored, got %q", second.String())
	}

	var line map[string]any
	if err := json.Unmarshal(first.Bytes(), &line); err != nil {
		t.Fatalf("expected a json line, got %q: %v", first.String(), err)
	}
	if line["service"] != "nursing-api" || line["env"] != "test" || line["component"] != "lifecycle" || line["message"] != "hello" {
		t.Fatalf("unexpected fields: %+v", line)
	}
	if _, ok := line["caller"]; !ok {
		t.Fatalf("debug level should record the caller: %+v", line)
	}
}

func TestInit_InfoLevelOmitsCaller(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	var buf bytes.Buffer
	Init(Options{Output: &buf})
	au := Component("audit")
	au.Debug().Msg("dropped")
	au.Info().Msg("kept")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one json line, got %q: %v", buf.String(), err)
	}
	if line["message"] != "kept" {
		t.Fatalf("unexpected line: %+v", line)
	}
	if _, ok := line["caller"]; ok {
		t.Fatalf("info level should not record the caller: %+v", line)
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Get()
}

func TestLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"fatal":   zerolog.FatalLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := Level(in); got != want {
			t.Errorf("Level(%q) = %s, want %s", in, got, want)
		}
	}
}
