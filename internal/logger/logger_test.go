package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	output := buf.String()
	if !strings.Contains(output, "level=DEBUG") {
		t.Errorf("expected debug level in output: %q", output)
	}
	if !strings.Contains(output, `msg="test message arg"`) {
		t.Errorf("unexpected output: %q", output)
	}
	if strings.Contains(output, "time=") {
		t.Errorf("expected timestamps to be omitted: %q", output)
	}
}

func TestDebugAndInfo_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("hidden")
	Info("hidden %d", 1)
	Infow("hidden", "k", "v")
	Section("Hidden")

	if buf.Len() != 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}
}

func TestWarn_AlwaysPrinted(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Warn("document %s rejected", "a.txt")

	output := buf.String()
	if !strings.Contains(output, "level=WARN") {
		t.Errorf("expected warn level in output: %q", output)
	}
	if !strings.Contains(output, `msg="document a.txt rejected"`) {
		t.Errorf("unexpected output: %q", output)
	}
}

func TestInfow_Attributes(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Infow("batch complete", "duplicates", 2, "retained", 5)

	output := buf.String()
	for _, want := range []string{"level=INFO", `msg="batch complete"`, "duplicates=2", "retained=5"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output: %q", want, output)
		}
	}
}

func TestWarnw_Attributes(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Warnw("rejected", "id", "doc-1", "reason", "insufficient_content")

	output := buf.String()
	if !strings.Contains(output, "id=doc-1") || !strings.Contains(output, "reason=insufficient_content") {
		t.Errorf("missing attributes in output: %q", output)
	}
}

func TestSection_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Deduplicate")

	if buf.String() != "\n=== Deduplicate ===\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestDebugw_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debugw("classified", "id", "b", "state", "duplicate")

	output := buf.String()
	if !strings.Contains(output, "state=duplicate") {
		t.Errorf("unexpected output: %q", output)
	}
}
