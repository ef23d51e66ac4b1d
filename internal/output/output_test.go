package output

import (
	"bytes"
	"strings"
	"testing"
)

// newTestWriter creates a Writer with captured output for testing.
func newTestWriter() (*Writer, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	w := &Writer{
		out:   stdout,
		err:   stderr,
		color: false, // Disable color for predictable test output
		quiet: false,
	}
	return w, stdout, stderr
}

func TestNew(t *testing.T) {
	w := New()
	if w == nil {
		t.Fatal("New() returned nil")
	}
	if w.out == nil {
		t.Error("out writer is nil")
	}
	if w.err == nil {
		t.Error("err writer is nil")
	}
}

func TestWriter_Println(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Println("hello %s", "world")

	if got := stdout.String(); got != "hello world\n" {
		t.Errorf("Println() = %q, want %q", got, "hello world\n")
	}
}

func TestWriter_Errorln(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.Errorln("error %d", 42)

	if got := stderr.String(); got != "error 42\n" {
		t.Errorf("Errorln() = %q, want %q", got, "error 42\n")
	}
}

func TestWriter_Info_QuietSuppresses(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.SetQuiet(true)
	w.Info("should not appear")

	if stdout.Len() != 0 {
		t.Errorf("Info() in quiet mode wrote %q, want empty", stdout.String())
	}
}

func TestWriter_Detail_OnlyInVerbose(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Detail("hidden")
	if stdout.Len() != 0 {
		t.Errorf("Detail() without verbose wrote %q, want empty", stdout.String())
	}

	w.SetVerbose(true)
	w.Detail("shown")
	if got := stdout.String(); got != "shown\n" {
		t.Errorf("Detail() in verbose mode = %q, want %q", got, "shown\n")
	}
}

func TestWriter_Warning_GoesToStderr(t *testing.T) {
	w, stdout, stderr := newTestWriter()

	w.Warning("pattern not matched in %s", "const.py")

	if stdout.Len() != 0 {
		t.Errorf("Warning() wrote to stdout: %q", stdout.String())
	}
	if got := stderr.String(); got != "warning: pattern not matched in const.py\n" {
		t.Errorf("Warning() = %q", got)
	}
}

func TestWriter_Step(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Step(1, "Stamping version %s", "1.3.0")
	w.StepDetail("manifest.json")

	got := stdout.String()
	if !strings.Contains(got, "1. Stamping version 1.3.0") {
		t.Errorf("Step() output = %q", got)
	}
	if !strings.Contains(got, "   - manifest.json") {
		t.Errorf("StepDetail() output = %q", got)
	}
}

func TestWriter_Step_QuietSuppresses(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.SetQuiet(true)
	w.Step(1, "hidden")
	w.StepDetail("hidden")

	if stdout.Len() != 0 {
		t.Errorf("Step() in quiet mode wrote %q, want empty", stdout.String())
	}
}

func TestWriter_ErrorPrefix(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.ErrorPrefix("archive: %v", "source directory missing")

	if got := stderr.String(); got != "relpack: archive: source directory missing\n" {
		t.Errorf("ErrorPrefix() = %q", got)
	}
}

func TestWriter_DryRunBanners(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.DryRunStart()
	w.DryRunEnd()

	got := stdout.String()
	if !strings.Contains(got, "=== DRY RUN ===") {
		t.Errorf("DryRunStart() output = %q", got)
	}
	if !strings.Contains(got, "=== END DRY RUN ===") {
		t.Errorf("DryRunEnd() output = %q", got)
	}
}

func TestWriter_ColorPlaceholders(t *testing.T) {
	w := &Writer{color: true}

	got := w.colorPlaceholders("relpack stamp <tag>")
	if !strings.Contains(got, colorPlaceholder+"<tag>") {
		t.Errorf("colorPlaceholders() = %q, want placeholder colored", got)
	}

	// Text without placeholders passes through unchanged
	plain := w.colorPlaceholders("no placeholders here")
	if plain != "no placeholders here" {
		t.Errorf("colorPlaceholders() = %q, want unchanged", plain)
	}
}

func TestWriter_HelpCommand_NoColor(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.HelpCommand("stamp", "Rewrite version strings", 10)

	if got := stdout.String(); got != "  stamp       Rewrite version strings\n" {
		t.Errorf("HelpCommand() = %q", got)
	}
}
