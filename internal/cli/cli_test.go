package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return buf.String()
}

func TestExtractCommand(t *testing.T) {
	out := execute(t, "extract", "Flight AB123 JFK-LAX 2025-03-10 14:30 REF: XYZ1234")

	for _, want := range []string{"free text", "AB123", "JFK-LAX", "XYZ1234", "2025-03-10"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestExtractCommandRejectsBadFallback(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"extract", "--fallback", "tomorrow", "anything"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error for invalid fallback timestamp")
	}
	// Reset the persistent flag for other tests.
	rootCmd.SetArgs(nil)
}

func TestSuggestCommand(t *testing.T) {
	planYAML := `title: Catch the evening flight
regime: hard
boundary: 2030-06-10T19:30:00Z
context: Fly to the conference
documents:
  - type: flight_itinerary
    reference_code: XYZ1234
`
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte(planYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	out := execute(t, "suggest", path)

	if !strings.Contains(out, "flight_itinerary") {
		t.Errorf("output missing flight_itinerary suggestion:\n%s", out)
	}
	if !strings.Contains(out, "[x] flight_itinerary") {
		t.Errorf("linked itinerary not marked:\n%s", out)
	}
	if !strings.Contains(out, "Readiness:") {
		t.Errorf("output missing readiness line:\n%s", out)
	}
}

func TestVersionFlag(t *testing.T) {
	out := execute(t, "--version")
	if !strings.Contains(out, "triaia") {
		t.Errorf("--version output = %q", out)
	}
}
