package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestCLI runs CLI commands and returns output for testing
type TestCLI struct {
	t       *testing.T
	tempDir string
	dataDir string
	binPath string
	env     []string
}

// NewTestCLI creates a new test CLI instance
func NewTestCLI(t *testing.T) *TestCLI {
	t.Helper()

	tempDir := TestTempDir(t)
	dataDir := SetupTestEnvironment(t, tempDir)

	// Build the binary for testing
	binPath := filepath.Join(tempDir, "dsel")
	cmd := exec.Command("go", "build", "-o", binPath, "../../cmd/dsel")
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build test binary: %v", err)
	}

	env := []string{
		fmt.Sprintf("DATESEL_DATA_DIR=%s", dataDir),
		"HOME=" + tempDir, // Prevent reading from actual home directory
		"DATESEL_FORMAT=",
		"DATESEL_TIMEZONE=",
		"DATESEL_START=",
		"DATESEL_END=",
		"DATESEL_STYLE=",
		"DATESEL_STRICT=",
	}

	return &TestCLI{
		t:       t,
		tempDir: tempDir,
		dataDir: dataDir,
		binPath: binPath,
		env:     env,
	}
}

// Run executes a CLI command with given arguments
func (tc *TestCLI) Run(args ...string) (stdout, stderr string, err error) {
	tc.t.Helper()

	cmd := exec.Command(tc.binPath, args...)
	cmd.Env = append(os.Environ(), tc.env...)
	cmd.Dir = tc.tempDir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()

	return stdoutBuf.String(), stderrBuf.String(), err
}

// RunExpectSuccess runs a command and expects it to succeed
func (tc *TestCLI) RunExpectSuccess(args ...string) string {
	tc.t.Helper()

	stdout, stderr, err := tc.Run(args...)
	if err != nil {
		tc.t.Logf("Command failed: %s %v", strings.Join(args, " "), err)
		tc.t.Logf("STDOUT: %s", stdout)
		tc.t.Logf("STDERR: %s", stderr)
		tc.t.Fatalf("Expected command to succeed, but it failed")
	}

	return stdout
}

// RunExpectFailure runs a command and expects it to fail
func (tc *TestCLI) RunExpectFailure(args ...string) (stdout, stderr string) {
	tc.t.Helper()

	stdout, stderr, err := tc.Run(args...)
	if err == nil {
		tc.t.Logf("STDOUT: %s", stdout)
		tc.t.Fatalf("Expected command to fail, but it succeeded")
	}

	return stdout, stderr
}

var january = []string{"--format", "YYYY-MM-DD", "--timezone", "UTC", "--start", "2023-01-01", "--end", "2023-01-31"}

func withJanuary(args ...string) []string {
	return append(args, january...)
}

// TestCLI_Enumerate tests listing the selectable days
func TestCLI_Enumerate(t *testing.T) {
	cli := NewTestCLI(t)

	output := cli.RunExpectSuccess(withJanuary("enumerate")...)
	lines := strings.Split(strings.TrimSpace(output), "\n")

	if len(lines) != 31 {
		t.Fatalf("Expected 31 days, got %d: %s", len(lines), output)
	}
	if lines[0] != "2023-01-01" || lines[30] != "2023-01-31" {
		t.Errorf("Unexpected first/last day: %q, %q", lines[0], lines[30])
	}
}

// TestCLI_EnumerateJSON tests the JSON output
func TestCLI_EnumerateJSON(t *testing.T) {
	cli := NewTestCLI(t)

	output := cli.RunExpectSuccess(withJanuary("enumerate", "--output", "json")...)

	var days []struct {
		Index   int    `json:"index"`
		Instant int64  `json:"instant"`
		Label   string `json:"label"`
	}
	if err := json.Unmarshal([]byte(output), &days); err != nil {
		t.Fatalf("Failed to decode JSON output: %v\n%s", err, output)
	}
	if len(days) != 31 {
		t.Fatalf("Expected 31 days, got %d", len(days))
	}
	if days[1].Instant-days[0].Instant != 86400000 {
		t.Errorf("Expected one day between instants, got %d", days[1].Instant-days[0].Instant)
	}
	if days[14].Label != "2023-01-15" || days[14].Index != 14 {
		t.Errorf("Unexpected day 14: %+v", days[14])
	}
}

// TestCLI_EnumerateInvalidBounds tests that unparseable bounds fail
func TestCLI_EnumerateInvalidBounds(t *testing.T) {
	cli := NewTestCLI(t)

	_, stderr := cli.RunExpectFailure("enumerate", "--format", "YYYY-MM-DD", "--start", "nonsense", "--end", "2023-01-31")
	if !strings.Contains(stderr, "bounds") {
		t.Errorf("Expected bounds error, got: %s", stderr)
	}
}

// TestCLI_Index tests resolving positions
func TestCLI_Index(t *testing.T) {
	cli := NewTestCLI(t)

	tests := []struct {
		args []string
		want string
	}{
		{withJanuary("index", "2023-01-15"), "14"},
		{withJanuary("index", "2023-01-01"), "0"},
		{withJanuary("index", "2023-03-01"), "30"},
		{withJanuary("index", "2022-12-01"), "0"},
		{withJanuary("index", "2023-03-01", "--strict"), "-1"},
	}

	for _, tt := range tests {
		output := cli.RunExpectSuccess(tt.args...)
		if got := strings.TrimSpace(output); got != tt.want {
			t.Errorf("%v: expected %s, got %s", tt.args, tt.want, got)
		}
	}
}

// TestCLI_Clamp tests clamping dates into the bounds
func TestCLI_Clamp(t *testing.T) {
	cli := NewTestCLI(t)

	if got := strings.TrimSpace(cli.RunExpectSuccess(withJanuary("clamp", "2023-02-10")...)); got != "2023-01-31" {
		t.Errorf("Expected 2023-01-31, got %s", got)
	}
	if got := strings.TrimSpace(cli.RunExpectSuccess(withJanuary("clamp", "2023-01-10")...)); got != "2023-01-10" {
		t.Errorf("Expected 2023-01-10, got %s", got)
	}
}

// TestCLI_Validate tests the validation exit codes
func TestCLI_Validate(t *testing.T) {
	cli := NewTestCLI(t)

	output := cli.RunExpectSuccess(withJanuary("validate", "2023-1-5")...)
	if !strings.Contains(output, "2023-01-05") {
		t.Errorf("Expected normalized text, got: %s", output)
	}

	output, _ = cli.RunExpectFailure(withJanuary("validate", "not a date")...)
	if !strings.Contains(output, "time") {
		t.Errorf("Expected time failure, got: %s", output)
	}

	// Out of bounds only fails in strict mode
	cli.RunExpectSuccess(withJanuary("validate", "2023-03-01")...)
	output, _ = cli.RunExpectFailure(withJanuary("validate", "2023-03-01", "--strict")...)
	if !strings.Contains(output, "bounds") {
		t.Errorf("Expected bounds failure, got: %s", output)
	}
}

// TestCLI_OptionsFile tests that the options file is read
func TestCLI_OptionsFile(t *testing.T) {
	cli := NewTestCLI(t)

	WriteOptionsFile(t, cli.dataDir, `format: DD/MM/YYYY
timezone: UTC
start: 01/02/2023
end: 07/02/2023
`)

	output := cli.RunExpectSuccess("enumerate")
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 7 || lines[0] != "01/02/2023" {
		t.Errorf("Expected the first week of February, got: %s", output)
	}

	// Flags override the file
	output = cli.RunExpectSuccess("enumerate", "--end", "03/02/2023")
	if n := len(strings.Split(strings.TrimSpace(output), "\n")); n != 3 {
		t.Errorf("Expected 3 days, got %d: %s", n, output)
	}
}

// TestCLI_Help tests that help commands work properly
func TestCLI_Help(t *testing.T) {
	cli := NewTestCLI(t)

	output := cli.RunExpectSuccess("--help")

	for _, want := range []string{"date picker", "enumerate", "index", "validate", "clamp", "configure", "pick"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected help to contain %q, got: %s", want, output)
		}
	}
}

// TestCLI_InvalidCommand tests that invalid commands fail properly
func TestCLI_InvalidCommand(t *testing.T) {
	cli := NewTestCLI(t)

	_, stderr := cli.RunExpectFailure("invalid-command")
	if !strings.Contains(stderr, "unknown") {
		t.Errorf("Expected unknown command error, got: %s", stderr)
	}
}
