package integration

import (
	"os"
	"path/filepath"
	"testing"
)

// TestTempDir creates a temporary directory for integration tests
func TestTempDir(t *testing.T) string {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "datesel-integration-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	// Clean up temp dir after test
	t.Cleanup(func() {
		os.RemoveAll(tempDir)
	})

	return tempDir
}

// SetupTestEnvironment creates the data directory used by the binary
func SetupTestEnvironment(t *testing.T, tempDir string) string {
	t.Helper()

	dataDir := filepath.Join(tempDir, ".datesel")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatalf("Failed to create data dir: %v", err)
	}

	return dataDir
}

// WriteOptionsFile writes an options file into the data directory
func WriteOptionsFile(t *testing.T, dataDir, content string) string {
	t.Helper()

	path := filepath.Join(dataDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write options file: %v", err)
	}

	return path
}
