package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/JulianKimmig/asynctoolkit/tool"
)

// executeCommand runs a cobra command with the given args and captures stdout/stderr.
func executeCommand(root *cobra.Command, args ...string) (stdout, stderr string, err error) {
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

// writeQuietConfig writes a config that disables history and telemetry so
// tests never touch the user's home directory.
func writeQuietConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "asynctoolkit.yaml")
	content := "history:\n  enabled: false\notel:\n  enabled: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestHTTPCommandFetchesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "3" {
			t.Errorf("query = %v", r.URL.Query())
		}
		if r.Header.Get("X-Request-Source") != "cli" {
			t.Errorf("header = %q", r.Header.Get("X-Request-Source"))
		}
		io.WriteString(w, "hello from server")
	}))
	defer server.Close()

	stdout, stderr, err := executeCommand(NewRootCmd(),
		"http", server.URL,
		"--config", writeQuietConfig(t),
		"--param", "page=3",
		"-H", "X-Request-Source: cli",
	)
	if err != nil {
		t.Fatalf("http command error = %v", err)
	}
	if stdout != "hello from server" {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "200") {
		t.Errorf("stderr = %q, want status line", stderr)
	}
}

func TestHTTPCommandStreamsToFile(t *testing.T) {
	payload := strings.Repeat("chunk-data/", 1000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, payload)
	}))
	defer server.Close()

	outputPath := filepath.Join(t.TempDir(), "body.txt")
	_, _, err := executeCommand(NewRootCmd(),
		"http", server.URL,
		"--config", writeQuietConfig(t),
		"--stream",
		"--output", outputPath,
	)
	if err != nil {
		t.Fatalf("http command error = %v", err)
	}

	written, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading output file: %v", err)
	}
	if string(written) != payload {
		t.Errorf("output file has %d bytes, want %d", len(written), len(payload))
	}
}

func TestHTTPCommandFailFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, _, err := executeCommand(NewRootCmd(),
		"http", server.URL,
		"--config", writeQuietConfig(t),
		"--fail",
	)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitRuntime {
		t.Fatalf("http --fail error = %v, want ExitError(%d)", err, exitRuntime)
	}
	if !strings.Contains(exitErr.Message, "404 Client Error") {
		t.Errorf("error message = %q", exitErr.Message)
	}
}

func TestHTTPCommandRejectsDataAndJSON(t *testing.T) {
	_, _, err := executeCommand(NewRootCmd(),
		"http", "http://unit-test.local/x",
		"--config", writeQuietConfig(t),
		"--data", "a=b",
		"--json", `{"a":"b"}`,
	)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitValidation {
		t.Fatalf("error = %v, want validation ExitError", err)
	}
}

func TestInstallCommandUnknownExtension(t *testing.T) {
	_, _, err := executeCommand(NewRootCmd(),
		"install", "mypkg",
		"--config", writeQuietConfig(t),
		"--extension", "conda",
	)
	if err == nil {
		t.Fatal("install error = nil, want extension resolution failure")
	}
}

func TestToolsListShowsExtensions(t *testing.T) {
	stdout, _, err := executeCommand(NewRootCmd(),
		"tools", "list",
		"--config", writeQuietConfig(t),
	)
	if err != nil {
		t.Fatalf("tools list error = %v", err)
	}
	if !strings.Contains(stdout, "TOOL") || !strings.Contains(stdout, "http") {
		t.Errorf("tools list output = %q", stdout)
	}
	if !strings.Contains(stdout, "nethttp") {
		t.Errorf("tools list output missing http extensions: %q", stdout)
	}
}

func TestToolsHistoryReadsStore(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "history.db")
	store, err := tool.NewSQLiteStore(storePath)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	record := tool.InvocationRecord{
		ID:         "rec-1",
		Tool:       "http",
		Extension:  "nethttp",
		StartedAt:  time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC),
		DurationMS: 42,
		Success:    true,
	}
	if err := store.Append(context.Background(), record); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	stdout, _, err := executeCommand(NewRootCmd(),
		"tools", "history",
		"--config", writeQuietConfig(t),
		"--store-path", storePath,
	)
	if err != nil {
		t.Fatalf("tools history error = %v", err)
	}
	if !strings.Contains(stdout, "nethttp") || !strings.Contains(stdout, "ok") {
		t.Errorf("tools history output = %q", stdout)
	}
}

func TestToolsHistoryEmptyStore(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "history.db")

	stdout, _, err := executeCommand(NewRootCmd(),
		"tools", "history",
		"--config", writeQuietConfig(t),
		"--store-path", storePath,
	)
	if err != nil {
		t.Fatalf("tools history error = %v", err)
	}
	if !strings.Contains(stdout, "No invocations recorded") {
		t.Errorf("tools history output = %q", stdout)
	}
}
