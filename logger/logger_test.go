package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"questionbank/config"
)

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(&config.Config{LogLevel: "info", LogFile: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	log.Info("questions saved")
	log.Debug("hidden at info level")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"questions saved"`) {
		t.Fatalf("expected JSON entry in log file, got %q", out)
	}
	if strings.Contains(out, "hidden at info level") {
		t.Fatalf("debug entry should be filtered at info level")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(&config.Config{LogLevel: "loud"}); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}
