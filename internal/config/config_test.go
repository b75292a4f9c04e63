package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdir changes into dir for the duration of the test, like t.Chdir
// (which needs Go 1.24; the local toolchain is older).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Error(err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.Plain {
		t.Error("Plain: got true, want false")
	}
	if strings.HasPrefix(cfg.TasksFile, "~") {
		t.Errorf("TasksFile: got %q, want ~ expanded", cfg.TasksFile)
	}
	if !strings.HasSuffix(cfg.TasksFile, filepath.Join("data", "task.csv")) {
		t.Errorf("TasksFile: got %q, want default path", cfg.TasksFile)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	content := "tasks_file = \"/tmp/elsewhere.csv\"\nlog_level = \"debug\"\nplain = true\n"
	if err := os.WriteFile(filepath.Join(dir, "todo.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TasksFile != "/tmp/elsewhere.csv" {
		t.Errorf("TasksFile: got %q", cfg.TasksFile)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if !cfg.Plain {
		t.Error("Plain: got false, want true")
	}
}

func TestLoadBadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := os.WriteFile(filepath.Join(dir, "todo.toml"), []byte("tasks_file = [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("want decode error")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := os.WriteFile(filepath.Join(dir, "todo.toml"), []byte("tasks_file = \"/tmp/from-file.csv\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODO_FILE", "/tmp/from-env.csv")
	t.Setenv("TODO_PLAIN", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TasksFile != "/tmp/from-env.csv" {
		t.Errorf("TasksFile: got %q, want env value", cfg.TasksFile)
	}
	if !cfg.Plain {
		t.Error("Plain: TODO_PLAIN=yes not applied")
	}
}

func TestBoolFromString(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", " on "} {
		if !boolFromString(v) {
			t.Errorf("boolFromString(%q): got false", v)
		}
	}
	for _, v := range []string{"0", "false", "no", ""} {
		if boolFromString(v) {
			t.Errorf("boolFromString(%q): got true", v)
		}
	}
}
