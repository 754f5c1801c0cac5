package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"shelfsort/internal/config"
	"shelfsort/internal/testsupport"
)

func writeConfigFile(t *testing.T, cfg *config.Config) string {
	t.Helper()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestSortCommandEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content, _ := json.Marshal(map[string]string{"a.pdf": "Fiction", "b.epub": "Science"})
		envelope := map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": string(content)}}},
		}
		json.NewEncoder(w).Encode(envelope)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.DeepSeek.APIURL = server.URL
	testsupport.WriteSourceFiles(t, cfg, "a.pdf", "b.epub")
	configPath := writeConfigFile(t, cfg)

	output, err := execute(t, "--config", configPath, "sort")
	if err != nil {
		t.Fatalf("sort: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Processed 2 of 2 files") {
		t.Fatalf("unexpected output: %s", output)
	}

	for name, category := range map[string]string{"a.pdf": "Fiction", "b.epub": "Science"} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.TargetDir, category, name)); err != nil {
			t.Fatalf("expected %s in %s: %v", name, category, err)
		}
	}

	output, err = execute(t, "--config", configPath, "tasks")
	if err != nil {
		t.Fatalf("tasks: %v\n%s", err, output)
	}
	if !strings.Contains(output, "completed") {
		t.Fatalf("expected completed task in listing: %s", output)
	}

	output, err = execute(t, "--config", configPath, "records", "Fiction")
	if err != nil {
		t.Fatalf("records: %v\n%s", err, output)
	}
	if !strings.Contains(output, "a.pdf") {
		t.Fatalf("expected a.pdf in records listing: %s", output)
	}
}

func TestSortCommandNoFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeConfigFile(t, cfg)

	output, err := execute(t, "--config", configPath, "sort")
	if err != nil {
		t.Fatalf("sort: %v\n%s", err, output)
	}
	if !strings.Contains(output, "No classifiable files found") {
		t.Fatalf("unexpected output: %s", output)
	}
}

func TestResumeWithNothingPending(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeConfigFile(t, cfg)

	output, err := execute(t, "--config", configPath, "resume")
	if err != nil {
		t.Fatalf("resume: %v\n%s", err, output)
	}
	if !strings.Contains(output, "No pending tasks to resume") {
		t.Fatalf("unexpected output: %s", output)
	}
}

func TestTasksCommandEmptyLedger(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeConfigFile(t, cfg)

	output, err := execute(t, "--config", configPath, "tasks")
	if err != nil {
		t.Fatalf("tasks: %v\n%s", err, output)
	}
	if !strings.Contains(output, "No tasks found") {
		t.Fatalf("unexpected output: %s", output)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.yaml")

	output, err := execute(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, output)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "deepseek:") {
		t.Fatalf("unexpected sample contents: %s", data)
	}

	// A second init must refuse to overwrite.
	if _, err := execute(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestNewTaskIDFormat(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	if got := newTaskID(now); got != "task_20250314_092653" {
		t.Fatalf("unexpected task id %s", got)
	}
}
