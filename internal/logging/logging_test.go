// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_AllSinks(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "log.json")
	textPath := filepath.Join(dir, "log.txt")
	var stderr bytes.Buffer

	logger, closeFn, err := Setup(Options{
		JSONFile:     jsonPath,
		TextFile:     textPath,
		StderrWriter: &stderr,
	})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Info("hello", "page", 3)
	logger.Debug("quiet")
	if err := closeFn(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("reading JSON sink: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(jsonData)), "\n")
	if len(lines) != 2 {
		t.Fatalf("JSON sink has %d records, want 2 (debug included)", len(lines))
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("JSON sink record is not valid JSON: %v", err)
	}
	if record["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", record["msg"])
	}
	if record["run_id"] == nil || record["run_id"] == "" {
		t.Error("record missing run_id")
	}

	textData, err := os.ReadFile(textPath)
	if err != nil {
		t.Fatalf("reading text sink: %v", err)
	}
	if !strings.Contains(string(textData), "msg=hello") {
		t.Errorf("text sink missing record: %q", textData)
	}
	if !strings.Contains(string(textData), "msg=quiet") {
		t.Errorf("text sink dropped debug record: %q", textData)
	}

	if !strings.Contains(stderr.String(), "msg=hello") {
		t.Errorf("stderr sink missing record: %q", stderr.String())
	}
	if strings.Contains(stderr.String(), "msg=quiet") {
		t.Errorf("stderr sink shows debug without verbose: %q", stderr.String())
	}
}

func TestSetup_VerboseStderr(t *testing.T) {
	var stderr bytes.Buffer
	logger, closeFn, err := Setup(Options{Verbose: true, StderrWriter: &stderr})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer closeFn()

	logger.Debug("detail")
	if !strings.Contains(stderr.String(), "msg=detail") {
		t.Errorf("verbose stderr dropped debug record: %q", stderr.String())
	}
}

func TestSetup_FileSinksDisabled(t *testing.T) {
	var stderr bytes.Buffer
	logger, closeFn, err := Setup(Options{StderrWriter: &stderr})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Info("stderr only")
	if err := closeFn(); err != nil {
		t.Fatalf("close with no files failed: %v", err)
	}
	if !strings.Contains(stderr.String(), "stderr only") {
		t.Errorf("stderr sink missing record: %q", stderr.String())
	}
}

func TestSetup_BadLogPath(t *testing.T) {
	_, _, err := Setup(Options{
		JSONFile:     filepath.Join(t.TempDir(), "missing-dir", "log.json"),
		StderrWriter: &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("Setup succeeded with unwritable JSON path")
	}
}

func TestSetup_SharedRunID(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "log.json")
	var stderr bytes.Buffer

	logger, closeFn, err := Setup(Options{JSONFile: jsonPath, StderrWriter: &stderr})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	logger.Info("first")
	logger.Info("second")
	if err := closeFn(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("reading JSON sink: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("JSON sink has %d records, want 2", len(lines))
	}
	ids := make(map[string]bool)
	for _, line := range lines {
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Fatalf("invalid JSON record: %v", err)
		}
		id, _ := record["run_id"].(string)
		if id == "" {
			t.Fatal("record missing run_id")
		}
		ids[id] = true
	}
	if len(ids) != 1 {
		t.Errorf("records carry %d distinct run ids, want 1", len(ids))
	}
}
