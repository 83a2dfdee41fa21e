// Package testutil provides golden-file comparison for the analyzer and
// backend packages' structural snapshots (ArrayTree shapes, IR summaries).
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// UpdateGoldens controls whether to update golden files.
// Set via environment variable: UPDATE_GOLDENS=true go test ./...
var UpdateGoldens = os.Getenv("UPDATE_GOLDENS") == "true"

// GoldenFile wraps one comparison's payload. Schema pins the shape of
// Data so a golden file is self-describing without embedding anything
// about the machine that produced it (a golden must compare equal
// regardless of Go toolchain version or OS/arch).
type GoldenFile struct {
	Schema string      `json:"schema"`
	Data   interface{} `json:"data"`
}

// GetGoldenPath returns the path to a golden file.
func GetGoldenPath(feature, name string) string {
	return filepath.Join("testdata", feature, name+".golden.json")
}

// CompareWithGolden compares actual output with a golden file.
func CompareWithGolden(t *testing.T, feature, name, schema string, actual interface{}) {
	t.Helper()

	goldenPath := GetGoldenPath(feature, name)

	goldenData := GoldenFile{Schema: schema, Data: actual}
	actualJSON, err := marshalDeterministic(goldenData)
	if err != nil {
		t.Fatalf("failed to marshal actual data: %v", err)
	}

	if UpdateGoldens {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			t.Fatalf("failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(goldenPath, actualJSON, 0o644); err != nil {
			t.Fatalf("failed to write golden file: %v", err)
		}
		t.Logf("updated golden file: %s", goldenPath)
		return
	}

	expectedJSON, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden file does not exist: %s\nrun with UPDATE_GOLDENS=true to create", goldenPath)
		}
		t.Fatalf("failed to read golden file: %v", err)
	}

	if !jsonEqual(actualJSON, expectedJSON) {
		var exp, act interface{}
		json.Unmarshal(expectedJSON, &exp)
		json.Unmarshal(actualJSON, &act)
		t.Errorf("golden file mismatch for %s/%s\n%s", feature, name, DiffJSON(exp, act))
	}
}

// marshalDeterministic marshals with sorted keys and stable indentation.
func marshalDeterministic(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return json.MarshalIndent(m, "", "  ")
}

func jsonEqual(a, b []byte) bool {
	var aData, bData interface{}
	if err := json.Unmarshal(a, &aData); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bData); err != nil {
		return false
	}
	aJSON, _ := json.Marshal(aData)
	bJSON, _ := json.Marshal(bData)
	return bytes.Equal(aJSON, bJSON)
}

// DiffJSON returns a line-by-line diff between two JSON-able values, used
// by tests to render a readable mismatch without invoking an external
// diff tool.
func DiffJSON(expected, actual interface{}) string {
	expJSON, _ := json.MarshalIndent(expected, "", "  ")
	actJSON, _ := json.MarshalIndent(actual, "", "  ")

	expLines := strings.Split(string(expJSON), "\n")
	actLines := strings.Split(string(actJSON), "\n")

	var diff strings.Builder
	diff.WriteString("JSON Diff:\n")

	maxLines := len(expLines)
	if len(actLines) > maxLines {
		maxLines = len(actLines)
	}
	for i := 0; i < maxLines; i++ {
		var expLine, actLine string
		if i < len(expLines) {
			expLine = expLines[i]
		}
		if i < len(actLines) {
			actLine = actLines[i]
		}
		if expLine != actLine {
			fmt.Fprintf(&diff, "- %s\n", expLine)
			fmt.Fprintf(&diff, "+ %s\n", actLine)
		}
	}
	return diff.String()
}
