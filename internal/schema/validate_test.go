package schema

import (
	"strings"
	"testing"
)

func TestValidateManifest_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"minimal", `{"cases": []}`},
		{"one case", `{"cases": [{"name": "unit", "run": "go test ./..."}]}`},
		{"full", `{
			"$schema": "./manifest.schema.json",
			"defaults": {"dir": ".", "timeout": "10m", "env": {"CI": "1"}, "iterations": 5},
			"cases": [{
				"name": "bench", "kind": "perf", "run": "./bench", "ignored": true,
				"bench": true, "harness": "libtest", "iterations": 3, "timeout": "1m30s",
				"dir": "sub", "env": {"RUST_LOG": "warn"}
			}]
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateManifest([]byte(tt.data)); err != nil {
				t.Errorf("ValidateManifest() error = %v", err)
			}
		})
	}
}

func TestValidateManifest_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"not json", `cases: []`},
		{"missing cases", `{}`},
		{"missing run", `{"cases": [{"name": "unit"}]}`},
		{"empty name", `{"cases": [{"name": "", "run": "true"}]}`},
		{"unknown field", `{"cases": [{"name": "unit", "run": "true", "command": "x"}]}`},
		{"unknown root field", `{"cases": [], "targets": {}}`},
		{"bad timeout", `{"cases": [{"name": "unit", "run": "true", "timeout": "soon"}]}`},
		{"zero iterations", `{"defaults": {"iterations": 0}, "cases": []}`},
		{"env not string", `{"cases": [{"name": "unit", "run": "true", "env": {"N": 1}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateManifest([]byte(tt.data)); err == nil {
				t.Error("ValidateManifest() error = nil, want error")
			}
		})
	}
}

func TestValidateManifestValue(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"cases": []any{
			map[string]any{"name": "unit", "run": "go test ./...", "iterations": 2},
		},
	}
	if err := ValidateManifestValue(doc); err != nil {
		t.Errorf("ValidateManifestValue() error = %v", err)
	}

	doc["cases"] = "nope"
	err := ValidateManifestValue(doc)
	if err == nil || !strings.Contains(err.Error(), "manifest validation failed") {
		t.Errorf("ValidateManifestValue() error = %v, want validation failure", err)
	}
}
