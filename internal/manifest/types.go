// Package manifest loads the YAML file describing the cases mimic-exec runs.
package manifest

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values.
const (
	DefaultFile       = "mimic.yaml"
	DefaultIterations = 10
)

// Duration is a time.Duration written as a Go duration string ("90s").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", node.Line, s, err)
	}
	*d = Duration(v)
	return nil
}

// Defaults apply to every case that does not set the field itself.
type Defaults struct {
	Dir        string            `yaml:"dir"`
	Timeout    Duration          `yaml:"timeout"`
	Env        map[string]string `yaml:"env"`
	Iterations int               `yaml:"iterations"`
}

// Case is one entry of the manifest.
type Case struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Run     string `yaml:"run"` // shell-quoted command line
	Ignored bool   `yaml:"ignored"`
	Bench   bool   `yaml:"bench"`
	// Harness names the report format of the command's output (see
	// testparser.Registry). Empty means only the exit status counts.
	Harness    string            `yaml:"harness"`
	Iterations int               `yaml:"iterations"`
	Timeout    Duration          `yaml:"timeout"`
	Dir        string            `yaml:"dir"`
	Env        map[string]string `yaml:"env"`
}

// Manifest is a loaded manifest with defaults applied to every case.
type Manifest struct {
	Path     string   `yaml:"-"`
	Defaults Defaults `yaml:"defaults"`
	Cases    []Case   `yaml:"cases"`
}
