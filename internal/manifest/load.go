package manifest

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/mimic/internal/errors"
	"github.com/AndreyAkinshin/mimic/internal/schema"
	"github.com/AndreyAkinshin/mimic/internal/testparser"
	"github.com/AndreyAkinshin/mimic/pkg/mimic"
)

// Load reads, validates and normalizes the manifest at path. Relative case
// directories are resolved against the directory containing the manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("manifest", path)
		}
		return nil, errors.Environmentf(err, "failed to read manifest %s", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Environmentf(err, "failed to resolve manifest path %s", path)
	}

	m, err := Parse(data, filepath.Dir(abs))
	if err != nil {
		return nil, err
	}
	m.Path = abs
	return m, nil
}

// Parse validates and normalizes manifest data. baseDir anchors relative
// directories.
func Parse(data []byte, baseDir string) (*Manifest, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Validation("invalid manifest YAML", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := schema.ValidateManifestValue(doc); err != nil {
		return nil, errors.Validation("invalid manifest", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Validation("invalid manifest", err)
	}

	if err := validate(&m); err != nil {
		return nil, err
	}
	applyDefaults(&m, baseDir)
	return &m, nil
}

func validate(m *Manifest) error {
	parsers := testparser.NewRegistry()
	seen := make(map[string]bool, len(m.Cases))
	for i, c := range m.Cases {
		if seen[c.Name] {
			return errors.Configf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true

		if c.Harness != "" && parsers.Get(c.Harness) == nil {
			return errors.Configf("cases[%d] %q: unknown harness %q (supported: %v)", i, c.Name, c.Harness, parsers.Formats())
		}
	}
	return nil
}

// applyDefaults fills every case from the defaults section.
func applyDefaults(m *Manifest, baseDir string) {
	iterations := m.Defaults.Iterations
	if iterations == 0 {
		iterations = DefaultIterations
	}

	for i := range m.Cases {
		c := &m.Cases[i]
		if c.Dir == "" {
			c.Dir = m.Defaults.Dir
		}
		c.Dir = resolveDir(baseDir, c.Dir)

		if c.Timeout == 0 {
			c.Timeout = m.Defaults.Timeout
		}
		if c.Iterations == 0 {
			c.Iterations = iterations
		}

		env := maps.Clone(m.Defaults.Env)
		if env == nil && c.Env != nil {
			env = make(map[string]string, len(c.Env))
		}
		maps.Copy(env, c.Env)
		c.Env = env
	}
}

func resolveDir(baseDir, dir string) string {
	if dir == "" {
		return baseDir
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(baseDir, dir)
}

// EngineCases converts the manifest entries to engine cases, in file order.
func (m *Manifest) EngineCases() []mimic.Case[Case] {
	cases := make([]mimic.Case[Case], 0, len(m.Cases))
	for _, c := range m.Cases {
		var mc mimic.Case[Case]
		if c.Bench {
			mc = mimic.NewBench(c.Name, c)
		} else {
			mc = mimic.NewTest(c.Name, c)
		}
		cases = append(cases, mc.WithKind(c.Kind).WithIgnored(c.Ignored))
	}
	return cases
}

// String describes the manifest for log messages.
func (m *Manifest) String() string {
	return fmt.Sprintf("%s (%d cases)", m.Path, len(m.Cases))
}
