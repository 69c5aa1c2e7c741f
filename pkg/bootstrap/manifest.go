package bootstrap

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type yamlManifest struct {
	Actions ActionList `yaml:"actions"`
}

// LoadManifest reads an action table from a YAML (.yml, .yaml) or Starlark (.star) file.
// The returned list has already been validated.
func LoadManifest(ctx context.Context, path string) (ActionList, error) {
	var (
		actions ActionList
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		actions, err = loadYAMLManifest(path)
	case ".star":
		actions, err = loadStarlarkManifest(ctx, path)
	default:
		return nil, eris.Errorf("unsupported manifest format %s (expected .yml, .yaml or .star)", path)
	}
	if err != nil {
		return nil, err
	}

	if len(actions) == 0 {
		return nil, eris.Errorf("%s doesn't declare any actions", path)
	}

	if err = actions.Validate(); err != nil {
		return nil, eris.Wrapf(err, "invalid manifest %s", path)
	}

	return actions, nil
}

func loadYAMLManifest(path string) (ActionList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read %s", path)
	}

	var manifest yamlManifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	err = decoder.Decode(&manifest)
	if err != nil && err != io.EOF {
		return nil, eris.Wrapf(err, "failed to parse %s", path)
	}

	return manifest.Actions, nil
}
