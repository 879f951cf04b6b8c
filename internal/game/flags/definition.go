package flags

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Def is the static definition of a flag, loaded from YAML.
type Def struct {
	Key         string   `yaml:"key"`
	Description string   `yaml:"description"`
	Patterns    []string `yaml:"patterns"`
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Def and
// registers it on reg.
//
// Precondition: dir must be a readable directory; reg must not be nil.
// Postcondition: Returns the loaded definitions, or an error naming the first
// file that failed to read, parse or compile.
func LoadDirectory(dir string, reg *Registry) ([]Def, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading flag dir %q: %w", dir, err)
	}
	var defs []Def
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if def.Key == "" {
			return nil, fmt.Errorf("parsing %q: key is required", path)
		}
		if err := reg.Register(def.Key, def.Patterns...); err != nil {
			return nil, fmt.Errorf("registering %q: %w", path, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}
