package dialog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// templateFile is the on-disk override format: one key per entry, each with
// a list of phrasing variants.
//
// Example:
//
//	templates:
//	  weight:
//	    - "{pokemon} weighs in at {kilograms} kilograms."
//	  flavor:
//	    - "{text}"
type templateFile struct {
	Templates map[string][]string `yaml:"templates"`
}

// LoadFile reads a YAML template file and merges its entries over the
// renderer's current sets. A key present in the file replaces the built-in
// variants for that key entirely.
func (r *Renderer) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("dialog: open template file %q: %w", path, err)
	}
	defer f.Close()

	if err := r.LoadFromReader(f); err != nil {
		return fmt.Errorf("dialog: parse template file %q: %w", path, err)
	}
	return nil
}

// LoadFromReader parses template YAML from an [io.Reader] and merges it.
// Must be called before the renderer is shared across goroutines.
func (r *Renderer) LoadFromReader(reader io.Reader) error {
	var tf templateFile
	dec := yaml.NewDecoder(reader)
	dec.KnownFields(true)
	if err := dec.Decode(&tf); err != nil {
		return fmt.Errorf("dialog: decode yaml: %w", err)
	}

	for key, variants := range tf.Templates {
		if len(variants) == 0 {
			return fmt.Errorf("dialog: key %q has no variants", key)
		}
		r.templates[key] = variants
	}
	return nil
}
