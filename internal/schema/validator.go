// Package schema validates configuration documents against embedded
// CUE schemas before they are unmarshaled, so malformed weight tables
// fail with a schema-level message instead of a scoring-time surprise.
package schema

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	yamlv3 "gopkg.in/yaml.v3"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// ValidationError is one schema violation in a config document.
type ValidationError struct {
	File    string
	Message string
}

// Validator checks config documents against the embedded CUE schemas.
type Validator struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates an empty Validator; call LoadSchemas before use.
func NewValidator() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

// LoadSchemas compiles all embedded .cue schema files.
func (v *Validator) LoadSchemas() error {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("reading embedded schemas: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile(filepath.Join("schemas", entry.Name()))
		if err != nil {
			return fmt.Errorf("reading schema %s: %w", entry.Name(), err)
		}
		inst := v.ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if instErr := inst.Err(); instErr != nil {
			return fmt.Errorf("compiling schema %s: %w", entry.Name(), instErr)
		}
		name := strings.TrimSuffix(entry.Name(), ".cue")
		v.schemas[name] = inst.Value()
	}

	if len(v.schemas) == 0 {
		return fmt.Errorf("no CUE schemas embedded")
	}
	return nil
}

// ValidateFile validates a YAML config document against the schema
// matching its base name (weights.yaml -> weights.cue). Documents with
// no matching schema pass.
func (v *Validator) ValidateFile(path string) []ValidationError {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	schema, ok := v.schemas[name]
	if !ok {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return []ValidationError{{File: path, Message: err.Error()}}
	}

	var data map[string]any
	if err := yamlv3.Unmarshal(raw, &data); err != nil {
		return []ValidationError{{File: path, Message: fmt.Sprintf("parsing YAML: %v", err)}}
	}

	return v.validate(schema, data, name, path)
}

// ValidateData validates an already-parsed document against a named schema.
func (v *Validator) ValidateData(name string, data map[string]any) []ValidationError {
	schema, ok := v.schemas[name]
	if !ok {
		return nil
	}
	return v.validate(schema, data, name, "")
}

func (v *Validator) validate(schema cue.Value, data map[string]any, name, path string) []ValidationError {
	dataValue := v.ctx.Encode(data)
	if encErr := dataValue.Err(); encErr != nil {
		return []ValidationError{{File: path, Message: fmt.Sprintf("encoding document: %v", encErr)}}
	}

	defPath := cue.ParsePath("#" + strings.ToUpper(name[:1]) + name[1:])
	def := schema.LookupPath(defPath)
	if !def.Exists() {
		return nil
	}

	unified := def.Unify(dataValue)
	if err := unified.Err(); err != nil {
		return []ValidationError{{File: path, Message: err.Error()}}
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return []ValidationError{{File: path, Message: err.Error()}}
	}
	return nil
}
