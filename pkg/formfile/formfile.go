// Package formfile reads and writes form definitions as JSON or YAML. A file
// holds either a single definition or a document with a "forms" list.
package formfile

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Format names a definition encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat reports an encoding other than JSON or YAML.
var ErrUnsupportedFormat = errors.New("formfile: unsupported format")

// Definition describes one form. ID is informational: importing always issues
// fresh ids through the store.
type Definition struct {
	ID     string              `json:"id,omitempty" yaml:"id,omitempty"`
	Name   string              `json:"name" yaml:"name"`
	Fields []model.FieldConfig `json:"fields" yaml:"fields"`
	Source string              `json:"-" yaml:"-"`
}

type documentFile struct {
	Forms []Definition `json:"forms" yaml:"forms"`
}

// ParseFormat resolves a format name, accepting "yml" as YAML.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

// DefinitionOf builds the definition of an existing form. Field ids and
// order are dropped; fields are listed in display order.
func DefinitionOf(form model.Form) Definition {
	def := Definition{
		ID:     form.ID,
		Name:   form.Name,
		Fields: make([]model.FieldConfig, 0, len(form.Fields)),
	}
	for _, field := range form.Clone().Fields {
		def.Fields = append(def.Fields, model.FieldConfig{
			Type:        field.Type,
			Label:       field.Label,
			Placeholder: field.Placeholder,
			Required:    field.Required,
			Options:     field.Options,
			Rules:       field.Rules,
		})
	}
	return def
}

// Encode renders form as a single definition in format.
func Encode(form model.Form, format Format) ([]byte, error) {
	return encode(DefinitionOf(form), format)
}

// EncodeAll renders forms as a document with a "forms" list.
func EncodeAll(forms []model.Form, format Format) ([]byte, error) {
	doc := documentFile{Forms: make([]Definition, 0, len(forms))}
	for _, form := range forms {
		doc.Forms = append(doc.Forms, DefinitionOf(form))
	}
	return encode(doc, format)
}

func encode(v any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("formfile: encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("formfile: encode yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Decode parses definitions from data, trying JSON first and YAML second.
// source labels errors and the returned definitions.
func Decode(data []byte, source string) ([]Definition, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("formfile: file %s is empty", source)
	}

	var raw map[string]any
	unmarshal := json.Unmarshal
	if err := json.Unmarshal(data, &raw); err != nil {
		if yamlErr := yaml.Unmarshal(data, &raw); yamlErr != nil {
			return nil, fmt.Errorf("formfile: parse %s: invalid JSON or YAML", source)
		}
		unmarshal = yaml.Unmarshal
	}

	var defs []Definition
	if _, ok := raw["forms"]; ok {
		var doc documentFile
		if err := unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("formfile: parse %s: %w", source, err)
		}
		defs = doc.Forms
	} else {
		var def Definition
		if err := unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("formfile: parse %s: %w", source, err)
		}
		defs = []Definition{def}
	}

	for idx := range defs {
		defs[idx].Source = source
		for fieldIdx, cfg := range defs[idx].Fields {
			if strings.TrimSpace(string(cfg.Type)) == "" {
				return nil, fmt.Errorf("formfile: %s form %q field %d has no type", source, defs[idx].Name, fieldIdx)
			}
			for _, rule := range cfg.Rules {
				if _, err := validation.ExpressionRule(rule.Expression, rule.Message); err != nil {
					return nil, fmt.Errorf("formfile: %s form %q field %d: %w", source, defs[idx].Name, fieldIdx, err)
				}
			}
		}
	}
	return defs, nil
}

// LoadFS walks fsys and decodes every JSON or YAML file. A nil fsys yields no
// definitions.
func LoadFS(fsys fs.FS) ([]Definition, error) {
	if fsys == nil {
		return nil, nil
	}
	var defs []Definition
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("formfile: read %s: %w", path, err)
		}
		parsed, err := Decode(data, path)
		if err != nil {
			return err
		}
		defs = append(defs, parsed...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

// LoadFile decodes a single file from fsys.
func LoadFile(fsys fs.FS, path string) ([]Definition, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("formfile: read %s: %w", path, err)
	}
	return Decode(data, path)
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Builder is the subset of store operations Import replays.
type Builder interface {
	CreateNewForm(name string) string
	AddField(cfg model.FieldConfig) string
	SaveForm()
}

// Import replays each definition through builder: create a form, add its
// fields in order, save. It returns the new form ids. The last imported form
// is left as the current form.
func Import(builder Builder, defs []Definition) []string {
	ids := make([]string, 0, len(defs))
	for _, def := range defs {
		id := builder.CreateNewForm(def.Name)
		for _, cfg := range def.Fields {
			builder.AddField(cfg)
		}
		builder.SaveForm()
		ids = append(ids, id)
	}
	return ids
}
