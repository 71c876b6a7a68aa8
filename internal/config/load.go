package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/runloop/internal/device"
	"github.com/roach88/runloop/internal/ir"
	"github.com/roach88/runloop/internal/toolchain"
)

//go:embed schema.cue
var schemaSource string

// Format identifies a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// versionKeys are read as literal text so "10.10" is not decoded as 10.1.
var versionKeys = map[string]bool{
	ir.KeyXcode: true,
	"version":   true,
}

// document is a decoded file before conversion: top-level keys in file order.
type document struct {
	keys   []string
	values map[string]any
}

// FormatFor picks the format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", &LoadError{
		Code:    ErrCodeUnsupportedFormat,
		Message: fmt.Sprintf("unsupported configuration format %q (want .yaml, .yml or .toml)", filepath.Ext(path)),
		Path:    path,
	}
}

// Load reads, validates and converts the configuration file at path.
func Load(path string) (ir.Configuration, error) {
	format, err := FormatFor(path)
	if err != nil {
		return ir.Configuration{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ir.Configuration{}, &LoadError{Code: ErrCodeNotFound, Message: "configuration file not found", Path: path, Err: err}
	}
	if err != nil {
		return ir.Configuration{}, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading configuration: %v", err), Path: path, Err: err}
	}

	cfg, err := Parse(data, format)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return ir.Configuration{}, err
	}
	return cfg, nil
}

// Parse validates and converts configuration bytes in the given format.
func Parse(data []byte, format Format) (ir.Configuration, error) {
	var (
		doc document
		err error
	)
	switch format {
	case FormatYAML:
		doc, err = decodeYAML(data)
	case FormatTOML:
		doc, err = decodeTOML(data)
	default:
		return ir.Configuration{}, &LoadError{Code: ErrCodeUnsupportedFormat, Message: fmt.Sprintf("unsupported configuration format %q", format)}
	}
	if err != nil {
		return ir.Configuration{}, err
	}

	if err := validate(doc); err != nil {
		return ir.Configuration{}, err
	}
	return build(doc)
}

// =============================================================================
// Decoding
// =============================================================================

func decodeYAML(data []byte) (document, error) {
	doc := document{values: map[string]any{}}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return doc, parseError("yaml", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return doc, nil // empty file
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return doc, &LoadError{Code: ErrCodeParseFailed, Message: "top level must be a mapping"}
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		key := top.Content[i].Value
		if _, dup := doc.values[key]; dup {
			return doc, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("duplicate key %q on line %d", key, top.Content[i].Line)}
		}
		val, err := yamlValue(key, top.Content[i+1])
		if err != nil {
			return doc, parseError("yaml", fmt.Errorf("key %q: %w", key, err))
		}
		doc.keys = append(doc.keys, key)
		doc.values[key] = val
	}
	return doc, nil
}

func yamlValue(key string, n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(key, n.Alias)

	case yaml.ScalarNode:
		tag := n.ShortTag()
		if versionKeys[key] && tag != "!!null" {
			return n.Value, nil
		}
		switch tag {
		case "!!null":
			return nil, nil
		case "!!int":
			var i int64
			err := n.Decode(&i)
			return i, err
		case "!!bool":
			var b bool
			err := n.Decode(&b)
			return b, err
		case "!!float":
			var f float64
			err := n.Decode(&f)
			return f, err
		default:
			return n.Value, nil
		}

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue("", c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i].Value
			v, err := yamlValue(k, n.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported YAML node kind %d on line %d", n.Kind, n.Line)
}

func decodeTOML(data []byte) (document, error) {
	doc := document{values: map[string]any{}}

	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc.values)
	if err != nil {
		return doc, parseError("toml", err)
	}

	seen := make(map[string]bool, len(doc.values))
	for _, k := range md.Keys() {
		if len(k) != 1 || seen[k[0]] {
			continue
		}
		seen[k[0]] = true
		doc.keys = append(doc.keys, k[0])
	}
	return doc, nil
}

func parseError(syntax string, err error) *LoadError {
	return &LoadError{
		Code:    ErrCodeParseFailed,
		Message: fmt.Sprintf("parsing %s: %v", syntax, err),
		Err:     err,
	}
}

// =============================================================================
// Validation
// =============================================================================

func validate(doc document) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("compiling schema: %v", err), Err: err}
	}
	def := schema.LookupPath(cue.ParsePath("#Configuration"))

	val := ctx.Encode(doc.values)
	if err := val.Err(); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("encoding configuration: %v", err), Err: err}
	}

	if err := def.Unify(val).Validate(cue.Concrete(true)); err != nil {
		le := &LoadError{Code: ErrCodeSchema, Message: "configuration does not match schema", Err: err}
		for _, e := range cueerrors.Errors(err) {
			le.Details = append(le.Details, e.Error())
		}
		return le
	}
	return nil
}

// =============================================================================
// Conversion
// =============================================================================

func build(doc document) (ir.Configuration, error) {
	opts := make([]ir.Option, 0, len(doc.keys))
	for _, key := range doc.keys {
		val := doc.values[key]

		switch key {
		case ir.KeyXcode:
			x, err := buildXcode(val)
			if err != nil {
				return ir.Configuration{}, err
			}
			val = x
		case ir.KeyDevice:
			d, err := buildDevice(val)
			if err != nil {
				return ir.Configuration{}, err
			}
			val = d
		}

		opts = append(opts, ir.Opt(key, val))
	}
	return ir.NewConfiguration(opts...), nil
}

func buildXcode(val any) (*toolchain.Xcode, error) {
	s, ok := val.(string)
	if !ok {
		return nil, invalidValue(ir.KeyXcode, fmt.Sprintf("want version string, got %T", val), nil)
	}
	x, err := toolchain.Parse(s)
	if err != nil {
		return nil, invalidValue(ir.KeyXcode, err.Error(), err)
	}
	return x, nil
}

func buildDevice(val any) (*device.Device, error) {
	m, ok := val.(map[string]any)
	if !ok {
		return nil, invalidValue(ir.KeyDevice, fmt.Sprintf("want table, got %T", val), nil)
	}

	name, _ := m["name"].(string)
	udid, _ := m["udid"].(string)
	simulator, _ := m["simulator"].(bool)
	raw, _ := m["version"].(string)

	v, err := ir.ParseVersion(raw)
	if err != nil {
		return nil, invalidValue(ir.KeyDevice, err.Error(), err)
	}

	if simulator {
		return device.NewSimulator(name, udid, v), nil
	}
	return device.New(name, udid, v), nil
}

func invalidValue(key, msg string, err error) *LoadError {
	return &LoadError{
		Code:    ErrCodeInvalidValue,
		Message: fmt.Sprintf("invalid %s: %s", key, msg),
		Err:     err,
	}
}
