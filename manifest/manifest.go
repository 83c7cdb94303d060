// Package manifest loads declarative feature lists.
//
// A manifest is an ordered list of entries, each naming a feature, its
// description, its positive and negative dependencies and the detector
// that decides it. YAML, TOML and JSON encodings are accepted:
//
//	features:
//	  - name: libbpf
//	    desc: libbpf headers
//	    detect: {kind: pkgconfig}
//	  - name: bpf-lsm
//	    desc: BPF LSM
//	    deps: [os_linux]
//	    deps_neg: [seccomp-only]
//	    detect: {kind: kconfig, args: [BPF_LSM]}
//
// Entry order is significant: a feature can only depend on features
// declared before it.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/leodido/featcheck"
	"github.com/leodido/featcheck/detect"
)

// Manifest is a decoded feature list.
type Manifest struct {
	Features []Entry `yaml:"features" toml:"features" json:"features" validate:"dive"`
}

// Entry declares one feature.
type Entry struct {
	Name    string      `yaml:"name" toml:"name" json:"name" validate:"required,feature_id"`
	Desc    string      `yaml:"desc" toml:"desc" json:"desc" validate:"required"`
	Deps    []string    `yaml:"deps,omitempty" toml:"deps,omitempty" json:"deps,omitempty" validate:"omitempty,dive,feature_id"`
	DepsNeg []string    `yaml:"deps_neg,omitempty" toml:"deps_neg,omitempty" json:"deps_neg,omitempty" validate:"omitempty,dive,feature_id"`
	Detect  detect.Spec `yaml:"detect" toml:"detect" json:"detect"`
}

// Format is a manifest encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ErrUnknownFormat is returned for file extensions with no known encoding.
var ErrUnknownFormat = errors.New("unknown manifest format")

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Load reads, decodes and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	defer f.Close()

	m, err := Decode(f, format)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Decode reads a manifest in the given format. Unknown keys are rejected.
// Empty input decodes to an empty manifest. The result is not validated.
func Decode(r io.Reader, format Format) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newParseError(0, err)
	}

	var m Manifest
	switch format {
	case FormatYAML:
		err = decodeYAML(data, &m)
	case FormatTOML:
		err = decodeTOML(data, &m)
	case FormatJSON:
		err = decodeJSON(data, &m)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func decodeYAML(data []byte, m *Manifest) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return newParseError(yamlErrorLine(err), err)
	}
	return nil
}

func decodeTOML(data []byte, m *Manifest) error {
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(m)
	if err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return newParseError(perr.Position.Line, err)
		}
		return newParseError(0, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return newParseError(0, fmt.Errorf("unknown key %q", undecoded[0].String()))
	}
	return nil
}

func decodeJSON(data []byte, m *Manifest) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(m); err != nil {
		return newParseError(jsonErrorLine(data, err), err)
	}
	return nil
}

func jsonErrorLine(data []byte, err error) int {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}

// Names returns the declared feature names in order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Features))
	for _, e := range m.Features {
		names = append(names, e.Name)
	}
	return names
}

// Features builds the feature list, creating each detector through reg.
// A nil reg means [detect.NewRegistry].
func (m *Manifest) Features(reg *detect.Registry) ([]featcheck.Feature, error) {
	if reg == nil {
		reg = detect.NewRegistry()
	}

	features := make([]featcheck.Feature, 0, len(m.Features))
	for _, e := range m.Features {
		d, err := reg.Build(e.Detect)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", e.Name, err)
		}
		features = append(features, featcheck.Feature{
			Name:    e.Name,
			Desc:    e.Desc,
			Deps:    e.Deps,
			DepsNeg: e.DepsNeg,
			Detect:  d,
		})
	}
	return features, nil
}
