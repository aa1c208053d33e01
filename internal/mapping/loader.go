package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the schema version written by Marshal.
const CurrentVersion = "1"

// Format is the serialization of a mapping file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var ErrUnknownFormat = errors.New("unknown mapping format")

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// LoadFile loads and parses a mapping file from the given path.
func LoadFile(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return Parse(data, format)
}

// Parse parses data in the given format. Unknown keys are rejected.
func Parse(data []byte, format Format) (*File, error) {
	var mf File

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)

		// an empty document decodes to the zero File
		if err := dec.Decode(&mf); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
		}

	case FormatTOML:
		md, err := toml.Decode(string(data), &mf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse mapping TOML: %w", err)
		}

		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("failed to parse mapping TOML: unknown keys %v", undecoded)
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(mf *File) {
	if mf.Version == "" {
		mf.Version = CurrentVersion
	}
}

// Marshal serializes a File in the given format.
func Marshal(mf *File, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(mf)

	case FormatTOML:
		var buf bytes.Buffer

		if err := toml.NewEncoder(&buf).Encode(mf); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile writes a File to the given path in the format its extension names.
func WriteFile(mf *File, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	data, err := Marshal(mf, format)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}
