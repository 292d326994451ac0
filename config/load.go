package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/manycore/topology"
)

// Format is a configuration file format.
type Format string

const (
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatOf guesses the format of a file from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatXML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", topology.GenerationErrorf(
			"unsupported configuration file %q, expecting .xml, .yaml or .hcl",
			path)
	}
}

// LoadFile reads a raw system from a configuration file.
func LoadFile(path string) (*topology.System, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, topology.GenerationErrorf("could not read %s: %v", path, err)
	}

	return Decode(format, path, data)
}

// Decode reads a raw system in the given format. The name is only used in
// diagnostics.
func Decode(format Format, name string, data []byte) (*topology.System, error) {
	switch format {
	case FormatXML:
		return DecodeXML(bytes.NewReader(data))
	case FormatYAML:
		return DecodeYAML(bytes.NewReader(data))
	case FormatHCL:
		return DecodeHCL(name, data)
	default:
		return nil, topology.GenerationErrorf("unsupported format %q", format)
	}
}

// Encode writes the system in the given format. HCL is read only.
func Encode(w io.Writer, format Format, sys *topology.System) error {
	switch format {
	case FormatXML:
		return EncodeXML(w, sys)
	case FormatYAML:
		return EncodeYAML(w, sys)
	default:
		return topology.GenerationErrorf("cannot encode %q", format)
	}
}
