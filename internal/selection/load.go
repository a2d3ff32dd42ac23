// Package selection reads rebar selections from JSON, TOML and XLSX files
// and exposes them to the mass engine as rebar geometry.
package selection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Format identifies a selection file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatXLSX Format = "xlsx"
)

// FormatOf returns the format implied by a file name's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported selection file %q (expected .json, .toml or .xlsx)", path)
}

// LoadFromFile loads a selection definition from a JSON, TOML or XLSX file
func LoadFromFile(path string) (*Selection, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sel, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sel.Name == "" {
		sel.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	slog.Debug("selection loaded", "path", path, "format", format, "rebars", len(sel.Rebars))
	return sel, nil
}

// Decode reads and validates a selection in the given format.
func Decode(r io.Reader, format Format) (*Selection, error) {
	var sel *Selection
	var err error

	switch format {
	case FormatJSON:
		sel = &Selection{}
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(sel)
	case FormatTOML:
		sel = &Selection{}
		err = toml.NewDecoder(r).DisallowUnknownFields().Decode(sel)
	case FormatXLSX:
		sel, err = decodeXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported selection format %q", format)
	}
	if err != nil {
		return nil, err
	}

	sel.assignIDs()
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	return sel, nil
}

// Parse decodes a selection held in memory.
func Parse(data []byte, format Format) (*Selection, error) {
	return Decode(bytes.NewReader(data), format)
}

// assignIDs names elements that were given no id after their position in
// the file.
func (s *Selection) assignIDs() {
	for i := range s.Rebars {
		if s.Rebars[i].ID == "" {
			s.Rebars[i].ID = fmt.Sprintf("rebar-%d", i+1)
		}
	}
}
