// Package dataset loads the records a batch renders previews for.
package dataset

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/socialimages/pkg/pipeline"
)

// Format is the encoding of a data file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// String returns the string representation of the format.
func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// DetectFormat picks the format from the file extension. Anything other
// than .yaml or .yml is read as JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a top-level sequence of records. Unknown keys are ignored.
// Every record needs a bare file name as imgName; titles may be empty.
func Parse(data []byte, format Format) ([]pipeline.Record, error) {
	var records []pipeline.Record

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", pipeline.ErrInvalidDataFile, err)
		}
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", pipeline.ErrInvalidDataFile, err)
		}
	}

	for i, r := range records {
		if r.ImgName == "" {
			return nil, fmt.Errorf("%w: record %d has no imgName", pipeline.ErrInvalidDataFile, i)
		}
		if !bareName(r.ImgName) {
			return nil, fmt.Errorf("%w: record %d imgName %q is not a bare file name", pipeline.ErrInvalidDataFile, i, r.ImgName)
		}
	}

	if records == nil {
		records = []pipeline.Record{}
	}
	return records, nil
}

// bareName reports whether name stays inside the directory it is joined to.
func bareName(name string) bool {
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return filepath.Base(name) == name
}
