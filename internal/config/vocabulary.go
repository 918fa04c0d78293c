package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/item-ocr-mcp/internal/item"
)

// ErrUnsupportedFormat is returned for vocabulary files that are neither TOML
// nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported vocabulary file format")

// vocabularyFile is the on-disk form of item.Vocabulary. Omitted keys keep
// the Korean defaults; type_labels replaces the default list when present.
type vocabularyFile struct {
	UnknownName string   `toml:"unknown_name" yaml:"unknown_name"`
	OtherType   string   `toml:"other_type" yaml:"other_type"`
	PowerLabel  string   `toml:"power_label" yaml:"power_label"`
	LevelLabel  string   `toml:"level_label" yaml:"level_label"`
	GradeMarker string   `toml:"grade_marker" yaml:"grade_marker"`
	TypeLabels  []string `toml:"type_labels" yaml:"type_labels"`
}

// LoadVocabulary reads a parser vocabulary from a .toml, .yaml or .yml file.
// An empty path returns item.DefaultVocabulary.
func LoadVocabulary(path string) (item.Vocabulary, error) {
	if path == "" {
		return item.DefaultVocabulary(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return item.Vocabulary{}, fmt.Errorf("failed to read vocabulary: %w", err)
	}

	var vf vocabularyFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&vf)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&vf)
		// An empty YAML document decodes to nothing.
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return item.Vocabulary{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return item.Vocabulary{}, fmt.Errorf("failed to parse vocabulary %s: %w", path, err)
	}

	return vf.merge(item.DefaultVocabulary()), nil
}

func (vf vocabularyFile) merge(v item.Vocabulary) item.Vocabulary {
	set := func(dst *string, src string) {
		if src = strings.TrimSpace(src); src != "" {
			*dst = src
		}
	}
	set(&v.UnknownName, vf.UnknownName)
	set(&v.OtherType, vf.OtherType)
	set(&v.PowerLabel, vf.PowerLabel)
	set(&v.LevelLabel, vf.LevelLabel)
	set(&v.GradeMarker, vf.GradeMarker)

	labels := make([]string, 0, len(vf.TypeLabels))
	for _, l := range vf.TypeLabels {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	if len(labels) > 0 {
		v.TypeLabels = labels
	}
	return v
}
