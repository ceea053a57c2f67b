package template

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/menupress/menupress/pkg/errors"
)

// Parse decodes a JSON template definition, applies defaults, and
// validates it.
func Parse(data []byte) (*Template, error) {
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "decode template JSON")
	}
	return finish(&t)
}

// ParseTOML decodes a TOML template definition, applies defaults, and
// validates it.
func ParseTOML(data []byte) (*Template, error) {
	var t Template
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "decode template TOML")
	}
	return finish(&t)
}

// LoadFile reads a template from disk, selecting the decoder by file
// extension (.toml or .json).
func LoadFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeTemplateNotFound, err, "template file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "read template file %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOML(data)
	case ".json":
		return Parse(data)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported template format %q (use .toml or .json)", filepath.Ext(path))
	}
}

// Marshal encodes a template as indented JSON.
func Marshal(t *Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

func finish(t *Template) (*Template, error) {
	t.ApplyDefaults()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
