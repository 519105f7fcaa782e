package presets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

var templateVar = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Loader handles loading and parsing of the presets file
type Loader struct {
	filePath string
}

// NewLoader creates a new presets loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the presets file
func (l *Loader) Load() (Config, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read presets file: %w", err)
	}

	data = expandTemplateVariables(data, os.Getenv)

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to parse presets yaml: %w", err)
	}

	return cfg, nil
}

// expandTemplateVariables replaces {{NAME}} with the quoted value of the
// environment variable NAME, or "" when it is unset.
// Example: org: {{QRGEN_ORG}} -> org: "Acme"
func expandTemplateVariables(data []byte, getenv func(string) string) []byte {
	return templateVar.ReplaceAllFunc(data, func(m []byte) []byte {
		name := templateVar.FindSubmatch(m)[1]
		return []byte(strconv.Quote(getenv(string(name))))
	})
}
