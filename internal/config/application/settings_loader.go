package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"hostpulse/internal/config/domain"
	"hostpulse/internal/shared/validation"
)

// LoadSettings reads the YAML settings file at path. Fields left out of the
// file keep their defaults; an empty path or a missing file yields
// domain.DefaultSettings.
func LoadSettings(path string) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}

	return ParseSettings(data)
}

// ParseSettings decodes raw YAML over the defaults and validates the result.
func ParseSettings(data []byte) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return domain.DefaultSettings(), fmt.Errorf("failed to parse settings: %w", err)
	}

	if err := validation.Validate(context.TODO(), &settings, "settings"); err != nil {
		return domain.DefaultSettings(), err
	}
	return settings, nil
}
