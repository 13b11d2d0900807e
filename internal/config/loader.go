package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadTheme loads the theme.
// Search order: customPath -> ~/.flatcube/theme.yaml -> ./theme.yaml -> embedded default
func LoadTheme(customPath string) (*Theme, error) {
	var t Theme

	// A custom path must exist and parse; the fallbacks are best-effort.
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read theme %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("failed to parse theme %s: %w", customPath, err)
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		return &t, nil
	}

	if userPath := userThemePath(); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if err := yaml.Unmarshal(data, &t); err == nil && t.Validate() == nil {
				return &t, nil
			}
		}
	}

	if data, err := os.ReadFile("theme.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &t); err == nil && t.Validate() == nil {
			return &t, nil
		}
	}

	if err := yaml.Unmarshal(defaultThemeYAML, &t); err != nil {
		return nil, fmt.Errorf("failed to parse embedded theme: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// userThemePath returns the path of the user theme file, or empty if home is
// unavailable.
func userThemePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flatcube", "theme.yaml")
}
