package config

import _ "embed"

// Default theme embedded at compile time, so the binary runs without any
// config files present.

//go:embed defaults/theme.yaml
var defaultThemeYAML []byte
