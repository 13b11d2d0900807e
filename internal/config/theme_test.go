package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func defaultTheme(t *testing.T) *Theme {
	t.Helper()
	var th Theme
	if err := yaml.Unmarshal(defaultThemeYAML, &th); err != nil {
		t.Fatalf("embedded theme does not parse: %v", err)
	}
	return &th
}

func TestDefaultThemeValid(t *testing.T) {
	th := defaultTheme(t)
	if err := th.Validate(); err != nil {
		t.Fatalf("embedded theme invalid: %v", err)
	}
	if th.MaxDim() != 10 {
		t.Errorf("MaxDim = %d, want 10", th.MaxDim())
	}
	if th.MaxLayers() != 19 {
		t.Errorf("MaxLayers = %d, want 19", th.MaxLayers())
	}
	if th.SideKeyDims() != 6 {
		t.Errorf("SideKeyDims = %d, want 6", th.SideKeyDims())
	}
	if th.DamageRepeat != 5 || th.AlertFrames != 4 {
		t.Errorf("damage_repeat=%d alert_frames=%d, want 5 and 4", th.DamageRepeat, th.AlertFrames)
	}
}

func TestDefaultThemeKeys(t *testing.T) {
	th := defaultTheme(t)

	if got := string(th.PosNames()); got != "RUFOAΓΘΞΣΨ" {
		t.Errorf("pos names = %q", got)
	}
	if got := string(th.NegNames()); got != "LDBIPΔΛΠΦΩ" {
		t.Errorf("neg names = %q", got)
	}
	if got := string(th.PosKeys()); got != "fertvynq,/" {
		t.Errorf("pos select keys = %q", got)
	}
	if got := string(th.NegKeys()); got != "sdwgchbam." {
		t.Errorf("neg select keys = %q", got)
	}
	if got := string(th.AxisKeys()); got != "kjliuop;['" {
		t.Errorf("axis keys = %q", got)
	}
	if got := string(th.LayerKeys()); got != "123456789" {
		t.Errorf("layer keys = %q", got)
	}
	if KeyRune(th.Keys.KeybindMode) != '\\' || KeyRune(th.Keys.AxisMode) != '|' {
		t.Error("mode keys wrong")
	}
}

func TestValidateRejectsBadThemes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Theme)
	}{
		{"no axes", func(th *Theme) { th.Axes = nil }},
		{"multi-rune key", func(th *Theme) { th.Axes[0].Pos.Keys.Select = "fg" }},
		{"bad color", func(th *Theme) { th.Axes[2].Neg.Color = "zzz" }},
		{"no layer keys", func(th *Theme) { th.Keys.Layers = nil }},
		{"zero damage repeat", func(th *Theme) { th.DamageRepeat = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := defaultTheme(t)
			tt.mutate(th)
			if th.Validate() == nil {
				t.Error("Validate accepted a broken theme")
			}
		})
	}
}

func TestLoadThemeCustomPath(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "theme.yaml")
	if err := os.WriteFile(path, defaultThemeYAML, 0o600); err != nil {
		t.Fatal(err)
	}
	th, err := LoadTheme(path)
	if err != nil {
		t.Fatalf("LoadTheme(%s): %v", path, err)
	}
	if th.MaxDim() != 10 {
		t.Errorf("MaxDim = %d, want 10", th.MaxDim())
	}

	if _, err := LoadTheme(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadTheme with a missing custom path succeeded")
	}
}
