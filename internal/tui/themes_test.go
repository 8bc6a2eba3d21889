package tui

import "testing"

func TestThemeByName(t *testing.T) {
	tests := []struct {
		name   string
		wantOK bool
	}{
		{"dark", true},
		{"light", true},
		{"solarized", false},
		{"", false},
	}

	for _, tt := range tests {
		theme, ok := ThemeByName(tt.name)
		if ok != tt.wantOK {
			t.Errorf("ThemeByName(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			continue
		}
		if ok && theme.Name != tt.name {
			t.Errorf("ThemeByName(%q).Name = %q", tt.name, theme.Name)
		}
	}
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() {
		SetTheme("dark")
		UpdateTheme()
	})

	if !SetTheme("light") {
		t.Fatal("SetTheme(light) should succeed")
	}
	if CurrentTheme().Name != "light" {
		t.Errorf("CurrentTheme().Name = %q, want %q", CurrentTheme().Name, "light")
	}

	if SetTheme("no-such-theme") {
		t.Error("unknown theme name should be rejected")
	}
	if CurrentTheme().Name != "light" {
		t.Error("a rejected name should leave the current theme alone")
	}
}

func TestThemeNames(t *testing.T) {
	names := ThemeNames()

	if len(names) != 2 {
		t.Fatalf("ThemeNames() has %d entries, want 2", len(names))
	}
	if names[0] != "dark" || names[1] != "light" {
		t.Errorf("ThemeNames() = %v, want [dark light]", names)
	}
}

func TestAvailableThemes(t *testing.T) {
	for _, theme := range AvailableThemes() {
		if theme.Name == "" {
			t.Error("every theme needs a name")
		}
		if theme.Description == "" {
			t.Errorf("theme %q needs a description", theme.Name)
		}
		if theme.Background == "" || theme.Text == "" {
			t.Errorf("theme %q is missing core colors", theme.Name)
		}
	}
}

func TestUpdateThemeRebuildsStyles(t *testing.T) {
	t.Cleanup(func() {
		SetTheme("dark")
		UpdateTheme()
	})

	SetTheme("light")
	UpdateTheme()
	if colorPrimary != LightTheme.Primary {
		t.Errorf("colorPrimary = %v, want the light primary %v", colorPrimary, LightTheme.Primary)
	}

	SetTheme("dark")
	UpdateTheme()
	if colorPrimary != DarkTheme.Primary {
		t.Errorf("colorPrimary = %v, want the dark primary %v", colorPrimary, DarkTheme.Primary)
	}
}
