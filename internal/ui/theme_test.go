package ui

import "testing"

func TestGetTheme_FallsBackToNightfox(t *testing.T) {
	if got := GetTheme("Kanagawa").Name; got != "Kanagawa" {
		t.Fatalf("GetTheme(Kanagawa) = %q", got)
	}
	if got := GetTheme(" Slate ").Name; got != "Slate" {
		t.Fatalf("GetTheme trims name: got %q", got)
	}
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(unknown) = %q, want Nightfox", got)
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	name := "Nightfox"
	seen := map[string]bool{}
	for range ThemeNames() {
		seen[name] = true
		name = NextTheme(name)
	}
	if name != "Nightfox" || len(seen) != len(ThemeNames()) {
		t.Fatalf("cycle ended at %q after visiting %v", name, seen)
	}
	if NextTheme("unknown") != "Nightfox" {
		t.Fatalf("NextTheme(unknown) should restart the cycle")
	}
}

func TestThemes_DefineEveryFetchStatus(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, status := range []string{"idle", "loading", "loaded", "failed"} {
			if th.StatusColors[status] == "" {
				t.Fatalf("theme %s missing status color %q", name, status)
			}
		}
		if th.Bar == "" {
			t.Fatalf("theme %s missing bar color", name)
		}
	}
}
