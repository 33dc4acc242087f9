package ui

import "testing"

func TestNextThemeCycles(t *testing.T) {
	names := ThemeNames()
	for i, name := range names {
		want := names[(i+1)%len(names)]
		if got := NextTheme(name); got != want {
			t.Fatalf("NextTheme(%q) = %q, want %q", name, got, want)
		}
	}
	if got := NextTheme("missing"); got != names[0] {
		t.Fatalf("NextTheme(missing) = %q, want %q", got, names[0])
	}
}

func TestGetThemeFallsBack(t *testing.T) {
	if got := GetTheme("Kanagawa").Name; got != "Kanagawa" {
		t.Fatalf("GetTheme(Kanagawa) = %q", got)
	}
	if got := GetTheme("nope").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(nope) = %q, want Nightfox", got)
	}
}

func TestTruncateAndPad(t *testing.T) {
	if got := truncate("  hello world ", 8); got != "hello..." {
		t.Fatalf("truncate = %q, want %q", got, "hello...")
	}
	if got := truncate("abc", 2); got != "ab" {
		t.Fatalf("truncate short limit = %q, want %q", got, "ab")
	}
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q, want %q", got, "ab  ")
	}
	if got := singleLine("a\nb   c"); got != "a b c" {
		t.Fatalf("singleLine = %q, want %q", got, "a b c")
	}
}

func TestListWindowKeepsCursorVisible(t *testing.T) {
	cases := []struct {
		cursor, total, visible, want int
	}{
		{0, 3, 10, 0},
		{0, 20, 5, 0},
		{4, 20, 5, 0},
		{5, 20, 5, 1},
		{19, 20, 5, 15},
	}
	for _, tc := range cases {
		if got := listWindow(tc.cursor, tc.total, tc.visible); got != tc.want {
			t.Fatalf("listWindow(%d,%d,%d) = %d, want %d", tc.cursor, tc.total, tc.visible, got, tc.want)
		}
	}
}
