package world

import "testing"

func TestIndefArticle(t *testing.T) {
	cases := []struct{ name, want string }{
		{"torch", "a torch"},
		{"apple", "an apple"},
		{"5 gold pieces", "5 gold pieces"},
	}
	for _, c := range cases {
		if got := IndefArticle(c.name); got != c.want {
			t.Errorf("IndefArticle(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestPluralize(t *testing.T) {
	cases := []struct{ name, want string }{
		{"torch", "torches"},
		{"arrow", "arrows"},
		{"glass", "glasses"},
		{"scroll of blink", "scrolls of blink"},
		{"potion of healing", "potions of healing"},
	}
	for _, c := range cases {
		if got := Pluralize(c.name); got != c.want {
			t.Errorf("Pluralize(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestCapitalize(t *testing.T) {
	if got := Capitalize("the kobold growls"); got != "The kobold growls" {
		t.Errorf("expected a capitalized sentence, got %q", got)
	}
	if got := Capitalize(""); got != "" {
		t.Errorf("expected the empty string unchanged, got %q", got)
	}
}

func TestOrdinal(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{1, "1st"},
		{2, "2nd"},
		{3, "3rd"},
		{4, "4th"},
		{11, "11th"},
		{12, "12th"},
		{13, "13th"},
		{21, "21st"},
		{22, "22nd"},
		{103, "103rd"},
		{111, "111th"},
	}
	for _, c := range cases {
		if got := Ordinal(c.n); got != c.want {
			t.Errorf("Ordinal(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}
