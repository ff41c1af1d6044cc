package world

import (
	"strconv"
	"strings"
)

// DefArticle prefixes the definite article: "the goblin".
func DefArticle(name string) string { return "the " + name }

// IndefArticle prefixes a or an, chosen by the leading letter. Names
// that already begin with a count ("5 gold pieces") take no article.
func IndefArticle(name string) string {
	if name == "" {
		return name
	}
	switch name[0] {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return "an " + name
	}
	if name[0] >= '0' && name[0] <= '9' {
		return name
	}
	return "a " + name
}

// Pluralize forms a naive English plural. Names shaped like "scroll of
// blink" pluralize the head noun: "scrolls of blink".
func Pluralize(name string) string {
	head, tail := name, ""
	if idx := strings.Index(name, " of "); idx >= 0 {
		head, tail = name[:idx], name[idx:]
	}
	if strings.HasSuffix(head, "s") || strings.HasSuffix(head, "x") || strings.HasSuffix(head, "ch") {
		return head + "es" + tail
	}
	return head + "s" + tail
}

// Capitalize upper-cases the first letter, for names opening a sentence.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Ordinal spells a number as an English ordinal: 1st, 2nd, 22nd. The
// teens all take th.
func Ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
