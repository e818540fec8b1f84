package assistant

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const defaultTitle = "Meeting"

var (
	withPersonPattern = regexp.MustCompile(
		`(?i)\b(?:meeting|appointment|call|chat)\s+with\s+(.+?)\s*(?:\b(?:at|on|tomorrow|today|monday|tuesday|wednesday|thursday|friday|saturday|sunday|for)\b|\d)`,
	)
	quotedTitlePattern  = regexp.MustCompile(`["“]([^"”]+)["”]`)
	typedMeetingPattern = regexp.MustCompile(`(?i)\b(?:a|an)\s+([a-z0-9][a-z0-9-]*)\s+(?:meeting|call|appointment)\b`)
)

// keywordTitles is checked in order; the first keyword found wins.
var keywordTitles = []struct {
	keywords []string
	title    string
}{
	{[]string{"standup"}, "Standup Meeting"},
	{[]string{"review"}, "Review Meeting"},
	{[]string{"call"}, "Phone Call"},
	{[]string{"lunch"}, "Lunch Meeting"},
	{[]string{"coffee"}, "Coffee Chat"},
	{[]string{"interview"}, "Interview"},
	{[]string{"1:1", "1-1"}, "1:1 Meeting"},
}

// ExtractTitle derives a meeting title from free text. It never returns "".
func ExtractTitle(text string) string {
	if m := withPersonPattern.FindStringSubmatch(text); m != nil {
		if name := cleanName(m[1]); name != "" {
			return "Meeting with " + capitalize(name)
		}
	}

	if m := quotedTitlePattern.FindStringSubmatch(text); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}

	if m := typedMeetingPattern.FindStringSubmatch(text); m != nil {
		return capitalize(strings.ToLower(m[1])) + " Meeting"
	}

	lower := strings.ToLower(text)
	for _, kt := range keywordTitles {
		for _, kw := range kt.keywords {
			if strings.Contains(lower, kw) {
				return kt.title
			}
		}
	}

	return defaultTitle
}

func cleanName(raw string) string {
	return strings.TrimFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
