package ui

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Markup decides how formatted bot text is emitted
type Markup struct {
	Escape func(string) string
	Link   func(text, url string) string
	Bold   func(string) string
	Strike func(string) string
	Bullet func(string) string
}

// HTMLMarkup renders for a browser widget
var HTMLMarkup = Markup{
	Escape: html.EscapeString,
	Link: func(text, url string) string {
		return `<a href="` + url + `" class="text-blue-600 hover:underline">` + text + `</a>`
	},
	Bold:   func(s string) string { return "<strong>" + s + "</strong>" },
	Strike: func(s string) string { return "<del>" + s + "</del>" },
	Bullet: func(s string) string { return `<li class="list-disc ml-4 mb-2">` + s + "</li>" },
}

// ANSIMarkup renders for a terminal
var ANSIMarkup = Markup{
	Escape: stripControl,
	Link:   func(text, url string) string { return text + " (" + url + ")" },
	Bold:   func(s string) string { return "\x1b[1m" + s + "\x1b[22m" },
	Strike: func(s string) string { return "\x1b[9m" + s + "\x1b[29m" },
	Bullet: func(s string) string { return "  • " + s },
}

// PlainMarkup drops all styling
var PlainMarkup = Markup{
	Escape: stripControl,
	Link:   func(text, url string) string { return text + " (" + url + ")" },
	Bold:   func(s string) string { return s },
	Strike: func(s string) string { return s },
	Bullet: func(s string) string { return "- " + s },
}

var (
	thousandsPattern = regexp.MustCompile(`(\d+)000đ`)
	linkPattern      = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	boldPattern      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	strikePattern    = regexp.MustCompile(`~~(.*?)~~`)
	bulletPattern    = regexp.MustCompile(`(?m)^- (.*?)$`)
)

// FormatMessage turns the assistant's markdown-ish reply into display text.
// The text is escaped first, so markup in the reply itself is never
// interpreted.
func FormatMessage(text string, m Markup) string {
	if m.Escape != nil {
		text = m.Escape(text)
	}

	text = thousandsPattern.ReplaceAllStringFunc(text, shortPrice)
	text = replaceGroups(linkPattern, text, func(g []string) string { return m.Link(g[1], g[2]) })
	text = replaceGroups(boldPattern, text, func(g []string) string { return m.Bold(g[1]) })
	text = replaceGroups(strikePattern, text, func(g []string) string { return m.Strike(g[1]) })
	text = replaceGroups(bulletPattern, text, func(g []string) string { return m.Bullet(g[1]) })
	return text
}

// shortPrice rewrites "250000đ" as "250k đ" and "1500000đ" as "1.5tr đ"
func shortPrice(match string) string {
	digits := strings.TrimSuffix(match, "000đ")
	thousands, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return match
	}
	if thousands >= 1000 {
		return strconv.FormatFloat(float64(thousands)/1000, 'f', -1, 64) + "tr đ"
	}
	return strconv.FormatInt(thousands, 10) + "k đ"
}

func replaceGroups(re *regexp.Regexp, s string, fn func([]string) string) string {
	return re.ReplaceAllStringFunc(s, func(match string) string {
		return fn(re.FindStringSubmatch(match))
	})
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
