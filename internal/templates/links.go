package templates

import (
	"html"
	"html/template"
	"strings"
)

// schemes a browser would execute instead of navigate to
var blockedSchemes = []string{"javascript:", "vbscript:", "data:"}

// LinkHref returns an href attribute carrying link exactly as stored. html/template's
// URL sanitiser would rewrite ftp:, tel: or non-ASCII links, so only script-capable
// schemes are blocked here and everything else is attribute-escaped.
func LinkHref(link string) template.HTMLAttr {
	if blockedScheme(link) {
		return `href="#"`
	}
	return template.HTMLAttr(`href="` + html.EscapeString(link) + `"`)
}

func blockedScheme(link string) bool {
	// browsers drop leading blanks and tabs/newlines anywhere in the scheme
	s := strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, link)
	s = strings.ToLower(strings.TrimLeftFunc(s, func(r rune) bool { return r <= ' ' }))
	for _, scheme := range blockedSchemes {
		if strings.HasPrefix(s, scheme) {
			return true
		}
	}
	return false
}
