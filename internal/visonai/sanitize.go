package visonai

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/net/html"
)

// Sanitizers never fail: invalid input degrades to an empty value.

var (
	validate = validator.New() //nolint:gochecknoglobals

	// phpFileRe keeps "index.php?x" style values relative instead of prefixing http://.
	phpFileRe = regexp.MustCompile(`(?i)^[a-z0-9-]+?\.php`)

	percentOctetRe = regexp.MustCompile(`(?i)%[a-f0-9]{2}`)
	whitespaceRe   = regexp.MustCompile(`[\r\n\t ]+`)
	spacesRe       = regexp.MustCompile(` +`)

	schemeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*$`)

	allowedProtocols = map[string]bool{ //nolint:gochecknoglobals
		"http": true, "https": true, "ftp": true, "ftps": true, "mailto": true,
		"news": true, "irc": true, "irc6": true, "ircs": true, "gopher": true,
		"nntp": true, "feed": true, "telnet": true, "mms": true, "rtsp": true,
		"sms": true, "svn": true, "tel": true, "fax": true, "xmpp": true,
		"webcal": true, "urn": true,
	}
)

// phpTrimSet matches the characters PHP's trim() removes.
const phpTrimSet = " \t\n\r\x00\x0B"

// SanitizeToken cleans a submitted API token. Tokens are free-form text.
func SanitizeToken(raw string) string {
	return SanitizeText(raw)
}

// SanitizeText reduces raw to a single line of plain text: tags and control
// characters are removed, whitespace runs collapse to one space, percent
// encoded octets are dropped and the result is trimmed.
func SanitizeText(raw string) string {
	return sanitizeTextField(raw, false)
}

// SanitizeTextarea is SanitizeText that keeps line breaks.
func SanitizeTextarea(raw string) string {
	return sanitizeTextField(raw, true)
}

func sanitizeTextField(raw string, keepNewlines bool) string {
	if !utf8.ValidString(raw) {
		return ""
	}

	filtered := raw
	if strings.Contains(filtered, "<") {
		filtered = strings.Trim(stripAllTags(filtered), phpTrimSet)
		filtered = strings.ReplaceAll(filtered, "<\n", "&lt;\n")
	}

	filtered = stripControl(filtered)

	if !keepNewlines {
		filtered = whitespaceRe.ReplaceAllString(filtered, " ")
	}

	filtered = strings.Trim(filtered, phpTrimSet)

	found := false
	for percentOctetRe.MatchString(filtered) {
		filtered = percentOctetRe.ReplaceAllString(filtered, "")
		found = true
	}

	if found {
		filtered = strings.Trim(spacesRe.ReplaceAllString(filtered, " "), phpTrimSet)
	}

	return filtered
}

// stripAllTags removes markup, dropping the bodies of script and style elements.
func stripAllTags(s string) string {
	var (
		b    strings.Builder
		z    = html.NewTokenizer(strings.NewReader(s))
		skip int
	)

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; either way the input is consumed.
			return b.String()
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Raw())
			}
		case html.StartTagToken:
			if isRawTextTag(z) {
				skip++
			}
		case html.EndTagToken:
			if isRawTextTag(z) && skip > 0 {
				skip--
			}
		default:
		}
	}
}

func isRawTextTag(z *html.Tokenizer) bool {
	name, _ := z.TagName()

	return string(name) == "script" || string(name) == "style"
}

// stripControl removes control characters other than tab, CR and LF.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return r
		}

		if unicode.IsControl(r) {
			return -1
		}

		return r
	}, s)
}

// SanitizeURL normalizes a submitted URL on a best-effort basis. Characters
// that cannot appear in a URL are removed, values without a scheme get
// "http://" and anything with a disallowed protocol or an unparsable shape
// becomes the empty string. Relative values starting with "/", "#" or "?"
// are kept as they are.
func SanitizeURL(raw string) string {
	u := strings.TrimLeft(raw, phpTrimSet)
	if u == "" {
		return ""
	}

	u = strings.ReplaceAll(u, " ", "%20")
	u = strings.Map(keepURLRune, u)

	if u == "" {
		return ""
	}

	if !hasPrefixFold(u, "mailto:") {
		u = deepReplace(u, "%0d", "%0a", "%0D", "%0A")
	}

	u = strings.ReplaceAll(u, ";//", "://")

	if strings.ContainsAny(u[:1], "/#?") {
		return u
	}

	if !strings.Contains(u, ":") {
		if phpFileRe.MatchString(u) {
			return u
		}

		u = "http://" + u
	}

	scheme := u[:strings.Index(u, ":")]
	if !schemeRe.MatchString(scheme) || !allowedProtocols[toLower(scheme)] {
		return ""
	}

	if err := validate.Var(u, "url"); err != nil {
		return ""
	}

	return u
}

// keepURLRune drops runes outside the URL-safe ASCII set. Non-ASCII runes
// are kept so internationalized paths survive.
func keepURLRune(r rune) rune {
	switch {
	case r >= utf8.RuneSelf:
		return r
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return r
	case strings.ContainsRune("-~+_.?#=!&;,/:%@$|*'()[]", r):
		return r
	default:
		return -1
	}
}

// deepReplace removes every needle until none is left, so nested encodings
// like "%0%0dd" cannot reassemble.
func deepReplace(s string, needles ...string) string {
	for {
		found := false

		for _, n := range needles {
			if strings.Contains(s, n) {
				s = strings.ReplaceAll(s, n, "")
				found = true
			}
		}

		if !found {
			return s
		}
	}
}

// SanitizeScriptOptions filters arbitrary form input down to the recognized
// script options. Anything that is not a list yields an empty set; list
// entries must match an option exactly.
func SanitizeScriptOptions(input any) []ScriptOption {
	var values []string

	switch v := input.(type) {
	case []string:
		values = v
	case []ScriptOption:
		for _, o := range v {
			values = append(values, string(o))
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
	default:
		return []ScriptOption{}
	}

	selected := make(map[ScriptOption]bool, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}

		if o := ScriptOption(value); o.IsValid() {
			selected[o] = true
		}
	}

	out := make([]ScriptOption, 0, len(selected))
	for _, o := range ScriptOptions {
		if selected[o] {
			out = append(out, o)
		}
	}

	return out
}

// SanitizeSettings runs every field of raw through its sanitizer.
func SanitizeSettings(raw Settings) Settings {
	return Settings{
		Token:         SanitizeToken(raw.Token),
		AllowedDomain: SanitizeURL(raw.AllowedDomain),
		ScriptOptions: SanitizeScriptOptions(raw.ScriptOptions),
		AnalysisURL:   SanitizeURL(raw.AnalysisURL),
	}
}
