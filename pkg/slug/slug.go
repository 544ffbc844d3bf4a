package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Option configures slug generation.
type Option func(*config)

type config struct {
	maxLength int
	separator string
}

func defaultConfig() *config {
	return &config{
		maxLength: 0, // no limit
		separator: "-",
	}
}

// MaxLength truncates the generated slug to at most n runes.
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}

// Separator sets the separator character. Default is "-".
func Separator(s string) Option {
	return func(c *config) {
		c.separator = s
	}
}

// foldDiacritics decomposes accented characters and drops the combining
// marks, turning "café" into "cafe".
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make creates a lowercase URL-safe slug from the input string. Letters and
// digits pass through, diacritics fold to their ASCII base, and every other
// run of characters collapses into a single separator.
func Make(s string, opts ...Option) string {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if folded, _, err := transform.String(foldDiacritics, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))

	lastWasSep := true // avoids a leading separator
	runeCount := 0

	for _, r := range s {
		if cfg.maxLength > 0 && runeCount >= cfg.maxLength {
			break
		}

		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastWasSep = false
			runeCount++
			continue
		}

		if !lastWasSep {
			if cfg.maxLength > 0 && runeCount+len([]rune(cfg.separator)) > cfg.maxLength {
				break
			}
			b.WriteString(cfg.separator)
			lastWasSep = true
			runeCount += len([]rune(cfg.separator))
		}
	}

	return strings.TrimSuffix(b.String(), cfg.separator)
}
