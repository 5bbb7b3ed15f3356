package names

import (
	"strings"
)

// DefaultHonorifics are the title words dropped from normalized names.
// OCR output for tickets routinely appends these to the passenger name.
var DefaultHonorifics = []string{"mr", "mrs", "ms", "miss", "dr", "prof", "sir", "madam"}

// Normalizer canonicalizes raw extracted name strings into comparable variants
type Normalizer struct {
	honorifics map[string]struct{}
}

// NewNormalizer creates a normalizer with the given honorific list.
// Passing nil uses DefaultHonorifics.
func NewNormalizer(honorifics []string) *Normalizer {
	if honorifics == nil {
		honorifics = DefaultHonorifics
	}
	set := make(map[string]struct{}, len(honorifics))
	for _, h := range honorifics {
		set[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}
	return &Normalizer{honorifics: set}
}

// Variants returns the normalized candidate names derived from a raw name
// field. A slash-separated field ("SMITH JOHN/SMITH JANE MRS") yields one
// variant per segment; segments that normalize to nothing contribute none.
func (n *Normalizer) Variants(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var variants []string
	for _, segment := range strings.Split(raw, "/") {
		// Some OCR outputs separate a machine-readable code from the
		// human-readable name with '?'. Prefer the part after it.
		if idx := strings.Index(segment, "?"); idx >= 0 {
			after := segment[idx+1:]
			if strings.TrimSpace(after) != "" {
				segment = after
			} else {
				segment = segment[:idx]
			}
		}

		words := n.normalizeWords(segment)
		if len(words) > 0 {
			variants = append(variants, strings.Join(words, " "))
		}
	}
	return variants
}

// Normalize returns the first variant of raw, or "" if there is none
func (n *Normalizer) Normalize(raw string) string {
	variants := n.Variants(raw)
	if len(variants) == 0 {
		return ""
	}
	return variants[0]
}

// normalizeWords lowercases a segment, strips everything but letters and
// spaces, and splits it into words with honorifics removed.
func (n *Normalizer) normalizeWords(segment string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(segment) {
		if (r >= 'a' && r <= 'z') || r == ' ' {
			b.WriteRune(r)
		}
	}

	var words []string
	for _, word := range strings.Fields(b.String()) {
		if _, isTitle := n.honorifics[word]; isTitle {
			continue
		}
		words = append(words, word)
	}
	return words
}
