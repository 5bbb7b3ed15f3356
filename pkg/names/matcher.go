package names

import (
	"sort"
	"strings"
)

// MatchPolicy selects how aggressively partially overlapping names are merged
type MatchPolicy string

const (
	// PolicyStrictFirstToken requires the first words of both names to be
	// equal before a token-overlap match is accepted. This keeps family
	// members who share a surname apart ("gaurang desai" vs "rita desai").
	PolicyStrictFirstToken MatchPolicy = "strict_first_token"

	// PolicyOverlapOnly accepts any pair of names sharing at least two
	// exact tokens.
	PolicyOverlapOnly MatchPolicy = "overlap_only"
)

// ParsePolicy maps a config string to a MatchPolicy, defaulting to strict
func ParsePolicy(value string) MatchPolicy {
	if MatchPolicy(strings.ToLower(strings.TrimSpace(value))) == PolicyOverlapOnly {
		return PolicyOverlapOnly
	}
	return PolicyStrictFirstToken
}

// Matcher decides whether two raw name strings plausibly refer to the same
// person. Passport MRZ names and ticket names differ in word order, included
// titles and middle names, so matching runs over normalized variants.
type Matcher struct {
	normalizer *Normalizer
	policy     MatchPolicy
}

// NewMatcher creates a matcher using the given normalizer and policy
func NewMatcher(normalizer *Normalizer, policy MatchPolicy) *Matcher {
	return &Matcher{normalizer: normalizer, policy: policy}
}

// Match reports whether nameA and nameB plausibly name the same person.
// Absent or unnormalizable names never match.
func (m *Matcher) Match(nameA, nameB string) bool {
	variantsA := m.normalizer.Variants(nameA)
	variantsB := m.normalizer.Variants(nameB)
	if len(variantsA) == 0 || len(variantsB) == 0 {
		return false
	}

	for _, a := range variantsA {
		for _, b := range variantsB {
			if m.variantsMatch(a, b) {
				return true
			}
		}
	}
	return false
}

func (m *Matcher) variantsMatch(a, b string) bool {
	if a == b {
		return true
	}

	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) < 2 || len(wordsB) < 2 {
		return false
	}

	// Same words in a different order count as the same name
	if sortedEqual(wordsA, wordsB) {
		return true
	}

	// Two distinct shared tokens tolerate dropped or extra middle names
	// while still blocking single-surname collisions.
	if commonWords(wordsA, wordsB) >= 2 {
		if m.policy == PolicyStrictFirstToken && wordsA[0] != wordsB[0] {
			return false
		}
		return true
	}
	return false
}

func sortedEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sortedA := append([]string(nil), a...)
	sortedB := append([]string(nil), b...)
	sort.Strings(sortedA)
	sort.Strings(sortedB)
	for i := range sortedA {
		if sortedA[i] != sortedB[i] {
			return false
		}
	}
	return true
}

// commonWords counts distinct tokens present in both word lists, so a
// repeated token never inflates the overlap.
func commonWords(a, b []string) int {
	set := make(map[string]struct{}, len(b))
	for _, w := range b {
		set[w] = struct{}{}
	}
	count := 0
	for _, w := range a {
		if _, ok := set[w]; ok {
			count++
			delete(set, w)
		}
	}
	return count
}
