package names

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchStrictPolicy(t *testing.T) {
	m := NewMatcher(NewNormalizer(nil), PolicyStrictFirstToken)

	cases := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "exact", a: "John Smith", b: "john smith", want: true},
		{name: "word order swapped", a: "John Smith", b: "Smith John", want: true},
		{name: "word order swapped non latin order", a: "Fatima Anees", b: "Anees Fatima", want: true},
		{name: "shared surname only", a: "Rita Desai", b: "Gaurang Desai", want: false},
		{name: "empty left side", a: "", b: "John Smith", want: false},
		{name: "empty both sides", a: "", b: "", want: false},
		{name: "honorific ignored", a: "SMITH JOHN MR", b: "John Smith", want: true},
		{name: "dual name second segment", a: "SMITH JOHN/SMITH JANE MRS", b: "Jane Smith", want: true},
		{name: "single word never overlaps", a: "Smith", b: "Smith John", want: false},
		{name: "dropped middle name same first token", a: "John Michael Smith", b: "John Smith", want: true},
		{name: "two shared tokens different first token", a: "Michael John Smith", b: "John Smith", want: false},
		{name: "duplicated token counts once", a: "John John", b: "John Smith", want: false},
		{name: "completely different", a: "John Smith", b: "Alice Jones", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, m.Match(tc.a, tc.b))
			require.Equal(t, tc.want, m.Match(tc.b, tc.a), "match must be symmetric")
		})
	}
}

func TestMatchOverlapPolicy(t *testing.T) {
	m := NewMatcher(NewNormalizer(nil), PolicyOverlapOnly)

	t.Run("two shared tokens match regardless of first token", func(t *testing.T) {
		require.True(t, m.Match("Michael John Smith", "John Smith"))
	})

	t.Run("one shared token still rejected", func(t *testing.T) {
		require.False(t, m.Match("Rita Desai", "Gaurang Desai"))
	})

	t.Run("duplicated token still counts once", func(t *testing.T) {
		require.False(t, m.Match("John John", "John Smith"))
		require.False(t, m.Match("John Smith", "John John"))
	})
}

func TestParsePolicy(t *testing.T) {
	require.Equal(t, PolicyOverlapOnly, ParsePolicy("overlap_only"))
	require.Equal(t, PolicyStrictFirstToken, ParsePolicy("strict_first_token"))
	require.Equal(t, PolicyStrictFirstToken, ParsePolicy(""))
	require.Equal(t, PolicyStrictFirstToken, ParsePolicy("bogus"))
}
