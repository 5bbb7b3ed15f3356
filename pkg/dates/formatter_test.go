package dates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatDayMonthNameYear(t *testing.T) {
	f := NewFormatter(LayoutDayMonthNameYear)

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "absent", input: "", want: ""},
		{name: "whitespace only", input: "  ", want: ""},
		{name: "iso date", input: "1990-03-15", want: "15-Mar-1990"},
		{name: "already canonical", input: "15-Mar-1990", want: "15-Mar-1990"},
		{name: "slash date", input: "15/03/1990", want: "15-Mar-1990"},
		{name: "spelled month", input: "15 March 1990", want: "15-Mar-1990"},
		{name: "short day", input: "5 Mar 1990", want: "05-Mar-1990"},
		{name: "unpadded day gets padded", input: "5-Mar-1990", want: "05-Mar-1990"},
		{name: "american spelling", input: "Mar 15, 1990", want: "15-Mar-1990"},
		{name: "compact", input: "19900315", want: "15-Mar-1990"},
		{name: "unparsable stays unchanged", input: "not a date", want: "not a date"},
		{name: "impossible date stays unchanged", input: "1990-13-45", want: "1990-13-45"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, f.Format(tc.input))
		})
	}
}

func TestFormatDayMonthYear(t *testing.T) {
	f := NewFormatter(LayoutDayMonthYear)

	t.Run("iso date reformatted", func(t *testing.T) {
		require.Equal(t, "15-03-1990", f.Format("1990-03-15"))
	})

	t.Run("already canonical untouched", func(t *testing.T) {
		require.Equal(t, "15-03-1990", f.Format("15-03-1990"))
	})
}

func TestParseLayout(t *testing.T) {
	require.Equal(t, LayoutDayMonthYear, ParseLayout("DD-MM-YYYY"))
	require.Equal(t, LayoutDayMonthNameYear, ParseLayout("DD-MMM-YYYY"))
	require.Equal(t, LayoutDayMonthNameYear, ParseLayout(""))
}
