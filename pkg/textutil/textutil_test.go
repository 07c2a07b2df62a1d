package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{in: "DeSantis, Ron (REP)", expected: "desantis, ron"},
		{in: "  Gillum,   Andrew  ", expected: "gillum, andrew"},
		{in: "Smith, John, Jr.", expected: "smith, john"},
		{in: ",Doe,", expected: "doe"},
		{in: "", expected: ""},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, NormalizeName(test.in), test.in)
	}
}

func TestNormalizeEntityName(t *testing.T) {
	require.Equal(t, "florida citizen voters", NormalizeEntityName("Florida Citizen Voters PC"))
	require.Equal(t, "friends of ron desantis", NormalizeEntityName("FRIENDS OF  RON DESANTIS"))
	require.Equal(t, "florida chamber", NormalizeEntityName("Florida Chamber PAC "))
}

func TestSplitName(t *testing.T) {
	testCases := []struct {
		in                  string
		first, last, middle string
	}{
		{in: "DeSantis, Ron Dion", first: "ron", last: "desantis", middle: "dion"},
		{in: "Andrew D Gillum", first: "andrew", last: "gillum", middle: "d"},
		{in: "Cher", last: "cher"},
		{in: ""},
	}
	for _, test := range testCases {
		first, last, middle := SplitName(test.in)
		require.Equal(t, test.first, first, test.in)
		require.Equal(t, test.last, last, test.in)
		require.Equal(t, test.middle, middle, test.in)
	}
}

func TestFullName(t *testing.T) {
	require.Equal(t, "DeSantis, Ron Dion", FullName("Ron", "DeSantis", "Dion"))
	require.Equal(t, "Gillum, Andrew", FullName(" Andrew ", "Gillum", ""))
}

func TestStripParenthetical(t *testing.T) {
	require.Equal(t, "DeSantis, Ron", StripParenthetical("DeSantis, Ron (REP)"))
	require.Equal(t, "Florida Democratic Party", StripParenthetical("Florida Democratic Party (PTY)"))
}
