package model

import "testing"

func TestParsePosition(t *testing.T) {
	tests := []struct {
		input    string
		expected Position
	}{
		{input: "QB", expected: POS_QB},
		{input: "qb", expected: POS_QB},
		{input: "RB", expected: POS_RB},
		{input: "WR", expected: POS_WR},
		{input: "TE", expected: POS_TE},
		{input: "K", expected: POS_K},
		{input: "DEF", expected: POS_DEF},
		{input: "DST", expected: POS_DEF},
		{input: "OL", expected: POS_UNKNOWN},
		{input: "", expected: POS_UNKNOWN},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if p := ParsePosition(tc.input); p != tc.expected {
				t.Errorf("ParsePosition(%q) = %v, expected %v", tc.input, p, tc.expected)
			}
		})
	}
}
