package session_test

import (
	"testing"

	"qrdine_backend/internal/session"

	"github.com/stretchr/testify/assert"
)

func TestOrderSet_AddIsIdempotent(t *testing.T) {
	s := session.NewOrderSet()
	s.Add(7)
	s.Add(7)
	s.Add(3)

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(7))
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(12))
}

func TestOrderSet_IgnoresNonPositiveIDs(t *testing.T) {
	s := session.NewOrderSet(0, -4, 5)
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Contains(5))
}

func TestOrderSet_EncodeDecodeRoundTrip(t *testing.T) {
	s := session.NewOrderSet(12, 3, 7)

	assert.Equal(t, "3.7.12", s.Encode(), "ids are sorted in the cookie value")

	decoded := session.Decode(s.Encode())
	assert.Equal(t, []int64{3, 7, 12}, decoded.IDs())
}

func TestDecode_SkipsMalformedEntries(t *testing.T) {
	cases := map[string][]int64{
		"":            {},
		"abc":         {},
		"3.abc.7":     {3, 7},
		"3..7":        {3, 7},
		"-1.0.9":      {9},
		" 3 . 7 ":     {3, 7},
		"9999999.1":   {1, 9999999},
		"5.5.5":       {5},
		"not a value": {},
	}
	for input, want := range cases {
		got := session.Decode(input).IDs()
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestOrderSet_EmptyEncodesToEmptyString(t *testing.T) {
	assert.Equal(t, "", session.NewOrderSet().Encode())
}
