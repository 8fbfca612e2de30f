package utils_test

import (
	"testing"

	"qrdine_backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Giulia's Trattoria":   "giulias-trattoria",
		"The  Golden   Spoon":  "the-golden-spoon",
		"Cafe 24/7":            "cafe-247",
		"  padded  ":           "padded",
		"snake_case.name":      "snake-case-name",
		"UPPER":                "upper",
		"---":                  "",
		"":                     "",
		"Trailing Dash - ":     "trailing-dash",
	}
	for input, want := range cases {
		assert.Equal(t, want, utils.Slugify(input), "input %q", input)
	}
}

func TestRandomToken(t *testing.T) {
	a, err := utils.RandomToken(16)
	require.NoError(t, err)
	b, err := utils.RandomToken(16)
	require.NoError(t, err)

	assert.Len(t, a, 32, "hex doubles the byte count")
	assert.NotEqual(t, a, b)
}

func TestNewNullString(t *testing.T) {
	assert.Nil(t, utils.NewNullString(""))
	s := utils.NewNullString("value")
	require.NotNil(t, s)
	assert.Equal(t, "value", *s)
}
