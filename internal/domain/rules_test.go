package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()

	require.Len(t, rules, 35)
	require.NoError(t, ValidateRules(rules))

	table := make(map[string]string, len(rules))
	for _, r := range rules {
		table[r.FullTerm] = r.Abbreviation
	}
	assert.Equal(t, "°", table["degrees"])
	assert.Equal(t, "w/o", table["without"])
	assert.Equal(t, "~", table["approximately"])
	assert.Equal(t, "@", table["at"])

	rules[0].FullTerm = "mutated"
	assert.Equal(t, "temperature", DefaultRules()[0].FullTerm)
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name    string
		rules   []ReplacementRule
		wantErr error
	}{
		{"empty set", nil, nil},
		{"valid", []ReplacementRule{{"north", "N"}, {"south", "S"}}, nil},
		{"empty term", []ReplacementRule{{"north", "N"}, {"", "S"}}, ErrEmptyTerm},
		{"duplicate differing in case", []ReplacementRule{{"North", "N"}, {"NORTH", "n"}}, ErrDuplicateTerm},
		{"empty abbreviation allowed", []ReplacementRule{{"please", ""}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRules(tt.rules)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadRules(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		src := `
rules:
  - term: thunderstorm
    abbreviation: tstm
  - term: visibility
    abbreviation: vis
`
		rules, err := LoadRules(strings.NewReader(src))
		require.NoError(t, err)
		assert.Equal(t, []ReplacementRule{
			{FullTerm: "thunderstorm", Abbreviation: "tstm"},
			{FullTerm: "visibility", Abbreviation: "vis"},
		}, rules)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := LoadRules(strings.NewReader(""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("no rules", func(t *testing.T) {
		_, err := LoadRules(strings.NewReader("rules: []\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no rules")
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := LoadRules(strings.NewReader("rules:\n  - term: a\n    abbrev: b\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode rule file")
	})

	t.Run("duplicate term", func(t *testing.T) {
		src := "rules:\n  - term: Rain\n    abbreviation: ra\n  - term: rain\n    abbreviation: r\n"
		_, err := LoadRules(strings.NewReader(src))
		assert.ErrorIs(t, err, ErrDuplicateTerm)
	})
}
