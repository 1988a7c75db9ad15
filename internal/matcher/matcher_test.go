package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldType_Weight(t *testing.T) {
	tests := []struct {
		field FieldType
		want  float64
		name  string
	}{
		{FieldTitle, 5, "title"},
		{FieldHeading, 3, "heading"},
		{FieldDescription, 2, "description"},
		{FieldContent, 1, "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.Weight())
			assert.Equal(t, tt.name, tt.field.String())
		})
	}

	assert.Equal(t, "unknown", FieldType(42).String())
	assert.Zero(t, FieldType(42).Weight())
}

func TestFieldType_MarshalText(t *testing.T) {
	b, err := FieldHeading.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "heading", string(b))
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "atm", "atm", 1},
		{"empty first", "", "anything", 0},
		{"empty second", "anything", "", 0},
		{"both empty", "", "", 0},
		{"disjoint", "abc", "xyz", 0},
		{"adjacent transposition", "abcd", "abdc", 1},
		{"window too small for swap", "ab", "ba", 0},
		{"partial", "atm", "atom", 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarity_Bounded(t *testing.T) {
	inputs := []string{"a", "aaaa", "abab", "lottery", "lottery payouts", "ATM Blocks", "ü日本"}
	for _, a := range inputs {
		for _, b := range inputs {
			s := Similarity(a, b)
			assert.GreaterOrEqual(t, s, 0.0, "%q vs %q", a, b)
			assert.LessOrEqual(t, s, 1.0, "%q vs %q", a, b)
		}
	}
}

func TestScore_ExactTitleMatch(t *testing.T) {
	// exact 100 + substring 50 + position 10 + word 25 + similarity 20, times 5
	score := Score("atm blocks", "ATM Blocks", FieldTitle)
	assert.InDelta(t, 1025, score, 1e-9)
	assert.GreaterOrEqual(t, score, 500.0)
}

func TestScore_FieldWeighting(t *testing.T) {
	query, text := "lottery", "Lottery Payouts"

	content := Score(query, text, FieldContent)
	assert.Greater(t, content, 0.0)
	assert.InDelta(t, content*5, Score(query, text, FieldTitle), 1e-9)
	assert.InDelta(t, content*3, Score(query, text, FieldHeading), 1e-9)
	assert.InDelta(t, content*2, Score(query, text, FieldDescription), 1e-9)
}

func TestScore_PositionBonus(t *testing.T) {
	early := Score("atm", "atm blocks and more", FieldContent)
	late := Score("atm", "more blocks and atm", FieldContent)
	assert.Greater(t, early, late)
}

func TestScore_WordBoundaryBonus(t *testing.T) {
	word := Score("atm", "an atm here", FieldContent)
	inner := Score("atm", "an atmo here", FieldContent)
	assert.Greater(t, word, inner)
}

func TestScore_NoMatch(t *testing.T) {
	assert.Zero(t, Score("zzz", "abc", FieldTitle))
	assert.Zero(t, Score("", "abc", FieldTitle))
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		text, query string
		want        bool
	}{
		{"how to use atm blocks", "atm", true},
		{"atmosphere", "atm", false},
		{"the atm.", "atm", true},
		{"catm atm", "atm", true},
		{"getting money", "getting money", true},
		{"", "atm", false},
		{"atm", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsWord(tt.text, tt.query))
		})
	}
}
