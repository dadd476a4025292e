package summarizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tweet-takeaways/internal/infra/summarizer"
)

func TestEnforceVocabulary(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		generated   string
		want        string
		wantDropped int
	}{
		{
			name:        "drops invented words",
			source:      "The cat sat on the mat.",
			generated:   "The fat cat sat on the red mat.",
			want:        "The cat sat on the mat.",
			wantDropped: 2,
		},
		{
			name:        "case insensitive match keeps generated casing",
			source:      "NASA launched Artemis",
			generated:   "nasa Launched ARTEMIS today",
			want:        "nasa Launched ARTEMIS",
			wantDropped: 1,
		},
		{
			name:        "every comma survives the dropped word",
			source:      "Rain falls in Spain",
			generated:   "Rain, mostly, falls in Spain!",
			want:        "Rain,, falls in Spain!",
			wantDropped: 1,
		},
		{
			name:      "hyphenated word allowed when parts are known",
			source:    "a well known author",
			generated: "a well-known author",
			want:      "a well-known author",
		},
		{
			name:        "possessive kept",
			source:      "the company's profits",
			generated:   "the company's record profits",
			want:        "the company's profits",
			wantDropped: 1,
		},
		{
			name:        "curly apostrophes normalized on both sides",
			source:      "it’s raining",
			generated:   "It’s raining hard",
			want:        "It's raining",
			wantDropped: 1,
		},
		{
			name:        "quotes hug their content",
			source:      `He said "hello world" loudly`,
			generated:   `He said "hello world" today.`,
			want:        `He said "hello world".`,
			wantDropped: 1,
		},
		{
			name:        "parentheses kept",
			source:      "Apple (AAPL) rose",
			generated:   "Apple (AAPL) rose sharply.",
			want:        "Apple (AAPL) rose.",
			wantDropped: 1,
		},
		{
			name:        "emptied parentheses kept",
			source:      "Apple rose",
			generated:   "Apple (AAPL) rose",
			want:        "Apple () rose",
			wantDropped: 1,
		},
		{
			name:      "leading punctuation kept",
			source:    "Rain falls",
			generated: ", Rain falls",
			want:      ", Rain falls",
		},
		{
			name:        "only punctuation survives",
			source:      "alpha",
			generated:   "beta gamma.",
			want:        ".",
			wantDropped: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped := summarizer.EnforceVocabulary(tt.generated, tt.source)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantDropped, dropped)
		})
	}
}

func TestEnforceVocabulary_OutputWordsAlwaysInSource(t *testing.T) {
	source := "Local council approves new budget for schools and roads after long debate."
	generated := "The city council quickly approves a new budget for schools, roads and hospitals after a long debate."

	got, _ := summarizer.EnforceVocabulary(generated, source)

	vocab := summarizer.NewVocabulary(source)
	for word := range summarizer.NewVocabulary(got) {
		assert.True(t, vocab.Contains(word), "word %q not in source", word)
	}
}

func TestVocabulary_Contains(t *testing.T) {
	v := summarizer.NewVocabulary("State-of-the-art design wins")

	assert.True(t, v.Contains("state-of-the-art"))
	assert.True(t, v.Contains("STATE"))
	assert.True(t, v.Contains("art"))
	assert.True(t, v.Contains("art-design"))
	assert.False(t, v.Contains("loses"))
	assert.False(t, v.Contains("art-deco"))
}

func TestEnforceVocabulary_PunctuationCountPreserved(t *testing.T) {
	generated := `Rain, mostly, falls (AAPL) in "Spain"; really?!`

	got, _ := summarizer.EnforceVocabulary(generated, "Rain falls in Spain")

	for _, r := range `,()";?!` {
		assert.Equal(t, strings.Count(generated, string(r)), strings.Count(got, string(r)), "count of %q", r)
	}
}
