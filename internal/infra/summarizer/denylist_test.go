package summarizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tweet-takeaways/internal/infra/summarizer"
)

const cnnBlurb = "CNN.com will feature iReporter photos in a weekly Travel Snapshots gallery."

func TestDenylist_StripsCaseInsensitively(t *testing.T) {
	d := summarizer.NewDenylist([]string{cnnBlurb})

	got := d.Strip("Storm hits the coast. cnn.com will feature   iReporter photos in a WEEKLY travel snapshots gallery.")

	assert.Equal(t, "Storm hits the coast.", got)
}

func TestDenylist_LongestPhraseWins(t *testing.T) {
	d := summarizer.NewDenylist([]string{"click here", "Click here for more travel photos."})

	got := d.Strip("Beaches reopen. Click here for more travel photos.")

	assert.Equal(t, "Beaches reopen.", got)
}

func TestDenylist_EmptyLeavesTextAlone(t *testing.T) {
	var nilList *summarizer.Denylist
	assert.Equal(t, "keep me", nilList.Strip("keep me"))
	assert.Equal(t, "keep me", summarizer.NewDenylist([]string{"", "  "}).Strip("keep me"))
}

func TestDenylist_RegexMetacharactersAreLiteral(t *testing.T) {
	d := summarizer.NewDenylist([]string{"(Photo: AP)"})

	assert.Equal(t, "Crowds gather", d.Strip("Crowds gather (photo: ap)"))
	assert.Equal(t, "Photo AP", d.Strip("Photo AP"))
}
