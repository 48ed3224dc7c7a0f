package section

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/meeting-digest/internal/dialogue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utterances(texts ...string) []dialogue.Utterance {
	out := make([]dialogue.Utterance, len(texts))
	for i, text := range texts {
		out[i] = dialogue.Utterance{
			SpeakerCode: text[:1],
			Text:        text,
			Timestamp:   fmt.Sprintf("10:%02d", i),
		}
	}
	return out
}

func TestChunkEveryPairClosesAtLengthOne(t *testing.T) {
	res := Chunk(utterances("A hi", "B hello", "A bye", "B bye"), Options{Length: 1, DropRemainder: true})

	require.Len(t, res.Sections, 2)
	assert.Equal(t, "10:00--10:01", res.Sections[0].Span())
	assert.Equal(t, "A hi\nB hello", res.Sections[0].Text)
	assert.Equal(t, "10:02--10:03", res.Sections[1].Span())
	assert.Equal(t, "A bye\nB bye", res.Sections[1].Text)
	assert.Empty(t, res.Dropped)
}

func TestChunkAccumulatesUntilLength(t *testing.T) {
	// Each pair is "A aa\nB bb" = 9 characters.
	in := utterances("A aa", "B bb", "A aa", "B bb", "A aa", "B bb")
	res := Chunk(in, Options{Length: 15, DropRemainder: true})

	require.Len(t, res.Sections, 2)
	assert.Equal(t, "10:00--10:03", res.Sections[0].Span())
	assert.Len(t, res.Sections[0].Utterances, 4)
	assert.GreaterOrEqual(t, res.Sections[0].Len(), 15)

	// The trailing pair never reached the length and is kept as a short final section.
	assert.Equal(t, "10:04--10:05", res.Sections[1].Span())
	assert.Less(t, res.Sections[1].Len(), 15)
}

func TestChunkOddCount(t *testing.T) {
	in := utterances("A one", "B two", "A three")

	dropped := Chunk(in, Options{Length: 1, DropRemainder: true})
	require.Len(t, dropped.Sections, 1)
	require.Len(t, dropped.Dropped, 1)
	assert.Equal(t, "A three", dropped.Dropped[0].Text)

	kept := Chunk(in, Options{Length: 1, DropRemainder: false})
	require.Len(t, kept.Sections, 1)
	assert.Empty(t, kept.Dropped)
	assert.Equal(t, "10:00--10:02", kept.Sections[0].Span())
	assert.Equal(t, "A one\nB two\nA three", kept.Sections[0].Text)
}

func TestChunkSingleUtterance(t *testing.T) {
	in := utterances("A alone")

	assert.Empty(t, Chunk(in, Options{Length: 10, DropRemainder: true}).Sections)

	kept := Chunk(in, Options{Length: 10})
	require.Len(t, kept.Sections, 1)
	assert.Equal(t, "10:00--10:00", kept.Sections[0].Span())
}

func TestChunkEmpty(t *testing.T) {
	res := Chunk(nil, Options{})
	assert.Empty(t, res.Sections)
	assert.Empty(t, res.Dropped)
}

func TestChunkProperties(t *testing.T) {
	for n := 0; n < 40; n++ {
		texts := make([]string, n)
		for i := range texts {
			texts[i] = string(rune('A'+i%3)) + " " + strings.Repeat("x", i%7)
		}
		in := utterances(texts...)

		for _, length := range []int{1, 10, 25, 500} {
			res := Chunk(in, Options{Length: length, DropRemainder: true})

			consumed := 0
			for i, s := range res.Sections {
				consumed += len(s.Utterances)
				assert.Zero(t, len(s.Utterances)%2)
				if i < len(res.Sections)-1 {
					assert.GreaterOrEqual(t, s.Len(), length)
				}
			}
			assert.Equal(t, n%2, n-consumed, "n=%d length=%d", n, length)
			assert.Len(t, res.Dropped, n%2)
		}
	}
}

func TestChunkCountsRunes(t *testing.T) {
	// Four CJK characters are four characters, not twelve bytes.
	in := []dialogue.Utterance{
		{Text: "A你好", Timestamp: "1"},
		{Text: "B好", Timestamp: "2"},
	}
	res := Chunk(in, Options{Length: 7, DropRemainder: true})
	require.Len(t, res.Sections, 1)
	assert.Equal(t, 6, res.Sections[0].Len())
}

func TestChunkDefaultLength(t *testing.T) {
	res := Chunk(utterances("A x", "B y", "A z", "B w"), Options{})
	require.Len(t, res.Sections, 1)
	assert.Len(t, res.Sections[0].Utterances, 4)
}
