package reviews

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeComment(t *testing.T) {
	c, err := NormalizeComment("  lovely stay \n")
	require.NoError(t, err)
	assert.Equal(t, "lovely stay", c)

	_, err = NormalizeComment("   ")
	assert.ErrorIs(t, err, ErrInvalidComment)

	_, err = NormalizeComment(strings.Repeat("a", MaxCommentLength+1))
	assert.ErrorIs(t, err, ErrInvalidComment)

	c, err = NormalizeComment(strings.Repeat("é", MaxCommentLength))
	require.NoError(t, err, "length counts characters, not bytes")
	assert.Len(t, []rune(c), MaxCommentLength)
}

func TestNormalizeRating(t *testing.T) {
	v, err := NormalizeRating(4.46)
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)

	v, err = NormalizeRating(2.25)
	require.NoError(t, err)
	assert.Equal(t, 2.2, v)

	v, err = NormalizeRating(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = NormalizeRating(5.01)
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = NormalizeRating(-1)
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestApplyLeavesReviewUntouchedOnError(t *testing.T) {
	r := &Review{Comment: "ok", Rating: 3}
	bad := 9.0
	comment := "better"

	err := r.Apply(Patch{Comment: &comment, Rating: &bad})
	assert.ErrorIs(t, err, ErrInvalidRating)
	assert.Equal(t, 3.0, r.Rating)
	assert.Equal(t, "ok", r.Comment)
}
