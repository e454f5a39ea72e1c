package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1712/places/p1_1.jpg", "places/p1_1"},
		{"https://res.cloudinary.com/demo/image/upload/places/p1_1.png", "places/p1_1"},
		{"https://res.cloudinary.com/demo/image/upload/sample", "sample"},
	}
	for _, tt := range tests {
		got, err := PublicIDFromURL(tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.want, got)
	}

	_, err := PublicIDFromURL("https://example.com/images/a.jpg")
	assert.Error(t, err)
	_, err = PublicIDFromURL("https://res.cloudinary.com/demo/image/upload/")
	assert.Error(t, err)
}
