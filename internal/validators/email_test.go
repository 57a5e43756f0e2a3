package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmail(t *testing.T) {
	for _, ok := range []string{"a@b.co", "first.last@lawn.example.com", " x@y.io "} {
		assert.True(t, IsEmail(ok), ok)
	}
	for _, bad := range []string{"", "plain", "a@b", "a@@b.com", "a b@c.com"} {
		assert.False(t, IsEmail(bad), bad)
	}
	assert.Equal(t, "jo@lawn.com", NormalizeEmail("  Jo@Lawn.COM "))
}
