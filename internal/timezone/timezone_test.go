package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocation(t *testing.T) {
	assert.Equal(t, "UTC", Location("UTC").String())
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Mars/Olympus"))

	fallback := Location("Mars/Olympus")
	if _, err := time.LoadLocation(DefaultTimezone); err == nil {
		assert.Equal(t, DefaultTimezone, fallback.String())
	} else {
		assert.Equal(t, time.UTC, fallback)
	}
}
