package r2

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelayBounds(t *testing.T) {
	s := &S3{RetryBaseDelay: 200 * time.Millisecond}

	for attempt := 1; attempt <= 3; attempt++ {
		nominal := s.RetryBaseDelay << (attempt - 1)
		for i := 0; i < 50; i++ {
			d := s.backoffDelay(attempt)
			assert.GreaterOrEqual(t, d, nominal-nominal/20,
				"attempt %d delay below jitter floor", attempt)
			assert.LessOrEqual(t, d, nominal+nominal/20,
				"attempt %d delay above jitter ceiling", attempt)
		}
	}
}

func TestBackoffDelayTinyBase(t *testing.T) {
	s := &S3{RetryBaseDelay: 5 * time.Nanosecond}
	assert.Equal(t, 5*time.Nanosecond, s.backoffDelay(1))
}

func TestObjectKeyShape(t *testing.T) {
	primary := regexp.MustCompile(`^blog/chart-\d+-[a-z2-7]{8}\.webp$`)
	variant := regexp.MustCompile(`^media/chart-small-\d+-[a-z2-7]{8}\.webp$`)

	assert.Regexp(t, primary, ObjectKey("", "chart.png", "", "webp"))
	assert.Regexp(t, variant, ObjectKey("media", "chart.png", "small", "webp"))

	// Two keys for the same file never collide.
	assert.NotEqual(t,
		ObjectKey("blog", "chart.png", "", "webp"),
		ObjectKey("blog", "chart.png", "", "webp"))

	assert.Regexp(t, `^blog/image-`, ObjectKey("blog", ".png", "", "webp"))
}
