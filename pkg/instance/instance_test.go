package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDIsNonEmpty(t *testing.T) {
	assert.NotEmpty(t, ID())
}
