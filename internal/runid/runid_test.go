package runid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Staffjoy/mobius-assignment/internal/runid"
)

func TestNewReturnsDistinctIDs(t *testing.T) {
	a := runid.New()
	b := runid.New()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
