package withdraw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bogusAction satisfies Action without being part of the sealed set, which
// only code in this package can do.
type bogusAction struct{}

func (bogusAction) name() string { return "bogus" }

func TestApply_unexpectedAction(t *testing.T) {
	next, err := Apply(Initial{}, bogusAction{})
	require.ErrorIs(t, err, ErrUnexpectedAction)
	assert.EqualError(t, err, "applying withdraw.bogusAction: unexpected action")
	assert.Nil(t, next)
}

func TestApply_nilAction(t *testing.T) {
	next, err := Apply(Initial{}, nil)
	require.ErrorIs(t, err, ErrUnexpectedAction)
	assert.EqualError(t, err, "applying <nil>: unexpected action")
	assert.Nil(t, next)
}
