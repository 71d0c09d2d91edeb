package errs

import (
	"fmt"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestKindOf(t *testing.T) {
	t.Run("classified error", func(t *testing.T) {
		err := New(KindSolvency, "payer has debt")
		assert.Equal(t, KindSolvency, KindOf(err))
		assert.True(t, Is(err, KindSolvency))
		assert.Equal(t, "payer has debt", err.Error())
	})

	t.Run("wrapped by pkg/errors keeps kind", func(t *testing.T) {
		err := errors.Wrap(New(KindQuery, "subgraph down"), "list streams")
		assert.Equal(t, KindQuery, KindOf(err))
		assert.Equal(t, "list streams: subgraph down", err.Error())
	})

	t.Run("found through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("deposit: %w", errors.WithStack(New(KindValidation, "bad amount")))
		assert.True(t, Is(err, KindValidation))
		assert.False(t, Is(err, KindQuery))
	})

	t.Run("plain error is unknown", func(t *testing.T) {
		assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	})

	t.Run("wrap nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(KindTransaction, nil, "ignored"))
	})

	t.Run("wrap keeps cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrapf(KindQuery, cause, "read balance of %s", "0xabc")
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, "read balance of 0xabc: connection refused", err.Error())
		assert.Equal(t, "QueryError", KindOf(err).String())
	})
}
