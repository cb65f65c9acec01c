package errorx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_Is(t *testing.T) {
	err := New(DuplicateEntry, "Player %s already entered round %d", "alice", 1)
	require.Equal(t, "Player alice already entered round 1", err.Error())

	wrapped := fmt.Errorf("enter: %w", err)
	require.True(t, errors.Is(wrapped, Error{Code: DuplicateEntry}))
	require.False(t, errors.Is(wrapped, Error{Code: AlreadyClaimed}))
	require.Equal(t, DuplicateEntry, CodeOf(wrapped))
}

func TestCodeOf_Unknown(t *testing.T) {
	require.Equal(t, Unknown.Code, CodeOf(errors.New("boom")))
	require.Equal(t, Unknown.Code, CodeOf(nil))
}
