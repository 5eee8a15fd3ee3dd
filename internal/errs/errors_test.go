package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := New(KindFormat, "bad block").WithContext("line", 12)
	assert.Contains(t, err.Error(), "[Format] bad block")
	assert.Contains(t, err.Error(), "line=12")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, KindIO, "cannot write batch")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "cause: disk full")
}

func TestIsKindThroughWrapping(t *testing.T) {
	inner := New(KindAuth, "key rejected")
	outer := fmt.Errorf("run failed: %w", inner)

	assert.True(t, IsKind(outer, KindAuth))
	assert.False(t, IsKind(outer, KindService))
	assert.Equal(t, KindAuth, KindOf(outer))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "UnsupportedFormat", KindUnsupportedFormat.String())
	assert.Equal(t, "NotImplemented", KindNotImplemented.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}
