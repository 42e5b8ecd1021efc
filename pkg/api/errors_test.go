package api

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	err := &Error{Status: 403, Kind: KindForbidden, Message: "access denied"}
	assert.Equal(t, "server error (403): access denied", err.Error())

	err = &Error{Status: 401, Kind: KindUnauthenticated}
	assert.Equal(t, "server error (401): unauthenticated", err.Error())
}

func TestIsKind(t *testing.T) {
	wrapped := fmt.Errorf("get event: %w", &Error{Status: 404, Kind: KindNotFound})

	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindForbidden))
	assert.False(t, IsKind(fmt.Errorf("plain"), KindNotFound))
}
