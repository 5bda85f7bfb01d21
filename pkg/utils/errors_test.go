package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineErrorMessage(t *testing.T) {
	err := NewBlockedError(`URL contains "showcaptcha"`)
	assert.Equal(t, `Bot detection triggered: URL contains "showcaptcha"`, err.Error())

	bare := &PipelineError{Kind: KindNoCards, Message: "No job cards found on page"}
	assert.Equal(t, "No job cards found on page", bare.Error())
}

func TestIsKind(t *testing.T) {
	err := NewNavigationError("timeout")

	assert.True(t, IsKind(err, KindNavigation))
	assert.False(t, IsKind(err, KindBlocked))
	assert.False(t, IsKind(errors.New("plain"), KindNavigation))
	assert.False(t, IsKind(nil, KindNavigation))
}

func TestIsKindThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("location pipeline: %w", NewSessionBuildError("chrome missing"))
	assert.True(t, IsKind(wrapped, KindSessionBuild))
}
