package utils

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures. Failures at or below the single-card
// level are swallowed where they occur and never reach this type; everything
// here is a location-level failure caught at the pipeline boundary.
type Kind string

const (
	KindSessionBuild Kind = "session_build"
	KindNavigation   Kind = "navigation"
	KindBlocked      Kind = "detection_blocked"
	KindNoCards      Kind = "no_cards"
	KindNotification Kind = "notification"
)

// PipelineError represents a classified application error
type PipelineError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *PipelineError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Common error constructors
func NewSessionBuildError(detail string) *PipelineError {
	return &PipelineError{
		Kind:    KindSessionBuild,
		Message: "Browser session build failed",
		Detail:  detail,
	}
}

func NewNavigationError(detail string) *PipelineError {
	return &PipelineError{
		Kind:    KindNavigation,
		Message: "Navigation failed",
		Detail:  detail,
	}
}

func NewBlockedError(detail string) *PipelineError {
	return &PipelineError{
		Kind:    KindBlocked,
		Message: "Bot detection triggered",
		Detail:  detail,
	}
}

func NewNoCardsError(detail string) *PipelineError {
	return &PipelineError{
		Kind:    KindNoCards,
		Message: "No job cards found on page",
		Detail:  detail,
	}
}

func NewNotificationError(detail string) *PipelineError {
	return &PipelineError{
		Kind:    KindNotification,
		Message: "Notification delivery failed",
		Detail:  detail,
	}
}

// IsKind reports whether err is a PipelineError of the given kind.
func IsKind(err error, kind Kind) bool {
	var perr *PipelineError
	if errors.As(err, &perr) {
		return perr.Kind == kind
	}
	return false
}
