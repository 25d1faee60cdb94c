package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/exam-grading-service/internal/errors"
	"github.com/SAP-F-2025/exam-grading-service/internal/fixtures"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Grading specific errors
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrGroupNotFound      = errors.New("question group not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrExamNotFound       = fixtures.ErrExamNotFound
	ErrInvalidOverride    = errors.New("invalid override status")
	ErrSubmissionLocked   = errors.New("submission no longer accepts answers")
	ErrAlreadySubmitted   = errors.New("submission already submitted")
	ErrNotSubmitted       = errors.New("submission has not been submitted")
	ErrGradingNotAllowed  = errors.New("permission denied for grading")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

func (pe *PermissionError) Unwrap() error {
	return ErrForbidden
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSubmissionNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrExamNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden checks if the caller lacks permission
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrGradingNotAllowed)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrInvalidOverride) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrSubmissionLocked) ||
		errors.Is(err, ErrAlreadySubmitted) ||
		errors.Is(err, ErrNotSubmitted)
}
