// Package validation rejects malformed document payloads before they reach
// storage. All checks are pure; a failure means the caller must resubmit
// corrected input.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/siamcare/doctrackgo/internal/apperrors"
	"github.com/siamcare/doctrackgo/internal/models"
)

// Field length limits shared with the submission frontend.
const (
	MaxSenderNameLength = 200
	MaxDetailsLength    = 1000
	MaxStaffNameLength  = 200
	MaxNoteLength       = 500
)

var documentIDPattern = regexp.MustCompile(`^DOC-\d{8}-\d{4}$`)

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func contains(values []string, v string) bool {
	for _, item := range values {
		if item == v {
			return true
		}
	}
	return false
}

// ValidateCreate checks a creation payload against the configured department
// and document-type rosters.
func ValidateCreate(dto models.CreateDocumentDto, departments, documentTypes []string) error {
	if isBlank(dto.SenderName) {
		return apperrors.NewValidationError("sender name is required", "senderName", dto.SenderName)
	}
	if len(dto.SenderName) > MaxSenderNameLength {
		return apperrors.NewValidationError(
			fmt.Sprintf("sender name too long (max %d characters)", MaxSenderNameLength),
			"senderName", dto.SenderName)
	}
	if !contains(departments, dto.Department) {
		return apperrors.NewValidationError(
			fmt.Sprintf("unknown department, expected one of: %s", strings.Join(departments, ", ")),
			"department", dto.Department)
	}
	if !contains(documentTypes, dto.DocumentType) {
		return apperrors.NewValidationError(
			fmt.Sprintf("unknown document type, expected one of: %s", strings.Join(documentTypes, ", ")),
			"documentType", dto.DocumentType)
	}
	if isBlank(dto.WeekRange) {
		return apperrors.NewValidationError("week range is required", "weekRange", dto.WeekRange)
	}
	if isBlank(dto.Details) {
		return apperrors.NewValidationError("details are required", "details", dto.Details)
	}
	if len(dto.Details) > MaxDetailsLength {
		return apperrors.NewValidationError(
			fmt.Sprintf("details too long (max %d characters)", MaxDetailsLength),
			"details", dto.Details)
	}
	return nil
}

// ValidateStatusUpdate checks a status-transition payload. Transition
// legality against the current status is enforced separately by the service.
func ValidateStatusUpdate(dto models.UpdateStatusDto) error {
	valid := false
	for _, s := range models.Statuses {
		if dto.Status == s {
			valid = true
			break
		}
	}
	if !valid {
		return apperrors.NewValidationError("invalid status", "status", string(dto.Status))
	}
	if dto.StaffName != "" && isBlank(dto.StaffName) {
		return apperrors.NewValidationError("staff name must not be blank", "staffName", dto.StaffName)
	}
	if len(dto.StaffName) > MaxStaffNameLength {
		return apperrors.NewValidationError(
			fmt.Sprintf("staff name too long (max %d characters)", MaxStaffNameLength),
			"staffName", dto.StaffName)
	}
	if len(dto.Note) > MaxNoteLength {
		return apperrors.NewValidationError(
			fmt.Sprintf("note too long (max %d characters)", MaxNoteLength),
			"note", dto.Note)
	}
	if dto.Status == models.StatusCancelled && isBlank(dto.CancelReason) {
		return apperrors.NewValidationError("cancel reason is required when cancelling", "cancelReason", dto.CancelReason)
	}
	return nil
}

// ValidateDocumentID checks the DOC-YYYYMMDD-NNNN id format.
func ValidateDocumentID(id string) error {
	if isBlank(id) {
		return apperrors.NewValidationError("document id is required", "id", id)
	}
	if !documentIDPattern.MatchString(id) {
		return apperrors.NewValidationError("document id must match DOC-YYYYMMDD-NNNN", "id", id)
	}
	return nil
}
