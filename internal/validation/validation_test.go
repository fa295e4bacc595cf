package validation

import (
	"strings"
	"testing"

	"github.com/siamcare/doctrackgo/internal/apperrors"
	"github.com/siamcare/doctrackgo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testDepartments   = []string{"MED", "PED", "GI"}
	testDocumentTypes = []string{"WI", "WP", "FORM"}
)

func validCreateDto() models.CreateDocumentDto {
	return models.CreateDocumentDto{
		SenderName:   "Somchai Jaidee",
		Department:   "MED",
		DocumentType: "FORM",
		WeekRange:    "Sep 1 - Sep 7",
		Details:      "Patient record correction request",
	}
}

func TestValidateCreateAcceptsValidPayload(t *testing.T) {
	require.NoError(t, ValidateCreate(validCreateDto(), testDepartments, testDocumentTypes))
}

func TestValidateCreateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CreateDocumentDto)
		field  string
	}{
		{"empty sender", func(d *models.CreateDocumentDto) { d.SenderName = "" }, "senderName"},
		{"blank sender", func(d *models.CreateDocumentDto) { d.SenderName = "   " }, "senderName"},
		{"sender too long", func(d *models.CreateDocumentDto) {
			d.SenderName = strings.Repeat("x", MaxSenderNameLength+1)
		}, "senderName"},
		{"unknown department", func(d *models.CreateDocumentDto) { d.Department = "ICU" }, "department"},
		{"empty department", func(d *models.CreateDocumentDto) { d.Department = "" }, "department"},
		{"unknown document type", func(d *models.CreateDocumentDto) { d.DocumentType = "MEMO" }, "documentType"},
		{"blank week range", func(d *models.CreateDocumentDto) { d.WeekRange = " " }, "weekRange"},
		{"empty details", func(d *models.CreateDocumentDto) { d.Details = "" }, "details"},
		{"details too long", func(d *models.CreateDocumentDto) {
			d.Details = strings.Repeat("x", MaxDetailsLength+1)
		}, "details"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dto := validCreateDto()
			tt.mutate(&dto)

			err := ValidateCreate(dto, testDepartments, testDocumentTypes)
			require.Error(t, err)

			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidateStatusUpdate(t *testing.T) {
	tests := []struct {
		name    string
		dto     models.UpdateStatusDto
		wantErr bool
		field   string
	}{
		{
			name: "valid processing",
			dto:  models.UpdateStatusDto{Status: models.StatusProcessing, StaffName: "Nurse A"},
		},
		{
			name: "valid completed without staff",
			dto:  models.UpdateStatusDto{Status: models.StatusCompleted},
		},
		{
			name: "valid cancelled with reason",
			dto:  models.UpdateStatusDto{Status: models.StatusCancelled, CancelReason: "duplicate submission"},
		},
		{
			name:    "unknown status",
			dto:     models.UpdateStatusDto{Status: "archived"},
			wantErr: true,
			field:   "status",
		},
		{
			name:    "empty status",
			dto:     models.UpdateStatusDto{},
			wantErr: true,
			field:   "status",
		},
		{
			name: "staff name too long",
			dto: models.UpdateStatusDto{
				Status:    models.StatusProcessing,
				StaffName: strings.Repeat("x", MaxStaffNameLength+1),
			},
			wantErr: true,
			field:   "staffName",
		},
		{
			name: "note too long",
			dto: models.UpdateStatusDto{
				Status: models.StatusCompleted,
				Note:   strings.Repeat("x", MaxNoteLength+1),
			},
			wantErr: true,
			field:   "note",
		},
		{
			name:    "cancelled without reason",
			dto:     models.UpdateStatusDto{Status: models.StatusCancelled},
			wantErr: true,
			field:   "cancelReason",
		},
		{
			name:    "cancelled with blank reason",
			dto:     models.UpdateStatusDto{Status: models.StatusCancelled, CancelReason: "  "},
			wantErr: true,
			field:   "cancelReason",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStatusUpdate(tt.dto)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidateDocumentID(t *testing.T) {
	valid := []string{"DOC-20250901-0001", "DOC-19991231-9999"}
	for _, id := range valid {
		assert.NoError(t, ValidateDocumentID(id), id)
	}

	invalid := []string{
		"",
		"   ",
		"DOC-20250901-1",
		"DOC-20250901-001",
		"DOC-20250901-00001",
		"DOC-2025091-0001",
		"doc-20250901-0001",
		"DOC-20250901-0001x",
		"REQ-20250901-0001",
	}
	for _, id := range invalid {
		assert.Error(t, ValidateDocumentID(id), id)
	}
}
