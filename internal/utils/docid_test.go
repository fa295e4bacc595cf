package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var day = time.Date(2025, 9, 1, 14, 30, 0, 0, time.UTC)

func TestDocumentIDPrefix(t *testing.T) {
	assert.Equal(t, "DOC-20250901-", DocumentIDPrefix(day))

	// Prefix is derived from the UTC date regardless of the input zone.
	bangkok := time.FixedZone("ICT", 7*3600)
	lateEvening := time.Date(2025, 9, 2, 3, 0, 0, 0, bangkok) // still Sep 1 UTC
	assert.Equal(t, "DOC-20250901-", DocumentIDPrefix(lateEvening))
}

func TestFormatDocumentID(t *testing.T) {
	assert.Equal(t, "DOC-20250901-0001", FormatDocumentID(day, 1))
	assert.Equal(t, "DOC-20250901-0042", FormatDocumentID(day, 42))
	assert.Equal(t, "DOC-20250901-9999", FormatDocumentID(day, 9999))
}

func TestDocumentIDSequence(t *testing.T) {
	assert.Equal(t, 1, DocumentIDSequence("DOC-20250901-0001"))
	assert.Equal(t, 123, DocumentIDSequence("DOC-20250901-0123"))
	assert.Equal(t, 0, DocumentIDSequence(""))
	assert.Equal(t, 0, DocumentIDSequence("DOC-20250901-"))
	assert.Equal(t, 0, DocumentIDSequence("garbage"))
}

func TestNextDocumentID(t *testing.T) {
	// Empty lastID starts the day's sequence.
	assert.Equal(t, "DOC-20250901-0001", NextDocumentID("", day))

	// Continues from the last issued id.
	assert.Equal(t, "DOC-20250901-0042", NextDocumentID("DOC-20250901-0041", day))

	// A new day restarts the sequence.
	nextDay := day.Add(24 * time.Hour)
	assert.Equal(t, "DOC-20250902-0001", NextDocumentID("", nextDay))
}
