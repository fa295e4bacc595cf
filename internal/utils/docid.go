package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Document ids follow DOC-YYYYMMDD-NNNN: creation date plus a four-digit
// sequence scoped to that date.

// DocumentIDPrefix returns the id prefix for the given day, e.g. "DOC-20250901-".
func DocumentIDPrefix(t time.Time) string {
	return fmt.Sprintf("DOC-%s-", t.UTC().Format("20060102"))
}

// FormatDocumentID builds a full id from a day and sequence number.
func FormatDocumentID(t time.Time, seq int) string {
	return fmt.Sprintf("%s%04d", DocumentIDPrefix(t), seq)
}

// DocumentIDSequence extracts the sequence number from an id. Returns 0 for
// ids that do not carry a parseable sequence.
func DocumentIDSequence(id string) int {
	idx := strings.LastIndex(id, "-")
	if idx < 0 || idx+1 >= len(id) {
		return 0
	}
	seq, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return 0
	}
	return seq
}

// NextDocumentID returns the id following lastID for the given day. An empty
// lastID starts the day's sequence at 1.
func NextDocumentID(lastID string, now time.Time) string {
	return FormatDocumentID(now, DocumentIDSequence(lastID)+1)
}
