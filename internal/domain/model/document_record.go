package model

import (
	"strings"

	"github.com/google/uuid"

	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// DocumentRecord is an uploaded document together with its best-effort extracted text.
// Extracted is false when the extraction collaborator could not read the file.
type DocumentRecord struct {
	ID            uuid.UUID
	Type          valueobject.DocumentType
	Filename      string
	ExtractedText string
	SizeBytes     int64
	Extracted     bool
}

// Readable reports whether the document has any text to verify.
func (d *DocumentRecord) Readable() bool {
	return d != nil && d.Extracted && strings.TrimSpace(d.ExtractedText) != ""
}

// FindDocument returns the first document of the given type, or nil.
func FindDocument(docs []*DocumentRecord, dt valueobject.DocumentType) *DocumentRecord {
	for _, d := range docs {
		if d != nil && d.Type.Equal(dt) {
			return d
		}
	}
	return nil
}
