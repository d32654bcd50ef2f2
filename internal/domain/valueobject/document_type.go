package valueobject

import (
	"fmt"
	"strings"
)

// DocumentType identifies the kind of evidence uploaded with an application.
type DocumentType struct {
	value string
}

var (
	DocumentTypeBankStatements    = DocumentType{value: "BANK_STATEMENTS"}
	DocumentTypeSalarySlips       = DocumentType{value: "SALARY_SLIPS"}
	DocumentTypeKYCDocs           = DocumentType{value: "KYC_DOCS"}
	DocumentTypePANCard           = DocumentType{value: "PAN_CARD"}
	DocumentTypeAadhaar           = DocumentType{value: "AADHAAR"}
	DocumentTypePropertyValuation = DocumentType{value: "PROPERTY_VALUATION"}
	DocumentTypeLegalClearance    = DocumentType{value: "LEGAL_CLEARANCE"}
	DocumentTypeNonAgricultural   = DocumentType{value: "NON_AGRICULTURAL_DECLARATION"}
)

// RequiredDocumentTypes is the document set every application is expected to carry.
var RequiredDocumentTypes = []DocumentType{
	DocumentTypeBankStatements,
	DocumentTypeSalarySlips,
	DocumentTypeKYCDocs,
	DocumentTypePropertyValuation,
	DocumentTypeLegalClearance,
	DocumentTypeNonAgricultural,
}

// Upload forms and older records use singular or abbreviated names.
var documentTypeAliases = map[string]DocumentType{
	"BANK_STATEMENTS":              DocumentTypeBankStatements,
	"BANK_STATEMENT":               DocumentTypeBankStatements,
	"SALARY_SLIPS":                 DocumentTypeSalarySlips,
	"SALARY_SLIP":                  DocumentTypeSalarySlips,
	"KYC_DOCS":                     DocumentTypeKYCDocs,
	"PAN_CARD":                     DocumentTypePANCard,
	"AADHAAR":                      DocumentTypeAadhaar,
	"PROPERTY_VALUATION":           DocumentTypePropertyValuation,
	"PROPERTY_VALUATION_DOC":       DocumentTypePropertyValuation,
	"PROPERTY_DOCUMENT":            DocumentTypePropertyValuation,
	"LEGAL_CLEARANCE":              DocumentTypeLegalClearance,
	"NON_AGRICULTURAL_DECLARATION": DocumentTypeNonAgricultural,
	"NA_DOCUMENT":                  DocumentTypeNonAgricultural,
}

// DocumentTypeFromString parses a document type, accepting the legacy aliases.
func DocumentTypeFromString(s string) (DocumentType, error) {
	dt, ok := documentTypeAliases[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return DocumentType{}, fmt.Errorf("invalid document type: %s", s)
	}
	return dt, nil
}

func (d DocumentType) String() string { return d.value }

// IsIdentity reports whether the document carries government identity numbers.
func (d DocumentType) IsIdentity() bool {
	return d == DocumentTypeKYCDocs || d == DocumentTypePANCard || d == DocumentTypeAadhaar
}

func (d DocumentType) IsZero() bool { return d.value == "" }

func (d DocumentType) Equal(other DocumentType) bool { return d.value == other.value }

// MarshalText implements encoding.TextMarshaler.
func (d DocumentType) MarshalText() ([]byte, error) { return []byte(d.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DocumentType) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = DocumentType{}
		return nil
	}
	parsed, err := DocumentTypeFromString(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
