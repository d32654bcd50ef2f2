package port

import "github.com/shopspring/decimal"

// EmployerRecord is one row of the employer reference dataset.
type EmployerRecord struct {
	PAN           string
	EmployeeName  string
	CompanyName   string
	Designation   string
	MonthlySalary decimal.Decimal
}

// EmployerDirectory is a read-only lookup over employer reference data.
type EmployerDirectory interface {
	Lookup(key string) (EmployerRecord, bool)
}
