package directory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/port"
)

// Column names expected in the header row. Order does not matter and
// matching ignores case. Only pan is required.
const (
	ColumnPAN           = "pan"
	ColumnEmployeeName  = "employee_name"
	ColumnCompanyName   = "company_name"
	ColumnDesignation   = "designation"
	ColumnMonthlySalary = "monthly_salary"
)

// Directory is a read-only, in-memory EmployerDirectory keyed by upper-case
// PAN. It is safe for concurrent use once loaded.
type Directory struct {
	records map[string]port.EmployerRecord
}

// Empty returns a directory with no records.
func Empty() *Directory {
	return &Directory{records: map[string]port.EmployerRecord{}}
}

// LoadFile reads a directory from a CSV file.
func LoadFile(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open employer directory %s: %w", path, err)
	}
	defer f.Close()

	d, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load employer directory %s: %w", path, err)
	}
	return d, nil
}

// Load reads a directory from CSV. Later rows win when a PAN repeats.
func Load(r io.Reader) (*Directory, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Empty(), nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols[ColumnPAN]; !ok {
		return nil, fmt.Errorf("header is missing the %q column", ColumnPAN)
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	d := Empty()
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record on line %d: %w", line, err)
		}

		pan := strings.ToUpper(field(record, ColumnPAN))
		if pan == "" {
			continue
		}
		rec := port.EmployerRecord{
			PAN:          pan,
			EmployeeName: field(record, ColumnEmployeeName),
			CompanyName:  field(record, ColumnCompanyName),
			Designation:  field(record, ColumnDesignation),
		}
		if s := strings.ReplaceAll(field(record, ColumnMonthlySalary), ",", ""); s != "" {
			salary, err := decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("could not parse monthly_salary %q on line %d: %w", s, line, err)
			}
			rec.MonthlySalary = salary
		}
		d.records[pan] = rec
	}
	return d, nil
}

// Lookup implements port.EmployerDirectory.
func (d *Directory) Lookup(key string) (port.EmployerRecord, bool) {
	if d == nil {
		return port.EmployerRecord{}, false
	}
	rec, ok := d.records[strings.ToUpper(strings.TrimSpace(key))]
	return rec, ok
}

// Len returns the number of records.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}
