package model

// Features are the normalised ratios derived from an applicant profile.
// DebtToIncome and LoanToValue are percentages. SalaryAdequacy is monthly
// income per lakh of requested loan.
type Features struct {
	DebtToIncome   float64 `json:"debt_to_income"`
	LoanToValue    float64 `json:"loan_to_value"`
	SalaryAdequacy float64 `json:"salary_adequacy"`
}
