package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
	pkgpostgres "github.com/bibbank/loanrisk/pkg/postgres"
)

// DecisionRepo implements port.DecisionRepository.
type DecisionRepo struct {
	pool *pgxpool.Pool
}

// NewDecisionRepo creates a new repository backed by PostgreSQL.
func NewDecisionRepo(pool *pgxpool.Pool) *DecisionRepo {
	return &DecisionRepo{pool: pool}
}

// Save upserts the decision by application with optimistic locking on the
// version, then replaces the stored verification rows, in one transaction.
func (r *DecisionRepo) Save(ctx context.Context, d *model.LoanDecision) error {
	assessment, err := json.Marshal(d.Assessment())
	if err != nil {
		return fmt.Errorf("encode assessment: %w", err)
	}
	summary, err := json.Marshal(d.Summary())
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	schedule, err := json.Marshal(nonNil(d.Schedule()))
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}

	return pkgpostgres.WithTx(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		query := `
			INSERT INTO loan_decisions (
				id, application_id, status, risk_level, overall_risk_score,
				interest_rate, emi_amount, total_interest, total_payment,
				loan_term_years, reason, assessment, summary, schedule,
				version, decided_at, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
			ON CONFLICT (application_id) DO UPDATE SET
				status             = EXCLUDED.status,
				risk_level         = EXCLUDED.risk_level,
				overall_risk_score = EXCLUDED.overall_risk_score,
				interest_rate      = EXCLUDED.interest_rate,
				emi_amount         = EXCLUDED.emi_amount,
				total_interest     = EXCLUDED.total_interest,
				total_payment      = EXCLUDED.total_payment,
				loan_term_years    = EXCLUDED.loan_term_years,
				reason             = EXCLUDED.reason,
				assessment         = EXCLUDED.assessment,
				summary            = EXCLUDED.summary,
				schedule           = EXCLUDED.schedule,
				version            = EXCLUDED.version,
				decided_at         = EXCLUDED.decided_at,
				updated_at         = EXCLUDED.updated_at
			WHERE loan_decisions.version = EXCLUDED.version - 1
			  AND loan_decisions.id = EXCLUDED.id
		`
		dec, a := d.Decision(), d.Assessment()
		tag, err := tx.Exec(ctx, query,
			d.ID(), d.ApplicationID(), dec.Status.String(), a.RiskLevel.String(), a.OverallRiskScore,
			dec.InterestRate, dec.EMIAmount, dec.TotalInterest, dec.TotalPayment,
			dec.LoanTermYears, dec.Reason, assessment, summary, schedule,
			d.Version(), d.DecidedAt(), d.CreatedAt(), d.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("save loan decision: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return port.ErrDecisionConflict
		}

		if _, err := tx.Exec(ctx, `DELETE FROM document_verifications WHERE decision_id = $1`, d.ID()); err != nil {
			return fmt.Errorf("clear document verifications: %w", err)
		}
		return insertVerifications(ctx, tx, d.ID(), d.Verifications())
	})
}

func insertVerifications(ctx context.Context, tx pgx.Tx, decisionID uuid.UUID, results []model.VerificationResult) error {
	if len(results) == 0 {
		return nil
	}

	query := `
		INSERT INTO document_verifications (
			decision_id, position, document_id, document_type, status, risk_level,
			reason, match_score, anomaly_score, confidence_score, matches,
			anomalies, advisory_used
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`
	batch := &pgx.Batch{}
	for i, v := range results {
		matches, err := json.Marshal(v.Matches)
		if err != nil {
			return fmt.Errorf("encode matches: %w", err)
		}
		anomalies, err := json.Marshal(nonNil(v.Anomalies))
		if err != nil {
			return fmt.Errorf("encode anomalies: %w", err)
		}
		batch.Queue(query,
			decisionID, i, v.DocumentID, v.DocumentType.String(), v.Status.String(), v.RiskLevel.String(),
			v.Reason, v.MatchScore, v.AnomalyScore, v.ConfidenceScore, matches,
			anomalies, v.AdvisoryUsed,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert document verifications: %w", err)
	}
	return nil
}

// FindByApplicationID loads the decision and its verification rows.
func (r *DecisionRepo) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*model.LoanDecision, error) {
	query := `
		SELECT id, application_id, status, interest_rate, emi_amount,
		       total_interest, total_payment, loan_term_years, reason,
		       assessment, summary, schedule, version,
		       decided_at, created_at, updated_at
		FROM loan_decisions
		WHERE application_id = $1
	`
	var (
		id, appID                       uuid.UUID
		statusStr, reason               string
		rate, emi, interest, payment    decimal.Decimal
		termYears, version              int
		assessmentRaw, summaryRaw       []byte
		scheduleRaw                     []byte
		decidedAt, createdAt, updatedAt time.Time
	)
	err := r.pool.QueryRow(ctx, query, applicationID).Scan(
		&id, &appID, &statusStr, &rate, &emi,
		&interest, &payment, &termYears, &reason,
		&assessmentRaw, &summaryRaw, &scheduleRaw, &version,
		&decidedAt, &createdAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrDecisionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find loan decision: %w", err)
	}

	status, err := valueobject.DecisionStatusFromString(statusStr)
	if err != nil {
		return nil, fmt.Errorf("parse decision status: %w", err)
	}
	var (
		assessment model.RiskAssessment
		summary    model.VerificationSummary
		schedule   []model.AmortizationEntry
	)
	if err := json.Unmarshal(assessmentRaw, &assessment); err != nil {
		return nil, fmt.Errorf("decode assessment: %w", err)
	}
	if err := json.Unmarshal(summaryRaw, &summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	if err := json.Unmarshal(scheduleRaw, &schedule); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	if len(schedule) == 0 {
		schedule = nil
	}

	verifications, err := r.findVerifications(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := model.DecisionResult{
		Status:        status,
		Reason:        reason,
		InterestRate:  rate,
		EMIAmount:     emi,
		TotalInterest: interest,
		TotalPayment:  payment,
		LoanTermYears: termYears,
	}
	return model.ReconstructLoanDecision(
		id, appID, verifications, assessment, decision, summary, schedule,
		version, decidedAt, createdAt, updatedAt,
	), nil
}

func (r *DecisionRepo) findVerifications(ctx context.Context, decisionID uuid.UUID) ([]model.VerificationResult, error) {
	query := `
		SELECT document_id, document_type, status, risk_level, reason,
		       match_score, anomaly_score, confidence_score, matches,
		       anomalies, advisory_used
		FROM document_verifications
		WHERE decision_id = $1
		ORDER BY position
	`
	rows, err := r.pool.Query(ctx, query, decisionID)
	if err != nil {
		return nil, fmt.Errorf("query document verifications: %w", err)
	}
	defer rows.Close()

	var result []model.VerificationResult
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

// ---------------------------------------------------------------------------
// scan helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...any) error
}

func scanVerification(s scannable) (model.VerificationResult, error) {
	var (
		v                          model.VerificationResult
		docType, status, riskLevel string
		matches, anomalies         []byte
	)
	err := s.Scan(
		&v.DocumentID, &docType, &status, &riskLevel, &v.Reason,
		&v.MatchScore, &v.AnomalyScore, &v.ConfidenceScore, &matches,
		&anomalies, &v.AdvisoryUsed,
	)
	if err != nil {
		return model.VerificationResult{}, fmt.Errorf("scan document verification: %w", err)
	}

	// Results for absent documents carry no type.
	if docType != "" {
		if v.DocumentType, err = valueobject.DocumentTypeFromString(docType); err != nil {
			return model.VerificationResult{}, fmt.Errorf("parse document type: %w", err)
		}
	}
	if v.Status, err = valueobject.VerificationStatusFromString(status); err != nil {
		return model.VerificationResult{}, fmt.Errorf("parse verification status: %w", err)
	}
	if v.RiskLevel, err = valueobject.RiskLevelFromString(riskLevel); err != nil {
		return model.VerificationResult{}, fmt.Errorf("parse risk level: %w", err)
	}
	if err := json.Unmarshal(matches, &v.Matches); err != nil {
		return model.VerificationResult{}, fmt.Errorf("decode matches: %w", err)
	}
	if err := json.Unmarshal(anomalies, &v.Anomalies); err != nil {
		return model.VerificationResult{}, fmt.Errorf("decode anomalies: %w", err)
	}
	if len(v.Anomalies) == 0 {
		v.Anomalies = nil
	}
	return v, nil
}

// nonNil keeps empty collections encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
