package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/fraatlas/fraportal/internal/claims"
	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/fraatlas/fraportal/internal/sqlite"
)

// Receipt is the local record of a claim accepted by the claims API.
type Receipt struct {
	ID int64 `db:"id"`
	// ClaimNumber is empty when the API did not return one.
	ClaimNumber   string      `db:"claim_number"`
	ClaimType     claims.Type `db:"claim_type"`
	ApplicantName string      `db:"applicant_name"`
	Village       string      `db:"village"`
	Area          float64     `db:"area"`
	District      string      `db:"district"`
	State         string      `db:"state"`
	SubmittedBy   string      `db:"submitted_by"`
	Created       time.Time   `db:"created"`
}

type ReceiptRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewReceiptRepository(db *sqlite.Database, logger *slog.Logger) *ReceiptRepository {
	return &ReceiptRepository{
		db:     db,
		logger: logger.With(slog.String("source", "ReceiptRepository")),
	}
}

// Create stores a receipt for submission made by userID.
func (r *ReceiptRepository) Create(
	ctx context.Context,
	userID string,
	claimNumber string,
	submission claims.Submission,
) (Receipt, error) {
	receipt := Receipt{
		ID:            0,
		ClaimNumber:   claimNumber,
		ClaimType:     submission.ClaimType,
		ApplicantName: submission.ApplicantName,
		Village:       submission.Village,
		Area:          submission.Area,
		District:      submission.District,
		State:         submission.State,
		SubmittedBy:   userID,
		Created:       time.Now().UTC().Truncate(time.Millisecond),
	}
	stmt := `INSERT INTO claim_receipts
    (claim_number, claim_type, applicant_name, village, area, district, state, submitted_by, created)
VALUES (:claim_number, :claim_type, :applicant_name, :village, :area, :district, :state, :submitted_by, :created)`
	result, err := r.db.ReadWrite.NamedExecContext(ctx, stmt, receipt)
	if err != nil {
		return Receipt{}, errors.Wrap(err, "insert receipt", slog.String("claim_number", claimNumber))
	}
	if receipt.ID, err = result.LastInsertId(); err != nil {
		return Receipt{}, errors.Wrap(err, "last insert id")
	}
	return receipt, nil
}

// ListByUser returns the latest receipts of userID, newest first.
func (r *ReceiptRepository) ListByUser(ctx context.Context, userID string, limit int) ([]Receipt, error) {
	var receipts []Receipt
	stmt := `SELECT id, claim_number, claim_type, applicant_name, village, area, district, state, submitted_by, created
FROM claim_receipts
WHERE submitted_by = ?
ORDER BY created DESC, id DESC
LIMIT ?`
	if err := r.db.ReadOnly.SelectContext(ctx, &receipts, stmt, userID, limit); err != nil {
		return nil, errors.Wrap(err, "select receipts", slog.String("user_id", userID))
	}
	return receipts, nil
}
