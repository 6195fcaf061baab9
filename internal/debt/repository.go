package debt

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository loads derived debt statistics from the bill ledger
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new debt repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CounterpartyStats aggregates the payment history of everyone who has ever
// owed the given user money. Opted-out entries stay in the ledger for audit
// but are excluded from every debt and rate figure here.
func (r *Repository) CounterpartyStats(ctx context.Context, userID int64, now time.Time) ([]CounterpartyStats, error) {
	query := `
		SELECT p.user_id,
		       u.username,
		       COALESCE(SUM(GREATEST(p.owed - p.paid, 0)) FILTER (WHERE NOT p.excluded), 0),
		       COALESCE(SUM(GREATEST(p.owed - p.paid, 0)) FILTER (WHERE NOT p.excluded AND b.payment_deadline < $2), 0),
		       COALESCE(100.0 * COUNT(*) FILTER (WHERE NOT p.excluded AND p.paid >= p.owed)
		                / NULLIF(COUNT(*) FILTER (WHERE NOT p.excluded), 0), 0),
		       COALESCE(AVG(EXTRACT(EPOCH FROM (p.paid_at - b.created_at)) / 86400.0)
		                FILTER (WHERE p.paid_at IS NOT NULL), 0),
		       MAX(p.paid_at)
		FROM bill_participants p
		JOIN bills b ON b.id = p.bill_id
		JOIN users u ON u.id = p.user_id
		WHERE b.payer_id = $1 AND p.user_id <> $1
		GROUP BY p.user_id, u.username
		ORDER BY p.user_id
	`

	rows, err := r.db.QueryContext(ctx, query, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load counterparty stats: %w", err)
	}
	defer rows.Close()

	var stats []CounterpartyStats
	for rows.Next() {
		var s CounterpartyStats
		var lastPayment sql.NullTime
		err := rows.Scan(
			&s.UserID,
			&s.Username,
			&s.CurrentDebt,
			&s.OverdueDebt,
			&s.PaymentRate,
			&s.AvgDaysToPay,
			&lastPayment,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan counterparty stats: %w", err)
		}
		if lastPayment.Valid {
			t := lastPayment.Time
			s.LastPaymentAt = &t
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate counterparty stats: %w", err)
	}
	return stats, nil
}
