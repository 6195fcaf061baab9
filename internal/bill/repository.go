package bill

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrVersionConflict is returned when a ledger write lost a race with another
// mutation of the same bill. Callers reload and retry.
var ErrVersionConflict = errors.New("bill was modified concurrently")

// Repository handles bill, participant and item persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new bill repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateBill inserts a bill with its full ledger and items in one transaction
func (r *Repository) CreateBill(ctx context.Context, b *Bill) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO bills (description, total_amount, split_method, payer_id, is_settled, payment_deadline, version)
		VALUES ($1, $2, $3, $4, $5, $6, 1)
		RETURNING id, created_at, version
	`
	err = tx.QueryRowContext(ctx, query,
		b.Description,
		int64(b.TotalAmount),
		string(b.SplitMethod),
		b.PayerID,
		b.IsSettled,
		b.PaymentDeadline,
	).Scan(&b.ID, &b.CreatedAt, &b.Version)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}

	for _, p := range b.Participants {
		p.BillID = b.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO bill_participants (bill_id, user_id, owed, paid, paid_at, excluded)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, b.ID, p.UserID, int64(p.Owed), int64(p.Paid), p.PaidAt, p.Excluded).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("failed to create participant: %w", err)
		}
	}

	for _, item := range b.Items {
		item.BillID = b.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO bill_items (bill_id, name, unit_amount, quantity, allocated_to)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, b.ID, item.Name, int64(item.UnitAmount), item.Quantity, pq.Array(item.AllocatedTo)).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bill: %w", err)
	}
	return nil
}

// GetBillByID retrieves a bill with its ledger and items
func (r *Repository) GetBillByID(ctx context.Context, id int64) (*Bill, error) {
	query := `
		SELECT b.id, b.description, b.total_amount, b.split_method, b.payer_id,
		       b.is_settled, b.created_at, b.payment_deadline, b.version, u.username
		FROM bills b
		JOIN users u ON b.payer_id = u.id
		WHERE b.id = $1
	`

	b := &Bill{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID,
		&b.Description,
		&b.TotalAmount,
		&b.SplitMethod,
		&b.PayerID,
		&b.IsSettled,
		&b.CreatedAt,
		&b.PaymentDeadline,
		&b.Version,
		&b.PayerUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	if err := r.loadLedger(ctx, b); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBillsInvolving retrieves all bills where the user is the payer or a participant
func (r *Repository) ListBillsInvolving(ctx context.Context, userID int64) ([]*Bill, error) {
	query := `
		SELECT DISTINCT b.id
		FROM bills b
		LEFT JOIN bill_participants p ON p.bill_id = b.id
		WHERE b.payer_id = $1 OR p.user_id = $1
		ORDER BY b.id
	`
	return r.listByIDQuery(ctx, query, userID)
}

// ListBillsInvolvingPair retrieves bills that involve both users, either as
// payer or participant. This is the working set for pairwise debt views.
func (r *Repository) ListBillsInvolvingPair(ctx context.Context, userA, userB int64) ([]*Bill, error) {
	query := `
		SELECT DISTINCT b.id
		FROM bills b
		WHERE (b.payer_id = $1 OR EXISTS (
		          SELECT 1 FROM bill_participants p WHERE p.bill_id = b.id AND p.user_id = $1))
		  AND (b.payer_id = $2 OR EXISTS (
		          SELECT 1 FROM bill_participants p WHERE p.bill_id = b.id AND p.user_id = $2))
		ORDER BY b.id
	`
	return r.listByIDQuery(ctx, query, userA, userB)
}

// SaveLedger persists the mutable ledger state of one bill with an optimistic
// version check. At most one concurrent mutation per bill wins; the loser
// gets ErrVersionConflict.
func (r *Repository) SaveLedger(ctx context.Context, b *Bill) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveLedgerTx(ctx, tx, b); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger: %w", err)
	}
	b.Version++
	return nil
}

// SaveLedgers persists the ledgers of several bills in a single transaction.
// Either every bill's deltas commit or none do; a version conflict on any
// bill aborts the whole batch.
func (r *Repository) SaveLedgers(ctx context.Context, bills []*Bill) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, b := range bills {
		if err := saveLedgerTx(ctx, tx, b); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledgers: %w", err)
	}
	for _, b := range bills {
		b.Version++
	}
	return nil
}

func saveLedgerTx(ctx context.Context, tx *sql.Tx, b *Bill) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE bills SET is_settled = $1, version = version + 1
		WHERE id = $2 AND version = $3
	`, b.IsSettled, b.ID, b.Version)
	if err != nil {
		return fmt.Errorf("failed to update bill %d: %w", b.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check bill update: %w", err)
	}
	if affected == 0 {
		return ErrVersionConflict
	}

	for _, p := range b.Participants {
		_, err := tx.ExecContext(ctx, `
			UPDATE bill_participants
			SET owed = $1, paid = $2, paid_at = $3, excluded = $4
			WHERE bill_id = $5 AND user_id = $6
		`, int64(p.Owed), int64(p.Paid), p.PaidAt, p.Excluded, b.ID, p.UserID)
		if err != nil {
			return fmt.Errorf("failed to update participant %d on bill %d: %w", p.UserID, b.ID, err)
		}
	}
	return nil
}

func (r *Repository) listByIDQuery(ctx context.Context, query string, args ...interface{}) ([]*Bill, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bill id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	bills := make([]*Bill, 0, len(ids))
	for _, id := range ids {
		b, err := r.GetBillByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if b != nil {
			bills = append(bills, b)
		}
	}
	return bills, nil
}

func (r *Repository) loadLedger(ctx context.Context, b *Bill) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.user_id, p.owed, p.paid, p.paid_at, p.excluded, u.username
		FROM bill_participants p
		JOIN users u ON p.user_id = u.id
		WHERE p.bill_id = $1
		ORDER BY p.id
	`, b.ID)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p := &Participant{BillID: b.ID}
		var paidAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.UserID, &p.Owed, &p.Paid, &paidAt, &p.Excluded, &p.Username); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		if paidAt.Valid {
			t := paidAt.Time
			p.PaidAt = &t
		}
		b.Participants = append(b.Participants, p)
	}
	return rows.Err()
}

func (r *Repository) loadItems(ctx context.Context, b *Bill) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, unit_amount, quantity, allocated_to
		FROM bill_items
		WHERE bill_id = $1
		ORDER BY id
	`, b.ID)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := &Item{BillID: b.ID}
		if err := rows.Scan(&item.ID, &item.Name, &item.UnitAmount, &item.Quantity, pq.Array(&item.AllocatedTo)); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		b.Items = append(b.Items, item)
	}
	return rows.Err()
}
