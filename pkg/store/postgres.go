package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/movimail/movimail/pkg/models"
)

type transactionRow struct {
	bun.BaseModel `bun:"table:transactions,alias:t"`

	ID                  int64           `bun:"id,pk,autoincrement"`
	UserID              string          `bun:"user_id,notnull"`
	Amount              decimal.Decimal `bun:"amount,notnull"`
	Description         string          `bun:"description,notnull"`
	Date                time.Time       `bun:"date,notnull"`
	Source              string          `bun:"source,notnull"`
	TransactionType     string          `bun:"transaction_type,notnull"`
	EmailID             string          `bun:"email_id,notnull,unique"`
	EmailSubject        string          `bun:"email_subject"`
	NeedsCategorization bool            `bun:"needs_categorization"`
	CreatedAt           time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Postgres stores transactions in a Postgres database through bun. All
// rows are owned by the user id the store was constructed with.
type Postgres struct {
	db     *bun.DB
	userID string
}

// NewPostgres opens a connection from a DSN and verifies it with a ping.
func NewPostgres(dsn, userID string) (*Postgres, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if err := sqldb.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return &Postgres{db: bun.NewDB(sqldb, pgdialect.New()), userID: userID}, nil
}

// Init creates the transactions table when it does not exist yet.
func (s *Postgres) Init(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*transactionRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("creating transactions table: %w", err)
	}
	return nil
}

// Save inserts a validated transaction. A unique-constraint violation on
// email_id maps to ErrDuplicate.
func (s *Postgres) Save(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	row, err := s.rowFrom(tx)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("inserting transaction: %w", err)
	}
	return tx, nil
}

// Recent returns the latest stored transactions for the owning user,
// newest first.
func (s *Postgres) Recent(ctx context.Context, limit int) ([]*models.Transaction, error) {
	var rows []transactionRow
	err := s.db.NewSelect().Model(&rows).
		Where("user_id = ?", s.userID).
		OrderExpr("date DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("selecting transactions: %w", err)
	}

	txs := make([]*models.Transaction, 0, len(rows))
	for i := range rows {
		txs = append(txs, rows[i].transaction())
	}
	return txs, nil
}

// Close releases the underlying connection pool.
func (s *Postgres) Close() error {
	return s.db.Close()
}

func (s *Postgres) rowFrom(tx *models.Transaction) (*transactionRow, error) {
	date, err := time.Parse(time.RFC3339, tx.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing transaction date %q: %w", tx.Date, err)
	}
	return &transactionRow{
		UserID:              s.userID,
		Amount:              tx.Amount,
		Description:         tx.Description,
		Date:                date,
		Source:              string(tx.Source),
		TransactionType:     string(tx.Type),
		EmailID:             tx.EmailID,
		EmailSubject:        tx.EmailSubject,
		NeedsCategorization: tx.NeedsCategorization,
	}, nil
}

func (r *transactionRow) transaction() *models.Transaction {
	return &models.Transaction{
		Amount:              r.Amount,
		Description:         r.Description,
		Date:                r.Date.UTC().Format(time.RFC3339),
		Source:              models.Source(r.Source),
		Type:                models.Type(r.TransactionType),
		EmailID:             r.EmailID,
		EmailSubject:        r.EmailSubject,
		NeedsCategorization: r.NeedsCategorization,
	}
}
