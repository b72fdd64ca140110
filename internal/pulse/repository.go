package pulse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository is the storage collaborator for market pulse updates
type Repository interface {
	// ListMarketPulseUpdates returns stored updates, newest first
	ListMarketPulseUpdates(ctx context.Context) ([]Record, error)
	// CreateMarketPulseUpdate stores updateText stamped now. It fails with
	// ErrNotNewInformation when the text repeats previousUpdateText or the
	// latest stored update.
	CreateMarketPulseUpdate(ctx context.Context, updateText, previousUpdateText string) (int64, error)
	// GetMarketPulseUpdate returns update by id or ErrNotFound
	GetMarketPulseUpdate(ctx context.Context, id int64) (*Record, error)
}

// PostgresRepository stores updates in the market_pulse_updates table
type PostgresRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewPostgresRepository creates pulse repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

type updateRow struct {
	ID         int64     `db:"id"`
	UpdateText string    `db:"update_text"`
	Timestamp  time.Time `db:"timestamp"`
}

func (row updateRow) record() Record {
	return Record{ID: row.ID, UpdateText: row.UpdateText, Timestamp: row.Timestamp}
}

// ListMarketPulseUpdates returns all updates, newest first
func (r *PostgresRepository) ListMarketPulseUpdates(ctx context.Context) ([]Record, error) {
	var rows []updateRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, update_text, "timestamp"
		FROM market_pulse_updates
		ORDER BY "timestamp" DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list market pulse updates: %w", err)
	}

	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = row.record()
	}
	return records, nil
}

// CreateMarketPulseUpdate validates and inserts an update stamped now
func (r *PostgresRepository) CreateMarketPulseUpdate(ctx context.Context, updateText, previousUpdateText string) (int64, error) {
	if err := CheckNewInformation(updateText, previousUpdateText); err != nil {
		return 0, err
	}

	var latest string
	err := r.db.GetContext(ctx, &latest, `
		SELECT update_text FROM market_pulse_updates
		ORDER BY "timestamp" DESC, id DESC
		LIMIT 1
	`)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to load latest market pulse update: %w", err)
	}
	if err == nil && (latest == updateText || Identical(latest, updateText)) {
		return 0, ErrNotNewInformation
	}

	var id int64
	err = r.db.QueryRowxContext(ctx, `
		INSERT INTO market_pulse_updates (update_text, "timestamp")
		VALUES ($1, $2)
		RETURNING id
	`, updateText, r.now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create market pulse update: %w", err)
	}

	return id, nil
}

// GetMarketPulseUpdate returns update by id
func (r *PostgresRepository) GetMarketPulseUpdate(ctx context.Context, id int64) (*Record, error) {
	var row updateRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, update_text, "timestamp" FROM market_pulse_updates WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get market pulse update %d: %w", id, err)
	}

	rec := row.record()
	return &rec, nil
}

var (
	_ Repository = (*PostgresRepository)(nil)
	_ Repository = (*MemoryRepository)(nil)
)
