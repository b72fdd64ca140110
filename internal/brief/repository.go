package brief

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/selivandex/pulsebrief/pkg/daykey"
)

// Repository is the storage collaborator for daily briefs
type Repository interface {
	// ListDailyBriefs returns stored briefs, newest first
	ListDailyBriefs(ctx context.Context) ([]Record, error)
	// CreateDailyBrief stores a brief dated now and returns its id
	CreateDailyBrief(ctx context.Context, req CreateRequest) (int64, error)
	// GetDailyBrief returns brief by id or ErrNotFound
	GetDailyBrief(ctx context.Context, id int64) (*Record, error)
}

// FindByDay returns the first record whose date falls on dayKey in loc
func FindByDay(records []Record, dayKey string, loc *time.Location) *Record {
	for i := range records {
		if daykey.DayKey(records[i].Date.In(loc)) == dayKey {
			return &records[i]
		}
	}
	return nil
}

// SortNewestFirst orders records by date descending
func SortNewestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}

// PostgresRepository stores briefs in the daily_briefs table
type PostgresRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewPostgresRepository creates brief repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

type briefRow struct {
	ID               int64          `db:"id"`
	Date             time.Time      `db:"date"`
	Summary          string         `db:"summary"`
	KeyDrivers       pq.StringArray `db:"key_drivers"`
	WatchNext        pq.StringArray `db:"watch_next"`
	RiskCatalysts    []byte         `db:"risk_catalysts"`
	BullishScore     int            `db:"bullish_score"`
	VolatilityScore  int            `db:"volatility_score"`
	LiquidityScore   int            `db:"liquidity_score"`
	SignalNoiseScore int            `db:"signal_noise_score"`
}

func (row briefRow) record() (Record, error) {
	var catalysts []RiskCatalyst
	if len(row.RiskCatalysts) > 0 {
		if err := json.Unmarshal(row.RiskCatalysts, &catalysts); err != nil {
			return Record{}, fmt.Errorf("failed to decode risk catalysts of brief %d: %w", row.ID, err)
		}
	}

	return Record{
		ID:   row.ID,
		Date: row.Date,
		Content: Content{
			Summary:          row.Summary,
			KeyDrivers:       []string(row.KeyDrivers),
			WatchNext:        []string(row.WatchNext),
			RiskCatalysts:    catalysts,
			BullishScore:     row.BullishScore,
			VolatilityScore:  row.VolatilityScore,
			LiquidityScore:   row.LiquidityScore,
			SignalNoiseScore: row.SignalNoiseScore,
		},
	}, nil
}

const briefColumns = `id, date, summary, key_drivers, watch_next, risk_catalysts,
	bullish_score, volatility_score, liquidity_score, signal_noise_score`

// ListDailyBriefs returns all briefs, newest first
func (r *PostgresRepository) ListDailyBriefs(ctx context.Context) ([]Record, error) {
	var rows []briefRow
	query := `SELECT ` + briefColumns + ` FROM daily_briefs ORDER BY date DESC, id DESC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list daily briefs: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// CreateDailyBrief inserts a brief dated now
func (r *PostgresRepository) CreateDailyBrief(ctx context.Context, req CreateRequest) (int64, error) {
	catalysts, err := json.Marshal(req.RiskCatalysts)
	if err != nil {
		return 0, fmt.Errorf("failed to encode risk catalysts: %w", err)
	}

	var id int64
	err = r.db.QueryRowxContext(ctx, `
		INSERT INTO daily_briefs (
			date, summary, key_drivers, watch_next, risk_catalysts,
			bullish_score, volatility_score, liquidity_score, signal_noise_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`,
		r.now(),
		req.Summary,
		pq.Array(req.KeyDrivers),
		pq.Array(req.WatchNext),
		catalysts,
		req.BullishScore,
		req.VolatilityScore,
		req.LiquidityScore,
		req.SignalNoiseScore,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create daily brief: %w", err)
	}

	return id, nil
}

// GetDailyBrief returns brief by id
func (r *PostgresRepository) GetDailyBrief(ctx context.Context, id int64) (*Record, error) {
	var row briefRow
	query := `SELECT ` + briefColumns + ` FROM daily_briefs WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get daily brief %d: %w", id, err)
	}

	rec, err := row.record()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Compile-time interface checks.
var _ Repository = (*PostgresRepository)(nil)
var _ Repository = (*MemoryRepository)(nil)
