package database

import (
	"context"
	"fmt"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/internal/adapters/config"
	"github.com/selivandex/pulsebrief/pkg/logger"
)

// NewClickHouse connects to ClickHouse through its database/sql driver
func NewClickHouse(ctx context.Context, cfg *config.ClickHouseConfig) (*DB, error) {
	conn, err := sqlx.ConnectContext(ctx, "clickhouse", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	logger.Info("ClickHouse connection established",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
	)

	return &DB{conn: conn}, nil
}
