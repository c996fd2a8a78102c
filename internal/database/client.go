// Package database holds the gorm connection used to read poll results from
// PostgreSQL or TimescaleDB.
package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultTable is the table poll results are read from when none is
// configured.
const DefaultTable = "poll_results"

// Client holds the connection to a PostgreSQL database
type Client struct {
	connectionString string
	table            string
	DB               *gorm.DB // Exported so it can be accessed from other packages
	logger           *zap.SugaredLogger
}

// NewClient creates a new database client. An empty table selects
// DefaultTable.
func NewClient(connectionString, table string, logger *zap.SugaredLogger) *Client {
	if table == "" {
		table = DefaultTable
	}
	return &Client{
		connectionString: connectionString,
		table:            table,
		logger:           logger,
	}
}

// Connect opens the database connection
func (c *Client) Connect() error {
	// gorm logs through zap at warn level and above
	dbLogger := logger.New(
		zap.NewStdLog(c.logger.Desugar()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	c.logger.Info("connecting to PostgreSQL...")
	db, err := gorm.Open(postgres.Open(c.connectionString), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return fmt.Errorf("unable to create a PostgreSQL connection: %w", err)
	}
	c.DB = db
	c.logger.Info("PostgreSQL connection successful")

	return nil
}

// Close closes the underlying connection pool
func (c *Client) Close() error {
	if c.DB == nil {
		return nil
	}
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates the poll results table if it does not exist
func (c *Client) Migrate() error {
	return c.DB.Table(c.table).AutoMigrate(&PollRow{})
}

// FetchPollRows returns every row for the voter type, oldest first
func (c *Client) FetchPollRows(ctx context.Context, voterType string) ([]PollRow, error) {
	var rows []PollRow
	err := c.DB.WithContext(ctx).
		Table(c.table).
		Where("voter_type = ?", voterType).
		Order("date, pollster, party").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error querying %s for %s polls: %w", c.table, voterType, err)
	}
	return rows, nil
}
