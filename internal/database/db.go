package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Alias1177/ChartBot/internal/model"
	_ "github.com/lib/pq"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the lib/pq connection string
func (p ConnectionParams) DSN() string {
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, sslMode,
	)
}

// New creates a new database connection
func New(ctx context.Context, params ConnectionParams) (*DB, error) {
	db, err := sql.Open("postgres", params.DSN())
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	// Create tables if they don't exist
	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS plot_requests (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			chat_id BIGINT NOT NULL,
			ticker TEXT NOT NULL,
			period TEXT NOT NULL,
			interval TEXT NOT NULL,
			url TEXT,
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS plot_requests_user_created_idx
		ON plot_requests (user_id, created_at DESC)
	`)
	return err
}

// RecordPlot stores the outcome of a /plot command
func (db *DB) RecordPlot(ctx context.Context, rec model.PlotRecord) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO plot_requests (user_id, chat_id, ticker, period, interval, url, status)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
	`, rec.UserID, rec.ChatID, rec.Ticker, rec.Period, rec.Interval, rec.URL, rec.Status)

	return err
}

// RecentPlots returns the latest delivered charts of a user, newest first
func (db *DB) RecentPlots(ctx context.Context, userID int64, limit int) ([]model.PlotRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, user_id, chat_id, ticker, period, interval, url, status, created_at
		FROM plot_requests
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, userID, model.PlotStatusDelivered, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.PlotRecord
	for rows.Next() {
		var rec model.PlotRecord
		var url sql.NullString
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.ChatID, &rec.Ticker, &rec.Period,
			&rec.Interval, &url, &rec.Status, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if url.Valid {
			rec.URL = url.String
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
