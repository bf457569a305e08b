// Package store is the persistence sink for normalized events.
package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/amityadav/stagefinder/internal/search"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists normalized events via pgx.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore opens a connection pool and verifies it.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

// SaveReport summarizes one batch save.
type SaveReport struct {
	Saved  int
	Errors []error
}

// SaveEvents upserts a batch of events. The upsert is idempotent on
// (source_provider, source_id): re-saving the same event refreshes its
// fields instead of duplicating it. Individual failures are collected, not
// fatal.
func (s *PostgresStore) SaveEvents(ctx context.Context, events []search.NormalizedEvent) *SaveReport {
	report := &SaveReport{}
	query := `
        INSERT INTO events (
            title, description, start_date, end_date, deadline,
            location, venue, price, currency, is_free, is_virtual,
            url, image_url, organizer, category,
            source_provider, source_id, scraped_at
        )
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
        ON CONFLICT (source_provider, source_id) DO UPDATE
        SET title = EXCLUDED.title, description = EXCLUDED.description,
            start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date,
            deadline = EXCLUDED.deadline, location = EXCLUDED.location,
            venue = EXCLUDED.venue, price = EXCLUDED.price,
            currency = EXCLUDED.currency, is_free = EXCLUDED.is_free,
            is_virtual = EXCLUDED.is_virtual, url = EXCLUDED.url,
            image_url = EXCLUDED.image_url, organizer = EXCLUDED.organizer,
            category = EXCLUDED.category, scraped_at = EXCLUDED.scraped_at,
            updated_at = NOW();
    `

	for _, e := range events {
		_, err := s.db.Exec(ctx, query,
			e.Title, e.Description, e.StartDate, e.EndDate, e.Deadline,
			e.Location, e.Venue, e.Price, e.Currency, e.IsFree, e.IsVirtual,
			e.URL, e.ImageURL, e.Organizer, e.Category,
			e.SourceProvider, e.SourceID, e.ScrapedAt,
		)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("save %s/%s: %w", e.SourceProvider, e.SourceID, err))
			continue
		}
		report.Saved++
	}

	log.Printf("[Store.SaveEvents] Saved %d/%d events (%d errors)", report.Saved, len(events), len(report.Errors))
	return report
}

// RecentEvents returns the latest events with an upcoming or unknown date.
func (s *PostgresStore) RecentEvents(ctx context.Context, limit int) ([]search.NormalizedEvent, error) {
	if limit < 1 || limit > search.MaxRequestedSize {
		limit = 50
	}
	query := `
        SELECT title, description, start_date, end_date, deadline,
               location, venue, price, currency, is_free, is_virtual,
               url, image_url, organizer, category,
               source_provider, source_id, scraped_at
        FROM events
        WHERE start_date IS NULL OR start_date >= NOW() - INTERVAL '24 hours'
        ORDER BY scraped_at DESC
        LIMIT $1;
    `
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []search.NormalizedEvent
	for rows.Next() {
		var e search.NormalizedEvent
		var startDate, endDate, deadline *time.Time
		if err := rows.Scan(
			&e.Title, &e.Description, &startDate, &endDate, &deadline,
			&e.Location, &e.Venue, &e.Price, &e.Currency, &e.IsFree, &e.IsVirtual,
			&e.URL, &e.ImageURL, &e.Organizer, &e.Category,
			&e.SourceProvider, &e.SourceID, &e.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.StartDate, e.EndDate, e.Deadline = startDate, endDate, deadline
		events = append(events, e)
	}
	return events, rows.Err()
}
