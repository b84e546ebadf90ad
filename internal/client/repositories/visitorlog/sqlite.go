package visitorlog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/visitordesk/internal/client/models"
	"github.com/dmitrijs2005/visitordesk/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) LoadAll(ctx context.Context) ([]models.VisitorRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, email, purpose, host, notes,
		       entry_time, exit_time, status, logged_by, created_at
		FROM visitor_log
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load visitor log: %w", err)
	}
	defer rows.Close()

	records := make([]models.VisitorRecord, 0)
	for rows.Next() {
		var rec models.VisitorRecord
		err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Phone,
			&rec.Email,
			&rec.Purpose,
			&rec.Host,
			&rec.Notes,
			&rec.EntryTime,
			&rec.ExitTime,
			&rec.Status,
			&rec.LoggedBy,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visitor row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate visitor rows: %w", err)
	}

	return records, nil
}

func (r *SQLiteRepository) SaveAll(ctx context.Context, records []models.VisitorRecord) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM visitor_log`); err != nil {
			return fmt.Errorf("failed to clear visitor log: %w", err)
		}

		for _, rec := range records {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO visitor_log
					(id, name, phone, email, purpose, host, notes,
					 entry_time, exit_time, status, logged_by, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				rec.ID,
				rec.Name,
				rec.Phone,
				rec.Email,
				rec.Purpose,
				rec.Host,
				rec.Notes,
				rec.EntryTime,
				rec.ExitTime,
				rec.Status,
				rec.LoggedBy,
				rec.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert visitor %d: %w", rec.ID, err)
			}
		}
		return nil
	})
}
