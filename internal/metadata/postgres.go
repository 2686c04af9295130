// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStore writes records to the image_metadata table created by the
// database migrations.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgresStore with the given database connection.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// metadataColumns lists the columns selected in metadata queries.
const metadataColumns = `public_id, secure_url, category, name, description,
	format, width, height, size_bytes, created_at`

// Save upserts the record keyed by public ID.
func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO image_metadata (`+metadataColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (public_id) DO UPDATE SET
			secure_url = EXCLUDED.secure_url,
			category = EXCLUDED.category,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			format = EXCLUDED.format,
			width = EXCLUDED.width,
			height = EXCLUDED.height,
			size_bytes = EXCLUDED.size_bytes`,
		rec.PublicID, rec.SecureURL, rec.Category, rec.Name, rec.Description,
		rec.Format, rec.Width, rec.Height, rec.Bytes, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save metadata: %w", err)
	}
	return nil
}

// Delete removes the record. Deleting a missing record is not an error.
func (s *PostgresStore) Delete(ctx context.Context, publicID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM image_metadata WHERE public_id = $1`, publicID); err != nil {
		return fmt.Errorf("delete metadata: %w", err)
	}
	return nil
}

// get retrieves a record, returning (nil, nil) when it does not exist.
func (s *PostgresStore) get(ctx context.Context, publicID string) (*Record, error) {
	var rec Record
	err := s.db.QueryRowContext(ctx,
		`SELECT `+metadataColumns+` FROM image_metadata WHERE public_id = $1`, publicID,
	).Scan(
		&rec.PublicID, &rec.SecureURL, &rec.Category, &rec.Name, &rec.Description,
		&rec.Format, &rec.Width, &rec.Height, &rec.Bytes, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get metadata: %w", err)
	}
	return &rec, nil
}
