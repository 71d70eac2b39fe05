package repository

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

type sqliteEvidenceRepository struct {
	db *sql.DB
}

func NewSQLiteEvidenceRepository(db *sql.DB) EvidenceRepository {
	return &sqliteEvidenceRepository{db: db}
}

func (r *sqliteEvidenceRepository) Upload(ctx context.Context, filename string, data io.Reader, contentType string, uploadedBy string) (string, error) {
	content, err := io.ReadAll(data)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO evidence_files (id, name, content_type, size, data, uploaded_by, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, filename, contentType, len(content), content, uploadedBy, time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("failed to store evidence file: %w", err)
	}
	return id, nil
}

func (r *sqliteEvidenceRepository) Open(ctx context.Context, fileID string) (*EvidenceFile, error) {
	var (
		name, contentType string
		size              int64
		content           []byte
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT name, content_type, size, data FROM evidence_files WHERE id = ?", fileID,
	).Scan(&name, &contentType, &size, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEvidenceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read evidence file: %w", err)
	}

	return &EvidenceFile{
		ID:          fileID,
		Name:        name,
		ContentType: contentType,
		Size:        size,
		Content:     io.NopCloser(bytes.NewReader(content)),
	}, nil
}

func (r *sqliteEvidenceRepository) Delete(ctx context.Context, fileID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM evidence_files WHERE id = ?", fileID)
	if err != nil {
		return fmt.Errorf("failed to delete evidence file: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrEvidenceNotFound
	}
	return nil
}
