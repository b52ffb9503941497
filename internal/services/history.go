package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"course-ai/internal/models"
)

// HistoryService keeps a log of generated courses and quizzes.
type HistoryService struct {
	db *sql.DB
}

func NewHistoryService(db *sql.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Record stores gen with a fresh id and timestamp and returns the stored row.
func (s *HistoryService) Record(ctx context.Context, gen models.Generation) (*models.Generation, error) {
	gen.ID = uuid.NewString()
	gen.CreatedAt = time.Now().UTC()

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO generations (id, kind, topic, title, artifact_path, item_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?);
	`, gen.ID, string(gen.Kind), gen.Topic, gen.Title, nullStringPtr(gen.ArtifactPath), gen.ItemCount, gen.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert generation: %w", err)
	}
	return &gen, nil
}

// List returns the most recent generations first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]models.Generation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, topic, title, artifact_path, item_count, created_at
		FROM generations
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	var out []models.Generation
	for rows.Next() {
		var gen models.Generation
		var kind string
		if err := rows.Scan(&gen.ID, &kind, &gen.Topic, &gen.Title, &gen.ArtifactPath, &gen.ItemCount, &gen.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		gen.Kind = models.GenerationKind(kind)
		out = append(out, gen)
	}
	return out, rows.Err()
}

func nullStringPtr(v sql.NullString) any {
	if v.Valid {
		return v.String
	}
	return nil
}
