package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-ai/internal/db"
	"course-ai/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHistoryRecordAndList(t *testing.T) {
	ctx := context.Background()
	history := NewHistoryService(openTestDB(t))

	course, err := history.Record(ctx, models.Generation{
		Kind:         models.GenerationCourse,
		Topic:        "graph theory",
		Title:        "Graphs",
		ArtifactPath: sql.NullString{String: "/tmp/graph_theory_course.json", Valid: true},
		ItemCount:    4,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, course.ID)
	assert.False(t, course.CreatedAt.IsZero())

	_, err = history.Record(ctx, models.Generation{Kind: models.GenerationQuiz, Topic: "graph theory", Title: "Graph Quiz", ItemCount: 7})
	require.NoError(t, err)

	items, err := history.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.GenerationQuiz, items[0].Kind)
	assert.False(t, items[0].ArtifactPath.Valid)
	assert.Equal(t, "/tmp/graph_theory_course.json", items[1].ArtifactPath.String)
	assert.Equal(t, 4, items[1].ItemCount)

	items, err = history.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
