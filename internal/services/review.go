package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	fsrs "github.com/open-spaced-repetition/go-fsrs"

	"course-ai/internal/models"
)

// ReviewService schedules quiz questions for spaced review with FSRS. A correct
// answer rates the question Good, anything else rates it Again.
type ReviewService struct {
	db     *sql.DB
	params fsrs.Parameters
	now    func() time.Time
}

func NewReviewService(db *sql.DB) *ReviewService {
	return &ReviewService{
		db:     db,
		params: fsrs.DefaultParam(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// QuestionKey identifies a question across regenerations of the same course.
func QuestionKey(courseTitle, prompt string) string {
	sum := sha256.Sum256([]byte(courseTitle + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}

// RecordAttempt reviews every gradable question of a submitted attempt and
// returns the number of cards updated. Questions with an unknown answer key
// are skipped.
func (s *ReviewService) RecordAttempt(ctx context.Context, courseTitle string, quiz *models.QuizDocument, selected []int) (n int, err error) {
	if quiz == nil {
		return 0, nil
	}
	graded := Grade(quiz, selected)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := s.now()
	for i, q := range quiz.Questions {
		if !q.HasValidAnswer() {
			continue
		}
		rating := fsrs.Again
		if graded.PerQuestion[i].IsCorrect {
			rating = fsrs.Good
		}

		var card *models.ReviewCard
		card, err = s.loadOrCreate(ctx, tx, courseTitle, q, now)
		if err != nil {
			return 0, err
		}
		if _, err = s.review(ctx, tx, card, rating, now); err != nil {
			return 0, err
		}
		n++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit review: %w", err)
	}
	return n, nil
}

// DueQuestions returns cards whose due time has passed, oldest first.
func (s *ReviewService) DueQuestions(ctx context.Context, limit int) ([]models.ReviewCard, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reviewCardColumns+`
		FROM review_cards
		WHERE due IS NOT NULL AND due <= ?
		ORDER BY due ASC
		LIMIT ?;
	`, s.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("query due cards: %w", err)
	}
	defer rows.Close()

	var out []models.ReviewCard
	for rows.Next() {
		card, err := scanReviewCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *card)
	}
	return out, rows.Err()
}

const reviewCardColumns = `id, question_key, course_title, prompt, correct_answer, explanation, due,
		       stability, difficulty, elapsed_days, scheduled_days, reps, lapses, state,
		       last_review, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReviewCard(row rowScanner) (*models.ReviewCard, error) {
	card := &models.ReviewCard{}
	if err := row.Scan(
		&card.ID,
		&card.QuestionKey,
		&card.CourseTitle,
		&card.Prompt,
		&card.CorrectAnswer,
		&card.Explanation,
		&card.Due,
		&card.Stability,
		&card.Difficulty,
		&card.ElapsedDays,
		&card.ScheduledDays,
		&card.Reps,
		&card.Lapses,
		&card.State,
		&card.LastReview,
		&card.CreatedAt,
		&card.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *ReviewService) loadOrCreate(ctx context.Context, tx *sql.Tx, courseTitle string, q models.QuizQuestion, now time.Time) (*models.ReviewCard, error) {
	key := QuestionKey(courseTitle, q.Prompt)
	row := tx.QueryRowContext(ctx, `SELECT `+reviewCardColumns+` FROM review_cards WHERE question_key = ?;`, key)
	card, err := scanReviewCard(row)
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load review card: %w", err)
	}

	card = &models.ReviewCard{
		QuestionKey:   key,
		CourseTitle:   courseTitle,
		Prompt:        q.Prompt,
		CorrectAnswer: q.Options[q.CorrectAnswerIndex],
		Explanation:   q.Explanation,
		Due:           sql.NullTime{Time: now, Valid: true},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	card.ApplyFSRSCard(fsrs.NewCard())
	card.Due = sql.NullTime{Time: now, Valid: true}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO review_cards (question_key, course_title, prompt, correct_answer, explanation, due,
		                          stability, difficulty, elapsed_days, scheduled_days, reps, lapses, state,
		                          last_review, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		card.QuestionKey,
		card.CourseTitle,
		card.Prompt,
		card.CorrectAnswer,
		card.Explanation,
		nullTimePtr(card.Due),
		card.Stability,
		card.Difficulty,
		card.ElapsedDays,
		card.ScheduledDays,
		card.Reps,
		card.Lapses,
		card.State,
		nullTimePtr(card.LastReview),
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert review card: %w", err)
	}
	if card.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("review card id: %w", err)
	}
	return card, nil
}

func (s *ReviewService) review(ctx context.Context, tx *sql.Tx, card *models.ReviewCard, rating fsrs.Rating, now time.Time) (*models.ReviewLog, error) {
	scheduling := s.params.Repeat(card.ToFSRSCard(), now)
	info, ok := scheduling[rating]
	if !ok {
		return nil, fmt.Errorf("rating %d not supported", rating)
	}
	card.ApplyFSRSCard(info.Card)
	card.UpdatedAt = now

	if _, err := tx.ExecContext(ctx, `
		UPDATE review_cards
		SET due = ?, stability = ?, difficulty = ?, elapsed_days = ?, scheduled_days = ?,
		    reps = ?, lapses = ?, state = ?, last_review = ?, updated_at = ?
		WHERE id = ?;
	`,
		nullTimePtr(card.Due),
		card.Stability,
		card.Difficulty,
		card.ElapsedDays,
		card.ScheduledDays,
		card.Reps,
		card.Lapses,
		card.State,
		nullTimePtr(card.LastReview),
		card.UpdatedAt,
		card.ID,
	); err != nil {
		return nil, fmt.Errorf("update review card %d: %w", card.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO review_logs (card_id, rating, scheduled_days, elapsed_days, state, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?);
	`, card.ID, info.ReviewLog.Rating, info.ReviewLog.ScheduledDays, info.ReviewLog.ElapsedDays, info.ReviewLog.State, now); err != nil {
		return nil, fmt.Errorf("insert review log: %w", err)
	}

	return &models.ReviewLog{
		CardID:        card.ID,
		Rating:        int(info.ReviewLog.Rating),
		ScheduledDays: int(info.ReviewLog.ScheduledDays),
		ElapsedDays:   int(info.ReviewLog.ElapsedDays),
		State:         int(info.ReviewLog.State),
		ReviewedAt:    now,
	}, nil
}

func nullTimePtr(t sql.NullTime) any {
	if t.Valid {
		return t.Time
	}
	return nil
}
