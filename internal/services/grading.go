package services

import "course-ai/internal/models"

const (
	unknownOptionText     = "Unknown"
	notAnsweredOptionText = "Not answered"
)

type QuestionResult struct {
	IsCorrect          bool   `json:"isCorrect"`
	CorrectOptionText  string `json:"correctOptionText"`
	SelectedOptionText string `json:"selectedOptionText"`
}

type GradeResult struct {
	PerQuestion   []QuestionResult `json:"perQuestion"`
	CorrectCount  int              `json:"correctCount"`
	QuestionCount int              `json:"questionCount"`
	ScorePercent  float64          `json:"scorePercent"`
}

// Band classifies the score for display: "good" from 80, "fair" from 60.
func (g GradeResult) Band() string {
	switch {
	case g.ScorePercent >= 80:
		return "good"
	case g.ScorePercent >= 60:
		return "fair"
	default:
		return "poor"
	}
}

// Grade scores one attempt. Selections past the end of selected count as
// unanswered; an out-of-range answer key can never be matched.
func Grade(quiz *models.QuizDocument, selected []int) GradeResult {
	if quiz == nil {
		return GradeResult{PerQuestion: []QuestionResult{}}
	}

	result := GradeResult{
		PerQuestion:   make([]QuestionResult, len(quiz.Questions)),
		QuestionCount: len(quiz.Questions),
	}
	for i, q := range quiz.Questions {
		choice := models.Unanswered
		if i < len(selected) {
			choice = selected[i]
		}
		res := QuestionResult{
			CorrectOptionText:  optionText(q.Options, q.CorrectAnswerIndex, unknownOptionText),
			SelectedOptionText: optionText(q.Options, choice, notAnsweredOptionText),
			IsCorrect:          q.HasValidAnswer() && choice == q.CorrectAnswerIndex,
		}
		if res.IsCorrect {
			result.CorrectCount++
		}
		result.PerQuestion[i] = res
	}
	if result.QuestionCount > 0 {
		result.ScorePercent = 100 * float64(result.CorrectCount) / float64(result.QuestionCount)
	}
	return result
}

func optionText(options []string, idx int, fallback string) string {
	if idx < 0 || idx >= len(options) {
		return fallback
	}
	return options[idx]
}
