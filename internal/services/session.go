package services

import (
	"sync"

	"course-ai/internal/models"
)

// Session owns the active course, the quiz derived from it and the current
// attempt for one user. Each action replaces only the part it owns.
type Session struct {
	mu      sync.RWMutex
	course  *models.CourseDocument
	quiz    *models.QuizDocument
	attempt models.QuizAttempt
}

func NewSession() *Session {
	return &Session{}
}

// SessionSnapshot is a read-only view handed to renderers.
type SessionSnapshot struct {
	Course  *models.CourseDocument
	Quiz    *models.QuizDocument
	Attempt models.QuizAttempt
}

func (s *Session) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionSnapshot{
		Course: s.course,
		Quiz:   s.quiz,
		Attempt: models.QuizAttempt{
			Selected:  append([]int(nil), s.attempt.Selected...),
			Submitted: s.attempt.Submitted,
		},
	}
}

func (s *Session) Course() *models.CourseDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.course
}

func (s *Session) Quiz() *models.QuizDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quiz
}

// SetCourse replaces the active course wholesale. The current quiz is kept.
func (s *Session) SetCourse(course *models.CourseDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.course = course
}

// SetQuiz installs a new quiz and resets the attempt.
func (s *Session) SetQuiz(quiz *models.QuizDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiz = quiz
	s.attempt = models.NewQuizAttempt(questionCount(quiz))
}

// Select records one answer. Out-of-range questions are ignored; any option
// value is stored as given and graded later.
func (s *Session) Select(question, option int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if question < 0 || question >= len(s.attempt.Selected) {
		return
	}
	s.attempt.Selected[question] = option
}

// SetAnswers overwrites all selections; missing entries become unanswered.
func (s *Session) SetAnswers(selected []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.attempt.Selected {
		if i < len(selected) {
			s.attempt.Selected[i] = selected[i]
		} else {
			s.attempt.Selected[i] = models.Unanswered
		}
	}
}

// Submit marks the attempt submitted and grades it.
func (s *Session) Submit() GradeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempt.Submitted = true
	return Grade(s.quiz, s.attempt.Selected)
}

// Retry clears the selections of the current quiz.
func (s *Session) Retry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempt = models.NewQuizAttempt(questionCount(s.quiz))
}

func questionCount(quiz *models.QuizDocument) int {
	if quiz == nil {
		return 0
	}
	return len(quiz.Questions)
}
