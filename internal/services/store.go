package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"course-ai/internal/models"
)

// ArtifactStore writes generated documents as pretty-printed JSON files.
type ArtifactStore struct {
	dir string
}

func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{dir: dir}
}

// ArtifactName derives a file name from the user's topic: lower case, spaces
// replaced by underscores, with the given suffix such as "_course.json".
func ArtifactName(topic, suffix string) string {
	name := strings.ToLower(strings.ReplaceAll(topic, " ", "_"))
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)
	return name + suffix
}

// CoursePDFName is the download name for a rendered course.
func CoursePDFName(title string) string {
	return ArtifactName(fallbackName(title, "course"), "_course.pdf")
}

// QuizPDFName is the download name for a rendered quiz.
func QuizPDFName(title string) string {
	return "quiz_" + ArtifactName(fallbackName(title, "quiz"), ".pdf")
}

func fallbackName(title, fallback string) string {
	if strings.TrimSpace(title) == "" {
		return fallback
	}
	return title
}

// SaveCourse writes course under its topic name and returns the file path.
func (s *ArtifactStore) SaveCourse(topic string, course *models.CourseDocument) (string, error) {
	return s.save(ArtifactName(topic, "_course.json"), course)
}

// SaveQuiz writes quiz under its topic name and returns the file path.
func (s *ArtifactStore) SaveQuiz(topic string, quiz *models.QuizDocument) (string, error) {
	return s.save(ArtifactName(topic, "_quiz.json"), quiz)
}

// LoadCourse reads a course file leniently.
func (s *ArtifactStore) LoadCourse(path string) (*models.CourseDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read course: %w", err)
	}
	return models.UnmarshalCourse(data)
}

// LoadQuiz reads a quiz file leniently.
func (s *ArtifactStore) LoadQuiz(path string) (*models.QuizDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quiz: %w", err)
	}
	return models.UnmarshalQuiz(data)
}

func (s *ArtifactStore) save(name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}
