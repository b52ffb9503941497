package services

import (
	"fmt"
	"strings"

	"course-ai/internal/models"
)

// Prompt is a system/user message pair ready for a chat completion.
type Prompt struct {
	System string
	User   string
}

const (
	courseSystemMessage = "You are an expert educational content creator."
	quizSystemMessage   = "You are an expert educational assessment creator."
)

// CourseSchema is the JSON shape the model is asked to produce for a course.
const CourseSchema = `{
    "course_title": "string",
    "description": "string",
    "learning_objectives": ["string", "string", ...],
    "introduction": "string",
    "main_topics": [
        {
            "title": "string",
            "content": "string",
            "subtopics": [
                {
                    "title": "string",
                    "content": "string",
                    "examples": ["string", "string", ...],
                    "video_search_query": "string"
                },
                ...
            ],
            "video_search_query": "string"
        },
        ...
    ],
    "summary": "string",
    "key_takeaways": ["string", "string", ...]
}`

// QuizSchema is the JSON shape the model is asked to produce for a quiz.
const QuizSchema = `{
    "quiz_title": "string",
    "quiz_description": "string",
    "questions": [
        {
            "question": "string",
            "options": ["string", "string", "string", "string"],
            "correct_answer": "number (0-3, representing the index of the correct option)",
            "explanation": "string"
        },
        ...
    ]
}`

const videoQueryInstruction = `For each topic and subtopic, include a "video_search_query" field containing an optimized search query for finding
relevant instructional videos on YouTube. Make the query specific and include the most important keywords.`

// BuildCoursePrompt embeds the topic and optional search context into the
// course template. The output depends only on its inputs.
func BuildCoursePrompt(topic, searchContext string, includeVideos bool) Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert educational content creator. Your task is to create a comprehensive course on the topic: %s.\n\n", topic)
	b.WriteString("Here is some additional information from web search:\n")
	b.WriteString(searchContext)
	b.WriteString("\n\n")
	b.WriteString(`Please create a structured course with the following components:
1. Course Title
2. Description (1-2 paragraphs)
3. Learning Objectives (3-5 bullet points)
4. Introduction (3-4 paragraphs)
5. Main Topics (3-5 topics with subtopics)
   - For each topic, provide:
     - Title
     - Content (2-3 paragraphs)
     - Subtopics (5-6 per topic)
       - For each subtopic, provide:
         - Title
         - Content (1-2 paragraphs)
         - Examples (if applicable)
6. Summary (1 paragraph)
7. Key Takeaways (3-5 bullet points)
`)
	if includeVideos {
		b.WriteString("\n")
		b.WriteString(videoQueryInstruction)
		b.WriteString("\n")
	}
	b.WriteString("\nFormat your response as a JSON object with the following structure:\n")
	b.WriteString(CourseSchema)
	b.WriteString("\n\nMake sure the content is educational, accurate, and engaging.\n")

	return Prompt{System: courseSystemMessage, User: b.String()}
}

// BuildQuizPrompt flattens the course outline into the quiz template.
func BuildQuizPrompt(course *models.CourseDocument, quizCount int) Prompt {
	if course == nil {
		course = &models.CourseDocument{}
	}

	var b strings.Builder
	b.WriteString("You are an expert educational quiz creator. Your task is to create a comprehensive quiz for the following course content:\n\n")
	b.WriteString(FlattenCourse(course))
	fmt.Fprintf(&b, "\n\nPlease create a quiz with %d multiple-choice questions that:\n", quizCount)
	b.WriteString(`1. Cover the key concepts from the course
2. Range from basic to advanced difficulty
3. Include specific, clear questions
4. Have 4 answer options per question with only one correct answer
5. Include brief explanations for why the correct answer is right
`)
	b.WriteString("\nFormat your response as a JSON object with the following structure:\n")
	b.WriteString(QuizSchema)
	b.WriteString("\n\nMake sure the questions test understanding rather than just memorization.\n")

	return Prompt{System: quizSystemMessage, User: b.String()}
}

// FlattenCourse renders title, description and the topic outline as plain text.
func FlattenCourse(course *models.CourseDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Course Title: %s\n\nDescription: %s\n\nMain Topics:", course.Title, course.Description)
	for _, topic := range course.MainTopics {
		fmt.Fprintf(&b, "\n- %s: %s", topic.Title, topic.Content)
		for _, sub := range topic.Subtopics {
			fmt.Fprintf(&b, "\n  * %s: %s", sub.Title, sub.Content)
		}
	}
	return b.String()
}
