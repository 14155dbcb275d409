package main

import (
	"time"
)

// --- Catalog ---

type Course struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	Title       string  `gorm:"not null" json:"title"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Chapter rows come in two flavours: originals (DraftOf == nil) and drafts
// (DraftOf pointing at the original whose pending edits they hold). At most
// one draft may exist per original; draft rows are never published.
type Chapter struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	CourseID    string  `gorm:"index;not null" json:"course_id"`
	Position    int     `gorm:"not null;default:1" json:"position"`
	Title       string  `gorm:"not null" json:"title"`
	Description *string `json:"description,omitempty"`
	VideoURL    *string `json:"video_url,omitempty"`
	Published   bool    `gorm:"not null;default:false" json:"published"`
	DraftOf     *string `gorm:"index;size:36" json:"draft_of,omitempty"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Quiz struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	ChapterID   string  `gorm:"index;not null" json:"chapter_id"`
	Title       string  `gorm:"not null" json:"title"`
	Description *string `json:"description,omitempty"`
	IsPractice  bool    `gorm:"not null;default:false" json:"is_practice"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Question has the same original/draft duality as Chapter, scoped to a quiz.
type Question struct {
	ID        string   `gorm:"primaryKey;size:36" json:"id"`
	QuizID    string   `gorm:"index;not null" json:"quiz_id"`
	Position  int      `gorm:"not null;default:1" json:"position"`
	Text      string   `gorm:"not null" json:"text"`
	Type      string   `gorm:"not null;default:'multiple_choice';size:32" json:"type"`
	Points    int      `gorm:"not null;default:1" json:"points"`
	Image     *string  `json:"image,omitempty"`
	Published bool     `gorm:"not null;default:false" json:"published"`
	DraftOf   *string  `gorm:"index;size:36" json:"draft_of,omitempty"`
	Choices   []Choice `json:"choices"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Choice is owned exclusively by its Question and is always replaced
// wholesale on edit, never patched field by field.
type Choice struct {
	ID         string  `gorm:"primaryKey;size:36" json:"id"`
	QuestionID string  `gorm:"index;not null" json:"question_id"`
	Text       string  `gorm:"not null" json:"text"`
	IsCorrect  bool    `gorm:"not null;default:false" json:"is_correct"`
	Image      *string `json:"image,omitempty"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// --- Students & attempts ---

type Student struct {
	ID          string `gorm:"primaryKey;size:36"`
	PublicID    string `gorm:"uniqueIndex;size:36;not null"`
	DisplayName *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Submission struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	QuizID     string     `gorm:"index;not null" json:"quiz_id"`
	StudentID  string     `gorm:"index;not null" json:"-"`
	Score      *float64   `json:"score,omitempty"`
	Graded     bool       `gorm:"not null;default:false" json:"graded"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Answers    []Answer   `json:"answers,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type Answer struct {
	ID           string  `gorm:"primaryKey;size:36" json:"id"`
	SubmissionID string  `gorm:"index;not null" json:"submission_id"`
	QuestionID   string  `gorm:"not null" json:"question_id"`
	ChoiceID     *string `gorm:"size:36" json:"choice_id,omitempty"`
	TextAnswer   *string `json:"text_answer,omitempty"`
	CreatedAt    time.Time
}

type Grade struct {
	ID           string  `gorm:"primaryKey;size:36" json:"id"`
	SubmissionID string  `gorm:"index;not null" json:"submission_id"`
	Points       float64 `gorm:"not null" json:"points"`
	Feedback     string  `json:"feedback"`
	CreatedAt    time.Time
}
