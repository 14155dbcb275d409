package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*** DTOs shared across handlers ***/

type ChapterSummaryDTO struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Position int     `json:"position"`
	VideoURL *string `json:"video_url,omitempty"`
}

type CourseDTO struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description,omitempty"`
	ImageURL    *string             `json:"image_url,omitempty"`
	Chapters    []ChapterSummaryDTO `json:"chapters"`
}

type QuizDTO struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	IsPractice  bool       `json:"is_practice"`
	Questions   []Question `json:"questions"`
}

// visibleChapters is the student-facing view of a course's chapters: published
// originals only, position ascending. Drafts are unpublished by invariant and
// must not hide their original here, so there is no collapse on this path.
func visibleChapters(db *gorm.DB, courseID string) ([]Chapter, error) {
	var chapters []Chapter
	if err := db.Where("course_id = ? AND published = ? AND draft_of IS NULL", courseID, true).
		Order("position ASC").Find(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

func chapterSummaries(chapters []Chapter) []ChapterSummaryDTO {
	out := make([]ChapterSummaryDTO, 0, len(chapters))
	for _, ch := range chapters {
		out = append(out, ChapterSummaryDTO{
			ID: ch.ID, Title: ch.Title, Position: ch.Position, VideoURL: ch.VideoURL,
		})
	}
	return out
}

/*** Student-facing catalog ***/

// GET /api/v1/courses
func ListCourses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var courses []Course
		if err := db.Order("created_at ASC").Find(&courses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		out := make([]CourseDTO, 0, len(courses))
		for _, course := range courses {
			chapters, err := visibleChapters(db, course.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
				return
			}
			out = append(out, CourseDTO{
				ID:          course.ID,
				Title:       course.Title,
				Description: course.Description,
				ImageURL:    course.ImageURL,
				Chapters:    chapterSummaries(chapters),
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

// GET /api/v1/courses/:id
func GetCourse(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var course Course
		if err := db.First(&course, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		chapters, err := visibleChapters(db, course.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		c.JSON(http.StatusOK, CourseDTO{
			ID:          course.ID,
			Title:       course.Title,
			Description: course.Description,
			ImageURL:    course.ImageURL,
			Chapters:    chapterSummaries(chapters),
		})
	}
}

// GET /api/v1/courses/:id/chapters
func ListCourseChapters(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		chapters, err := visibleChapters(db, c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		c.JSON(http.StatusOK, chapters)
	}
}

// GET /api/v1/chapters/:id/quizzes?practice=true|false
// Quizzes for a chapter with their published questions, the view students
// take quizzes from. Pending drafts stay invisible and leave the live
// original in place.
func ListChapterQuizzes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		chapterID := c.Param("id")
		q := db.Where("chapter_id = ?", chapterID)
		switch c.Query("practice") {
		case "true":
			q = q.Where("is_practice = ?", true)
		case "false":
			q = q.Where("is_practice = ?", false)
		}
		var quizzes []Quiz
		if err := q.Find(&quizzes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}

		out := make([]QuizDTO, 0, len(quizzes))
		for _, quiz := range quizzes {
			var questions []Question
			if err := db.Preload("Choices").
				Where("quiz_id = ? AND published = ? AND draft_of IS NULL", quiz.ID, true).
				Order("position ASC").Find(&questions).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
				return
			}
			out = append(out, QuizDTO{
				ID:          quiz.ID,
				Title:       quiz.Title,
				Description: quiz.Description,
				IsPractice:  quiz.IsPractice,
				Questions:   questions,
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

/*** Course authoring ***/

type CourseCreateReq struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// GET /api/v1/admin/courses
func ListAdminCourses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var courses []Course
		if err := db.Order("created_at ASC").Find(&courses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		c.JSON(http.StatusOK, courses)
	}
}

// POST /api/v1/admin/courses
func CreateCourse(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CourseCreateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		course := Course{
			ID:          uuid.New().String(),
			Title:       req.Title,
			Description: req.Description,
			ImageURL:    req.ImageURL,
		}
		if err := db.Create(&course).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		c.JSON(http.StatusCreated, course)
	}
}
