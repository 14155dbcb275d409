package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChapterCreateReq struct {
	CourseID    string  `json:"course_id" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Position    int     `json:"position"`
	Description *string `json:"description"`
	VideoURL    *string `json:"video_url"`
	DraftOf     *string `json:"draft_of"`
}

type ChapterUpdateReq struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	VideoURL    *string `json:"video_url"`
	Position    *int    `json:"position"`
	Draft       bool    `json:"draft"`
}

// GET /api/v1/admin/chapters?course_id=...
// Authoring list: all chapters for the course, collapsed so each logical
// chapter appears once (its draft when one is pending).
func ListAdminChapters(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID := c.Query("course_id")
		if courseID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "course_id query parameter required"})
			return
		}
		var chapters []Chapter
		if err := db.Where("course_id = ?", courseID).
			Order("position ASC").Find(&chapters).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		c.JSON(http.StatusOK, collapseDrafts(chapters))
	}
}

// POST /api/v1/admin/chapters
// New chapters start unpublished; draft_of links the row to an original when
// the caller is staging an edit.
func CreateChapter(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChapterCreateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "course_id and title are required"})
			return
		}
		if req.Position <= 0 {
			req.Position = 1
		}
		ch := Chapter{
			ID:          uuid.New().String(),
			CourseID:    req.CourseID,
			Position:    req.Position,
			Title:       req.Title,
			Description: req.Description,
			VideoURL:    req.VideoURL,
			DraftOf:     req.DraftOf,
		}
		if err := db.Create(&ch).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		c.JSON(http.StatusCreated, ch)
	}
}

// GET /api/v1/admin/chapters/:id
func GetChapter(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ch Chapter
		if err := db.First(&ch, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "chapter not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		c.JSON(http.StatusOK, ch)
	}
}

// PUT /api/v1/admin/chapters/:id
// draft=true stages the edit as a copy-on-write draft row instead of
// touching the original.
func UpdateChapter(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var req ChapterUpdateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}

		if req.Draft {
			draft, status, err := upsertChapterDraft(db, id, req)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "original chapter not found"})
					return
				}
				zlog.Errorw("chapter draft upsert failed", "chapter_id", id, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
				return
			}
			c.JSON(status, draft)
			return
		}

		var existing Chapter
		if err := db.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "chapter not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		patch := map[string]interface{}{
			"title":       req.Title,
			"description": req.Description,
			"video_url":   req.VideoURL,
		}
		if req.Position != nil {
			patch["position"] = *req.Position
		}
		if err := db.Model(&Chapter{}).Where("id = ?", id).Updates(patch).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		var updated Chapter
		if err := db.First(&updated, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// upsertChapterDraft reuses the single pending draft for an original when one
// exists, otherwise creates it.
func upsertChapterDraft(db *gorm.DB, originalID string, req ChapterUpdateReq) (*Chapter, int, error) {
	var original Chapter
	if err := db.First(&original, "id = ?", originalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	position := original.Position
	if req.Position != nil {
		position = *req.Position
	}

	var existing []Chapter
	if err := db.Where("draft_of = ?", originalID).Limit(1).Find(&existing).Error; err != nil {
		return nil, 0, err
	}

	if len(existing) > 0 {
		patch := map[string]interface{}{
			"course_id":   original.CourseID,
			"title":       req.Title,
			"description": req.Description,
			"video_url":   req.VideoURL,
			"position":    position,
			"published":   false,
		}
		if err := db.Model(&Chapter{}).Where("id = ?", existing[0].ID).Updates(patch).Error; err != nil {
			return nil, 0, err
		}
		var draft Chapter
		if err := db.First(&draft, "id = ?", existing[0].ID).Error; err != nil {
			return nil, 0, err
		}
		return &draft, http.StatusOK, nil
	}

	draft := Chapter{
		ID:          uuid.New().String(),
		CourseID:    original.CourseID,
		Position:    position,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		DraftOf:     &originalID,
	}
	if err := db.Create(&draft).Error; err != nil {
		return nil, 0, err
	}
	return &draft, http.StatusCreated, nil
}

// DELETE /api/v1/admin/chapters/:id — cascades through quizzes, questions
// and choices before removing the chapter itself.
func DeleteChapterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var ch Chapter
		if err := db.Select("id").First(&ch, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "chapter not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		if err := deleteChapter(db, id); err != nil {
			zlog.Errorw("chapter delete failed", "chapter_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// PATCH /api/v1/admin/chapters/:id/publish
func PublishChapterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req publishReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "published field must be a boolean"})
			return
		}
		ch, err := publishChapter(db, c.Param("id"), *req.Published)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "chapter not found"})
				return
			}
			zlog.Errorw("chapter publish failed", "chapter_id", c.Param("id"), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update chapter"})
			return
		}
		c.JSON(http.StatusOK, ch)
	}
}

// PATCH /api/v1/admin/chapters/publish?course_id=...
func BulkPublishChapters(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID := c.Query("course_id")
		if courseID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "course_id required"})
			return
		}
		res, err := publishAllChapterDrafts(db, courseID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// DELETE /api/v1/admin/chapters/drafts?course_id=...
func BulkDiscardChapters(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID := c.Query("course_id")
		if courseID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "course_id required"})
			return
		}
		res, err := discardChapterDrafts(db, courseID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
