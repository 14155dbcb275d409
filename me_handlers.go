package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MeResponse struct {
	PublicID    string  `json:"publicId"`
	DisplayName *string `json:"displayName,omitempty"`
}

type MeUpdateReq struct {
	DisplayName *string `json:"displayName"`
}

// GET /api/v1/me
func GetMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		pubIDAny, _ := c.Get("studentPublicID")
		pubID, _ := pubIDAny.(string)
		if pubID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no student"})
			return
		}
		var s Student
		if err := db.First(&s, "public_id = ?", pubID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "student not found"})
			return
		}
		c.JSON(http.StatusOK, MeResponse{PublicID: s.PublicID, DisplayName: s.DisplayName})
	}
}

// PUT /api/v1/me
func UpdateMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		pubIDAny, _ := c.Get("studentPublicID")
		pubID, _ := pubIDAny.(string)
		if pubID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no student"})
			return
		}
		var s Student
		if err := db.First(&s, "public_id = ?", pubID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "student not found"})
			return
		}

		var req MeUpdateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
			return
		}

		if req.DisplayName != nil {
			name := strings.TrimSpace(*req.DisplayName)
			if len(name) < 2 || len(name) > 40 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "displayName must be 2..40 chars"})
				return
			}
			s.DisplayName = &name
		}

		if err := db.Save(&s).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		c.JSON(http.StatusOK, MeResponse{PublicID: s.PublicID, DisplayName: s.DisplayName})
	}
}
