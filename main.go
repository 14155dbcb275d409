package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// 1) Config & logging
	_ = godotenv.Load()

	zapLogger, err := initLogger(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "ochem.db"
	}

	// 2) DB
	db, err := OpenDB(dbPath)
	if err != nil {
		zlog.Fatalw("open db", "path", dbPath, "error", err)
	}
	if err := AutoMigrate(db); err != nil {
		zlog.Fatalw("migrate", "error", err)
	}

	// 3) Seed (if empty)
	if isEmpty, _ := IsCourseTableEmpty(db); isEmpty {
		seedPath := os.Getenv("SEED_PATH")
		if seedPath == "" {
			seedPath = "data/courses.json"
		}
		if _, err := os.Stat(seedPath); err == nil {
			if err := SeedFromJSON(db, seedPath); err != nil {
				zlog.Fatalw("seed", "path", seedPath, "error", err)
			}
			zlog.Infow("seeded courses", "path", seedPath)
		} else {
			zlog.Infow("no seed file; running with empty DB", "path", seedPath)
		}
	}

	// 4) Router
	registerValidations()
	r := gin.Default()

	allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if allowedOrigin != "" && origin == allowedOrigin {
				return true
			}
			// any http://localhost:PORT during development
			return strings.HasPrefix(origin, "http://localhost:")
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	secureCookies := os.Getenv("SECURE_COOKIES") == "true"
	r.Use(EnsureStudent(db, secureCookies))

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	// --- API routes ---
	api := r.Group("/api/v1")
	{
		// Student-facing catalog (published content only)
		api.GET("/courses", ListCourses(db))
		api.GET("/courses/:id", GetCourse(db))
		api.GET("/courses/:id/chapters", ListCourseChapters(db))
		api.GET("/chapters/:id/quizzes", ListChapterQuizzes(db))

		// Quiz attempts & grading
		api.POST("/submissions", CreateSubmission(db))
		api.GET("/submissions", ListMySubmissions(db))
		api.POST("/grade", GradeSubmission(db))

		// Student profile & progress
		api.GET("/me", GetMe(db))
		api.PUT("/me", UpdateMe(db))
		api.GET("/stats", Stats(db))

		// Authoring dashboard
		admin := api.Group("/admin")
		{
			admin.GET("/courses", ListAdminCourses(db))
			admin.POST("/courses", CreateCourse(db))

			admin.GET("/chapters", ListAdminChapters(db))
			admin.POST("/chapters", CreateChapter(db))
			admin.PATCH("/chapters/publish", BulkPublishChapters(db))
			admin.DELETE("/chapters/drafts", BulkDiscardChapters(db))
			admin.GET("/chapters/:id", GetChapter(db))
			admin.PUT("/chapters/:id", UpdateChapter(db))
			admin.DELETE("/chapters/:id", DeleteChapterHandler(db))
			admin.PATCH("/chapters/:id/publish", PublishChapterHandler(db))

			admin.GET("/questions", ListAdminQuestions(db))
			admin.POST("/questions", CreateQuestion(db))
			admin.PATCH("/questions/publish", BulkPublishQuestions(db))
			admin.DELETE("/questions/drafts", BulkDiscardQuestions(db))
			admin.PUT("/questions/:id", UpdateQuestion(db))
			admin.DELETE("/questions/:id", DeleteQuestionHandler(db))
			admin.PATCH("/questions/:id/publish", PublishQuestionHandler(db))
		}
	}

	// --- Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	zlog.Infow("listening", "port", port, "secure_cookies", secureCookies)
	if err := r.Run(":" + port); err != nil {
		zlog.Fatalw("run", "error", err)
	}
}
