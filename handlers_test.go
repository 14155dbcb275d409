package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func newTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	registerValidations()
	r := gin.New()
	r.GET("/api/v1/courses/:id/chapters", ListCourseChapters(db))
	r.GET("/api/v1/chapters/:id/quizzes", ListChapterQuizzes(db))
	admin := r.Group("/api/v1/admin")
	admin.GET("/chapters", ListAdminChapters(db))
	admin.POST("/chapters", CreateChapter(db))
	admin.PATCH("/chapters/publish", BulkPublishChapters(db))
	admin.DELETE("/chapters/drafts", BulkDiscardChapters(db))
	admin.PUT("/chapters/:id", UpdateChapter(db))
	admin.DELETE("/chapters/:id", DeleteChapterHandler(db))
	admin.PATCH("/chapters/:id/publish", PublishChapterHandler(db))
	admin.GET("/questions", ListAdminQuestions(db))
	admin.POST("/questions", CreateQuestion(db))
	admin.PUT("/questions/:id", UpdateQuestion(db))
	admin.PATCH("/questions/:id/publish", PublishQuestionHandler(db))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateQuestionRejectsNoCorrectChoice(t *testing.T) {
	db := openTestDB(t)
	_, chapterID := seedChapterTree(t, db)
	r := newTestRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/v1/admin/questions", gin.H{
		"chapter_id": chapterID,
		"text":       "Which is aromatic?",
		"choices": []gin.H{
			{"text": "benzene", "is_correct": false},
			{"text": "hexane", "is_correct": false},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	// Rejected before any store write.
	var questions, choices int64
	db.Model(&Question{}).Count(&questions)
	db.Model(&Choice{}).Count(&choices)
	if questions != 0 || choices != 0 {
		t.Errorf("rows written despite validation failure: questions=%d choices=%d", questions, choices)
	}
}

func TestCreateQuestionAppendsAtNextPosition(t *testing.T) {
	db := openTestDB(t)
	_, chapterID := seedChapterTree(t, db)
	r := newTestRouter(db)

	for i, text := range []string{"First", "Second"} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/admin/questions", gin.H{
			"chapter_id": chapterID,
			"text":       text,
			"choices": []gin.H{
				{"text": "yes", "is_correct": true},
				{"text": "no"},
			},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
		}
		var created Question
		if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if created.Position != i+1 {
			t.Errorf("position = %d, want %d", created.Position, i+1)
		}
		if len(created.Choices) != 2 {
			t.Errorf("choices = %d, want 2", len(created.Choices))
		}
	}

	// Both landed on the same auto-created practice quiz.
	var quizzes int64
	db.Model(&Quiz{}).Where("chapter_id = ?", chapterID).Count(&quizzes)
	if quizzes != 1 {
		t.Errorf("quizzes = %d, want 1", quizzes)
	}
}

func TestChapterDraftEditAndPromoteFlow(t *testing.T) {
	db := openTestDB(t)
	_, chapterID := seedChapterTree(t, db)
	r := newTestRouter(db)

	// First draft edit creates the shadow row.
	w := doJSON(t, r, http.MethodPut, "/api/v1/admin/chapters/"+chapterID, gin.H{
		"title": "Intro v2",
		"draft": true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("first draft edit status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	var draft Chapter
	if err := json.Unmarshal(w.Body.Bytes(), &draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	if draft.DraftOf == nil || *draft.DraftOf != chapterID {
		t.Fatal("draft not linked to original")
	}
	if draft.Published {
		t.Error("draft must never be published while linked")
	}

	// Second edit reuses the same draft row: at most one draft per original.
	w = doJSON(t, r, http.MethodPut, "/api/v1/admin/chapters/"+chapterID, gin.H{
		"title": "Intro v3",
		"draft": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("second draft edit status = %d, want 200", w.Code)
	}
	var draft2 Chapter
	_ = json.Unmarshal(w.Body.Bytes(), &draft2)
	if draft2.ID != draft.ID {
		t.Error("second draft edit created a new draft row")
	}
	var draftCount int64
	db.Model(&Chapter{}).Where("draft_of = ?", chapterID).Count(&draftCount)
	if draftCount != 1 {
		t.Errorf("%d drafts for one original, want 1", draftCount)
	}

	// The authoring list shows the draft in place of the original.
	w = doJSON(t, r, http.MethodGet, "/api/v1/admin/chapters?course_id="+draft.CourseID, nil)
	var listed []Chapter
	_ = json.Unmarshal(w.Body.Bytes(), &listed)
	if len(listed) != 1 || listed[0].ID != draft.ID {
		t.Errorf("admin list = %v, want the draft only", listed)
	}

	// Promote.
	w = doJSON(t, r, http.MethodPatch, "/api/v1/admin/chapters/"+draft.ID+"/publish", gin.H{
		"published": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("publish status = %d (body %s)", w.Code, w.Body.String())
	}
	var promoted Chapter
	_ = json.Unmarshal(w.Body.Bytes(), &promoted)
	if promoted.ID != chapterID || promoted.Title != "Intro v3" || !promoted.Published {
		t.Errorf("promotion result = %+v", promoted)
	}
}

func TestLiveChapterStaysVisibleWhileDraftPending(t *testing.T) {
	db := openTestDB(t)
	courseID, chapterID := seedChapterTree(t, db)
	r := newTestRouter(db)

	// Stage an edit: the original "Intro" chapter stays published and live.
	w := doJSON(t, r, http.MethodPut, "/api/v1/admin/chapters/"+chapterID, gin.H{
		"title": "Intro (reworked)",
		"draft": true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("draft edit status = %d (body %s)", w.Code, w.Body.String())
	}

	visible, err := visibleChapters(db, courseID)
	if err != nil {
		t.Fatalf("visibleChapters: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != chapterID {
		t.Fatalf("visible = %v, want the live original only", visible)
	}
	if visible[0].Title != "Intro" {
		t.Errorf("students see %q, want the live title until promotion", visible[0].Title)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/courses/"+courseID+"/chapters", nil)
	var listed []Chapter
	_ = json.Unmarshal(w.Body.Bytes(), &listed)
	if len(listed) != 1 || listed[0].ID != chapterID {
		t.Errorf("student chapter list = %v, want the live original only", listed)
	}
}

func TestLiveQuestionStaysVisibleWhileDraftPending(t *testing.T) {
	db := openTestDB(t)
	_, chapterID := seedChapterTree(t, db)
	quizID, err := ensureQuizForChapter(db, chapterID, false)
	if err != nil {
		t.Fatalf("ensure quiz: %v", err)
	}
	liveID := seedQuestionWithChoices(t, db, quizID, "What is sp3?", true, "tetrahedral", "planar")
	mustCreate(t, db, &Question{
		ID: newID(), QuizID: quizID, Position: 1,
		Text: "What is sp3 hybridization?", Type: "multiple_choice", Points: 1,
		Published: false, DraftOf: &liveID,
	})
	r := newTestRouter(db)

	w := doJSON(t, r, http.MethodGet, "/api/v1/chapters/"+chapterID+"/quizzes?practice=false", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}
	var quizzes []QuizDTO
	if err := json.Unmarshal(w.Body.Bytes(), &quizzes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(quizzes) != 1 {
		t.Fatalf("quizzes = %d, want 1", len(quizzes))
	}
	qs := quizzes[0].Questions
	if len(qs) != 1 || qs[0].ID != liveID {
		t.Fatalf("questions = %v, want the live original only", qs)
	}
	if qs[0].Text != "What is sp3?" {
		t.Errorf("students see %q, want the live text until promotion", qs[0].Text)
	}
}

func TestPublishRequiresBoolean(t *testing.T) {
	db := openTestDB(t)
	_, chapterID := seedChapterTree(t, db)
	r := newTestRouter(db)

	w := doJSON(t, r, http.MethodPatch, "/api/v1/admin/chapters/"+chapterID+"/publish", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing published field: status = %d, want 400", w.Code)
	}
}

func TestBulkEndpointsDistinguishEmptyFromFailure(t *testing.T) {
	db := openTestDB(t)
	courseID, _ := seedChapterTree(t, db)
	r := newTestRouter(db)

	w := doJSON(t, r, http.MethodPatch, "/api/v1/admin/chapters/publish?course_id="+courseID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("bulk publish on empty scope: status = %d, want 200", w.Code)
	}
	var res PromoteResult
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if res.Promoted != 0 || res.Failed != 0 {
		t.Errorf("empty scope result = %+v, want zeros", res)
	}

	w = doJSON(t, r, http.MethodPatch, "/api/v1/admin/chapters/publish", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing course_id: status = %d, want 400", w.Code)
	}
}
