package main

import (
	"fmt"

	"gorm.io/gorm"
)

// The store does not enforce cascading foreign keys for these relations, so
// deletion order is the coordinator's job. A deletion is an explicit
// dependency-ordered plan (children first) run by one interpreter, which
// logs and continues on non-final steps and surfaces only the final step's
// error to the caller.

type deleteStep struct {
	desc  string
	model interface{}
	query string
	args  []interface{}
}

func runDeletePlan(db *gorm.DB, plan []deleteStep) error {
	last := len(plan) - 1
	for i, s := range plan {
		if err := db.Where(s.query, s.args...).Delete(s.model).Error; err != nil {
			if i == last {
				return fmt.Errorf("%s: %w", s.desc, err)
			}
			zlog.Warnw("cascade delete step failed", "step", s.desc, "error", err)
		}
	}
	return nil
}

// deleteChapter removes a chapter and everything under it:
// choices -> questions -> quizzes -> chapter.
func deleteChapter(db *gorm.DB, id string) error {
	var quizIDs []string
	if err := db.Model(&Quiz{}).Where("chapter_id = ?", id).
		Pluck("id", &quizIDs).Error; err != nil {
		zlog.Warnw("cascade delete: listing quizzes failed", "chapter_id", id, "error", err)
	}

	var questionIDs []string
	if len(quizIDs) > 0 {
		if err := db.Model(&Question{}).Where("quiz_id IN ?", quizIDs).
			Pluck("id", &questionIDs).Error; err != nil {
			zlog.Warnw("cascade delete: listing questions failed", "chapter_id", id, "error", err)
		}
	}

	plan := make([]deleteStep, 0, 4)
	if len(questionIDs) > 0 {
		plan = append(plan,
			deleteStep{"delete choices", &Choice{}, "question_id IN ?", []interface{}{questionIDs}},
			deleteStep{"delete questions", &Question{}, "id IN ?", []interface{}{questionIDs}},
		)
	}
	if len(quizIDs) > 0 {
		plan = append(plan, deleteStep{"delete quizzes", &Quiz{}, "chapter_id = ?", []interface{}{id}})
	}
	plan = append(plan, deleteStep{"delete chapter", &Chapter{}, "id = ?", []interface{}{id}})
	return runDeletePlan(db, plan)
}

// deleteQuestion removes a question and its choices, choices first.
func deleteQuestion(db *gorm.DB, id string) error {
	plan := []deleteStep{
		{"delete choices", &Choice{}, "question_id = ?", []interface{}{id}},
		{"delete question", &Question{}, "id = ?", []interface{}{id}},
	}
	return runDeletePlan(db, plan)
}
