package main

import (
	"errors"

	"gorm.io/gorm"
)

// hasCorrectChoice reports whether at least one choice is marked correct.
// Every saved question must satisfy this before any store write.
func hasCorrectChoice(choices []ChoiceInput) bool {
	for _, c := range choices {
		if c.IsCorrect {
			return true
		}
	}
	return false
}

// computeSubmissionScore grades a submission from Choice.IsCorrect, weighting
// each question by its points. Returns the percentage plus earned/total
// point counts.
func computeSubmissionScore(db *gorm.DB, submissionID string) (float64, int, int, error) {
	var answers []Answer
	if err := db.Where("submission_id = ?", submissionID).Find(&answers).Error; err != nil {
		return 0, 0, 0, err
	}
	if len(answers) == 0 {
		return 0, 0, 0, errors.New("submission has no answers")
	}

	questionIDs := make([]string, 0, len(answers))
	choiceIDs := make([]string, 0, len(answers))
	for _, a := range answers {
		questionIDs = append(questionIDs, a.QuestionID)
		if a.ChoiceID != nil {
			choiceIDs = append(choiceIDs, *a.ChoiceID)
		}
	}

	pointsByQuestion := map[string]int{}
	var questions []Question
	if err := db.Select("id, points").Where("id IN ?", questionIDs).
		Find(&questions).Error; err != nil {
		return 0, 0, 0, err
	}
	for _, q := range questions {
		pointsByQuestion[q.ID] = q.Points
	}

	correctChoices := map[string]bool{}
	if len(choiceIDs) > 0 {
		var choices []Choice
		if err := db.Select("id, is_correct").Where("id IN ?", choiceIDs).
			Find(&choices).Error; err != nil {
			return 0, 0, 0, err
		}
		for _, c := range choices {
			correctChoices[c.ID] = c.IsCorrect
		}
	}

	earned, total := 0, 0
	for _, a := range answers {
		pts := pointsByQuestion[a.QuestionID]
		if pts == 0 {
			pts = 1
		}
		total += pts
		if a.ChoiceID != nil && correctChoices[*a.ChoiceID] {
			earned += pts
		}
	}

	score := 0.0
	if total > 0 {
		score = float64(earned) * 100.0 / float64(total)
	}
	return score, earned, total, nil
}
