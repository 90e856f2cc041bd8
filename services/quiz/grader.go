package quiz

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"clx/models"
)

// PassMark is the fixed passing score for all quizzes
const PassMark = 70

// ErrNoQuestions is returned when a module has no quiz questions
var ErrNoQuestions = errors.New("no quiz questions found for this module")

// Options carries all four option texts for a question; C and D may be nil
// for two-option questions.
type Options struct {
	A string  `json:"a"`
	B string  `json:"b"`
	C *string `json:"c"`
	D *string `json:"d"`
}

// QuestionResult is the per-question grading breakdown
type QuestionResult struct {
	QuestionID    uint    `json:"questionId"`
	QuestionText  string  `json:"questionText"`
	UserAnswer    *string `json:"userAnswer"`
	CorrectOption string  `json:"correctOption"`
	IsCorrect     bool    `json:"isCorrect"`
	Explanation   string  `json:"explanation"`
	Options       Options `json:"options"`
}

// Result is the aggregate grading outcome
type Result struct {
	Score          int              `json:"score"`
	Passed         bool             `json:"passed"`
	CorrectCount   int              `json:"correctCount"`
	TotalQuestions int              `json:"totalQuestions"`
	Results        []QuestionResult `json:"results"`
}

// Grade scores a set of submitted answers against the module's questions.
// Answers are keyed by question id; a missing or unknown option letter counts
// as incorrect, never as an error. Option comparison is case-insensitive.
// Grading persists nothing.
func Grade(questions []models.QuizQuestion, answers map[string]string) (*Result, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	correctCount := 0
	results := make([]QuestionResult, len(questions))

	for i, q := range questions {
		var userAnswer *string
		if a, ok := answers[strconv.FormatUint(uint64(q.ID), 10)]; ok && a != "" {
			userAnswer = &a
		}

		isCorrect := userAnswer != nil &&
			strings.EqualFold(*userAnswer, q.CorrectOption)
		if isCorrect {
			correctCount++
		}

		results[i] = QuestionResult{
			QuestionID:    q.ID,
			QuestionText:  q.QuestionText,
			UserAnswer:    userAnswer,
			CorrectOption: q.CorrectOption,
			IsCorrect:     isCorrect,
			Explanation:   q.Explanation,
			Options: Options{
				A: q.OptionA,
				B: q.OptionB,
				C: q.OptionC,
				D: q.OptionD,
			},
		}
	}

	score := int(math.Round(float64(correctCount) / float64(len(questions)) * 100))

	return &Result{
		Score:          score,
		Passed:         score >= PassMark,
		CorrectCount:   correctCount,
		TotalQuestions: len(questions),
		Results:        results,
	}, nil
}
