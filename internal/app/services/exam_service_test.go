package services

import (
	"errors"
	"testing"

	"github.com/skillforge/backend/internal/app/models"
	"github.com/skillforge/backend/internal/pkg/apperrors"
)

func validExamFixture() *models.Exam {
	return &models.Exam{
		CourseID:        testCourseID,
		Title:           "Midterm",
		DurationMinutes: 45,
		MaxAttempts:     2,
	}
}

func TestValidateExam(t *testing.T) {
	svc := &examServiceImpl{}

	tests := []struct {
		name    string
		mutate  func(*models.Exam)
		wantErr bool
	}{
		{"valid exam", func(e *models.Exam) {}, false},
		{"empty title", func(e *models.Exam) { e.Title = "  " }, true},
		{"zero duration", func(e *models.Exam) { e.DurationMinutes = 0 }, true},
		{"zero max attempts", func(e *models.Exam) { e.MaxAttempts = 0 }, true},
		{"negative mark value above one", func(e *models.Exam) { e.NegativeMarkValue = 1.5 }, true},
		{"negative mark value below zero", func(e *models.Exam) { e.NegativeMarkValue = -0.25 }, true},
		{"negative marking without value", func(e *models.Exam) { e.NegativeMarking = true }, true},
		{"negative marking with value", func(e *models.Exam) {
			e.NegativeMarking = true
			e.NegativeMarkValue = 0.25
		}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exam := validExamFixture()
			tc.mutate(exam)

			err := svc.validateExam(exam)
			if tc.wantErr {
				if !errors.Is(err, apperrors.ErrValidationFailed) {
					t.Errorf("err = %v, want ErrValidationFailed", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	t.Run("nil exam rejected", func(t *testing.T) {
		if err := svc.validateExam(nil); !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("err = %v, want ErrValidationFailed", err)
		}
	})
}

func validQuestionFixture() *models.Question {
	return &models.Question{
		ExamID:        testExamID,
		QuestionText:  "What does := do?",
		OptionA:       "declares and assigns",
		OptionB:       "compares",
		OptionC:       "dereferences",
		OptionD:       "nothing",
		CorrectOption: "A",
		Marks:         2,
	}
}

func TestValidateQuestion(t *testing.T) {
	svc := &examServiceImpl{}

	tests := []struct {
		name    string
		mutate  func(*models.Question)
		wantErr bool
	}{
		{"valid question", func(q *models.Question) {}, false},
		{"empty text", func(q *models.Question) { q.QuestionText = "" }, true},
		{"empty option", func(q *models.Question) { q.OptionC = " " }, true},
		{"correct option out of range", func(q *models.Question) { q.CorrectOption = "E" }, true},
		{"correct option empty", func(q *models.Question) { q.CorrectOption = "" }, true},
		{"negative marks", func(q *models.Question) { q.Marks = -1 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			question := validQuestionFixture()
			tc.mutate(question)

			err := svc.validateQuestion(question)
			if tc.wantErr {
				if !errors.Is(err, apperrors.ErrValidationFailed) {
					t.Errorf("err = %v, want ErrValidationFailed", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	t.Run("correct option normalized to upper case", func(t *testing.T) {
		question := validQuestionFixture()
		question.CorrectOption = " c "
		if err := svc.validateQuestion(question); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if question.CorrectOption != "C" {
			t.Errorf("correctOption = %q, want C", question.CorrectOption)
		}
	})

	t.Run("zero marks default to one", func(t *testing.T) {
		question := validQuestionFixture()
		question.Marks = 0
		if err := svc.validateQuestion(question); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if question.Marks != 1 {
			t.Errorf("marks = %v, want 1", question.Marks)
		}
	})
}
