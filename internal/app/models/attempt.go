package models

import "time"

// ExamAttempt is one graded submission of an exam by a student.
//
// The row is created, its answer rows inserted and its aggregate fields
// written inside a single transaction; readers never observe a partially
// scored attempt. AttemptNo is 1-based per (exam, student) and backed by a
// unique index, which is what enforces the max-attempts quota under
// concurrent submissions.
type ExamAttempt struct {
	ID               int64     `json:"id" db:"id"`
	ExamID           int64     `json:"examId" db:"exam_id"`
	StudentID        int64     `json:"studentId" db:"student_id"`
	AttemptNo        int       `json:"attemptNo" db:"attempt_no"`
	Score            float64   `json:"score" db:"score"`
	Percentage       float64   `json:"percentage" db:"percentage"`
	TotalQuestions   int       `json:"totalQuestions" db:"total_questions"`
	CorrectAnswers   int       `json:"correctAnswers" db:"correct_answers"`
	WrongAnswers     int       `json:"wrongAnswers" db:"wrong_answers"`
	TimeTakenMinutes int       `json:"timeTakenMinutes" db:"time_taken_minutes"`
	AttemptedAt      time.Time `json:"attemptedAt" db:"attempted_at"`

	// Relations (populated when needed)
	Exam *Exam `json:"exam,omitempty"`
}

// ExamAnswer records the outcome of one question within an attempt.
// Exactly one row per (attempt, question) pair, including unanswered
// questions, so the per-question audit trail is complete. Immutable once
// written.
type ExamAnswer struct {
	ID             int64     `json:"id" db:"id"`
	AttemptID      int64     `json:"attemptId" db:"attempt_id"`
	QuestionID     int64     `json:"questionId" db:"question_id"`
	SelectedOption *string   `json:"selectedOption,omitempty" db:"selected_option"` // nil when the question was left unanswered
	IsCorrect      bool      `json:"isCorrect" db:"is_correct"`
	MarksObtained  float64   `json:"marksObtained" db:"marks_obtained"` // Positive, zero, or negative under negative marking
	AnsweredAt     time.Time `json:"answeredAt" db:"answered_at"`

	Question *Question `json:"question,omitempty"`
}
