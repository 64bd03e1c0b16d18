package dto

import "time"

// StartExamResponse is handed to a student entering an exam. Questions are
// sanitized and ordered by questionOrder, id as tiebreak.
type StartExamResponse struct {
	Exam             ExamResponse        `json:"exam"`
	Questions        []SanitizedQuestion `json:"questions"`
	AttemptsUsed     int                 `json:"attemptsUsed"`
	AttemptsRemained int                 `json:"attemptsRemaining"`
}

// SubmitAttemptRequest carries a student's answer sheet. Keys are question
// ids; absent keys count as unanswered.
type SubmitAttemptRequest struct {
	Answers          map[int64]string `json:"answers" binding:"required"`
	TimeTakenMinutes *int             `json:"timeTakenMinutes" binding:"omitempty,min=0"`
}

// AttemptResultResponse summarizes one graded attempt
type AttemptResultResponse struct {
	ID               int64     `json:"id"`
	ExamID           int64     `json:"examId"`
	StudentID        int64     `json:"studentId"`
	AttemptNo        int       `json:"attemptNo"`
	Score            float64   `json:"score"`
	Percentage       float64   `json:"percentage"`
	TotalQuestions   int       `json:"totalQuestions"`
	CorrectAnswers   int       `json:"correctAnswers"`
	WrongAnswers     int       `json:"wrongAnswers"`
	TimeTakenMinutes int       `json:"timeTakenMinutes"`
	AttemptedAt      time.Time `json:"attemptedAt"`
}

// AnswerBreakdownResponse is one row of the per-question review
type AnswerBreakdownResponse struct {
	QuestionID     int64             `json:"questionId"`
	QuestionText   string            `json:"questionText"`
	Options        map[string]string `json:"options"`
	SelectedOption *string           `json:"selectedOption,omitempty"`
	CorrectOption  string            `json:"correctOption"`
	IsCorrect      bool              `json:"isCorrect"`
	MarksObtained  float64           `json:"marksObtained"`
	Marks          float64           `json:"marks"`
}

// AttemptDetailResponse couples an attempt summary with its answer breakdown
type AttemptDetailResponse struct {
	Attempt AttemptResultResponse     `json:"attempt"`
	Answers []AnswerBreakdownResponse `json:"answers"`
}

// AttemptListResponse is a paginated attempt history
type AttemptListResponse struct {
	Attempts []AttemptResultResponse `json:"attempts"`
}
