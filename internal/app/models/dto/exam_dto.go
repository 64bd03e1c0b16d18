package dto

// CreateExamRequest represents exam creation data
type CreateExamRequest struct {
	CourseID          int64   `json:"courseId" binding:"required"`
	Title             string  `json:"title" binding:"required,min=3,max=255"`
	Description       *string `json:"description,omitempty"`
	DurationMinutes   int     `json:"durationMinutes" binding:"required,min=1"`
	MaxAttempts       int     `json:"maxAttempts" binding:"required,min=1"`
	NegativeMarking   bool    `json:"negativeMarking"`
	NegativeMarkValue float64 `json:"negativeMarkValue" binding:"omitempty,min=0,max=1"`
}

// ExamResponse represents exam metadata
type ExamResponse struct {
	ID                int64   `json:"id"`
	CourseID          int64   `json:"courseId"`
	InstructorID      int64   `json:"instructorId"`
	Title             string  `json:"title"`
	Description       *string `json:"description,omitempty"`
	DurationMinutes   int     `json:"durationMinutes"`
	MaxAttempts       int     `json:"maxAttempts"`
	NegativeMarking   bool    `json:"negativeMarking"`
	NegativeMarkValue float64 `json:"negativeMarkValue"`
}

// CreateQuestionRequest represents question creation data
type CreateQuestionRequest struct {
	QuestionText  string  `json:"questionText" binding:"required"`
	OptionA       string  `json:"optionA" binding:"required,max=500"`
	OptionB       string  `json:"optionB" binding:"required,max=500"`
	OptionC       string  `json:"optionC" binding:"required,max=500"`
	OptionD       string  `json:"optionD" binding:"required,max=500"`
	CorrectOption string  `json:"correctOption" binding:"required,optionletter"`
	Marks         float64 `json:"marks" binding:"omitempty,min=0"`
	QuestionOrder int     `json:"questionOrder" binding:"omitempty,min=0"`
}

// QuestionResponse is the instructor-facing question projection, correct
// option included.
type QuestionResponse struct {
	ID            int64   `json:"id"`
	ExamID        int64   `json:"examId"`
	QuestionText  string  `json:"questionText"`
	OptionA       string  `json:"optionA"`
	OptionB       string  `json:"optionB"`
	OptionC       string  `json:"optionC"`
	OptionD       string  `json:"optionD"`
	CorrectOption string  `json:"correctOption"`
	Marks         float64 `json:"marks"`
	QuestionOrder int     `json:"questionOrder"`
}

// SanitizedQuestion is the student-facing question projection. The correct
// option is deliberately absent from the type so it cannot leak.
type SanitizedQuestion struct {
	ID            int64   `json:"id"`
	QuestionText  string  `json:"questionText"`
	OptionA       string  `json:"optionA"`
	OptionB       string  `json:"optionB"`
	OptionC       string  `json:"optionC"`
	OptionD       string  `json:"optionD"`
	Marks         float64 `json:"marks"`
	QuestionOrder int     `json:"questionOrder"`
}

// ExamStatsResponse aggregates attempts of one exam for its owning instructor
type ExamStatsResponse struct {
	ExamID            int64   `json:"examId"`
	TotalAttempts     int64   `json:"totalAttempts"`
	DistinctStudents  int64   `json:"distinctStudents"`
	AverageScore      float64 `json:"averageScore"`
	AveragePercentage float64 `json:"averagePercentage"`
	PassRate          float64 `json:"passRate"`
}
