package models

import "time"

// Exam represents a timed multiple-choice exam attached to a course.
type Exam struct {
	ID                int64     `json:"id" db:"id"`
	CourseID          int64     `json:"courseId" db:"course_id"`
	InstructorID      int64     `json:"instructorId" db:"instructor_id"`
	Title             string    `json:"title" db:"title"`
	Description       *string   `json:"description,omitempty" db:"description"` // Nullable
	DurationMinutes   int       `json:"durationMinutes" db:"duration_minutes"`
	MaxAttempts       int       `json:"maxAttempts" db:"max_attempts"`
	NegativeMarking   bool      `json:"negativeMarking" db:"negative_marking"`
	NegativeMarkValue float64   `json:"negativeMarkValue" db:"negative_mark_value"` // Fraction of a question's marks deducted per wrong answer
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
}

// Question is a single multiple-choice question belonging to an exam.
// Four labeled options, exactly one correct letter, a point value and a
// presentation order.
type Question struct {
	ID            int64     `json:"id" db:"id"`
	ExamID        int64     `json:"examId" db:"exam_id"`
	QuestionText  string    `json:"questionText" db:"question_text"`
	OptionA       string    `json:"optionA" db:"option_a"`
	OptionB       string    `json:"optionB" db:"option_b"`
	OptionC       string    `json:"optionC" db:"option_c"`
	OptionD       string    `json:"optionD" db:"option_d"`
	CorrectOption string    `json:"correctOption,omitempty" db:"correct_option"` // Single letter A-D; stripped for students
	Marks         float64   `json:"marks" db:"marks"`
	QuestionOrder int       `json:"questionOrder" db:"question_order"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
