package dto

import "time"

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=255"`
	Description *string `json:"description,omitempty"`
}

// CourseResponse represents basic course information
type CourseResponse struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	InstructorID int64   `json:"instructorId"`
}

// CourseListResponse represents a paginated list of courses
type CourseListResponse struct {
	Courses []CourseResponse `json:"courses"`
	PaginationInfo
}

// EnrollmentResponse represents an enrollment of a student in a course
type EnrollmentResponse struct {
	ID         int64           `json:"id"`
	StudentID  int64           `json:"studentId"`
	CourseID   int64           `json:"courseId"`
	EnrolledAt time.Time       `json:"enrolledAt"`
	Course     *CourseResponse `json:"course,omitempty"`
}
