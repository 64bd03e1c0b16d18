// Package services contains the business logic layer.
//
// Services defined in this package:
// - AuthService: Handles authentication, registration and token refresh
// - CourseService: Handles course and enrollment operations
// - ExamService: Handles exam and question management for instructors
// - AttemptService: Handles exam taking, grading and attempt history
package services
