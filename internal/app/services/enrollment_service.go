package services

import (
	"context"

	"github.com/skillforge/backend/internal/app/models"
	"github.com/skillforge/backend/internal/app/repositories"
	"github.com/skillforge/backend/internal/pkg/apperrors"
	"github.com/skillforge/backend/internal/pkg/logger"
)

// EnrollmentService defines the interface for enrollment operations
type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error)
	Unenroll(ctx context.Context, studentID, courseID int64) error
	GetStudentEnrollments(ctx context.Context, studentID int64) ([]*models.Enrollment, error)
	IsEnrolled(ctx context.Context, studentID, courseID int64) (bool, error)
}

// enrollmentServiceImpl implements the EnrollmentService interface
type enrollmentServiceImpl struct {
	enrollmentRepo *repositories.EnrollmentRepository
	courseRepo     *repositories.CourseRepository
	userRepo       *repositories.UserRepository
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(
	enrollmentRepo *repositories.EnrollmentRepository,
	courseRepo *repositories.CourseRepository,
	userRepo *repositories.UserRepository,
) EnrollmentService {
	return &enrollmentServiceImpl{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
	}
}

// Enroll adds a student to a course
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	student, err := s.userRepo.GetUserByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.RoleType != models.RoleStudent {
		return nil, apperrors.NewForbiddenError("only students can enroll in courses")
	}

	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
	}
	id, err := s.enrollmentRepo.CreateEnrollment(ctx, enrollment)
	if err != nil {
		return nil, err
	}
	enrollment.ID = id
	enrollment.Course = course

	logger.Info().Int64("studentID", studentID).Int64("courseID", courseID).Msg("Student enrolled")
	return enrollment, nil
}

// Unenroll removes a student from a course
func (s *enrollmentServiceImpl) Unenroll(ctx context.Context, studentID, courseID int64) error {
	return s.enrollmentRepo.DeleteEnrollment(ctx, studentID, courseID)
}

// GetStudentEnrollments lists a student's enrollments with course details
func (s *enrollmentServiceImpl) GetStudentEnrollments(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	return s.enrollmentRepo.GetEnrollmentsByStudent(ctx, studentID)
}

// IsEnrolled reports whether a student is enrolled in a course
func (s *enrollmentServiceImpl) IsEnrolled(ctx context.Context, studentID, courseID int64) (bool, error) {
	return s.enrollmentRepo.IsEnrolled(ctx, studentID, courseID)
}
