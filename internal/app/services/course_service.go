package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/skillforge/backend/internal/app/models"
	"github.com/skillforge/backend/internal/app/repositories"
	"github.com/skillforge/backend/internal/pkg/apperrors"
)

// CourseService defines the interface for course operations
type CourseService interface {
	CreateCourse(ctx context.Context, instructorID int64, course *models.Course) (int64, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	GetAllCourses(ctx context.Context, offset uint64, limit int) ([]*models.Course, int64, error)
	GetCoursesByInstructor(ctx context.Context, instructorID int64) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, instructorID int64, course *models.Course) error
	DeleteCourse(ctx context.Context, instructorID, courseID int64) error
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courseRepo *repositories.CourseRepository
	userRepo   *repositories.UserRepository
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo *repositories.CourseRepository, userRepo *repositories.UserRepository) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
		userRepo:   userRepo,
	}
}

func (s *courseServiceImpl) validateCourse(course *models.Course) error {
	if course == nil {
		return fmt.Errorf("%w: course is nil", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(course.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreateCourse creates a course owned by the given instructor
func (s *courseServiceImpl) CreateCourse(ctx context.Context, instructorID int64, course *models.Course) (int64, error) {
	if err := s.validateCourse(course); err != nil {
		return 0, err
	}

	instructor, err := s.userRepo.GetUserByID(ctx, instructorID)
	if err != nil {
		return 0, err
	}
	if instructor.RoleType != models.RoleInstructor && instructor.RoleType != models.RoleAdmin {
		return 0, apperrors.NewForbiddenError("only instructors can create courses")
	}

	course.InstructorID = instructorID
	return s.courseRepo.CreateCourse(ctx, course)
}

// GetCourseByID retrieves a course by ID
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	return s.courseRepo.GetCourseByID(ctx, id)
}

// GetAllCourses retrieves a page of courses
func (s *courseServiceImpl) GetAllCourses(ctx context.Context, offset uint64, limit int) ([]*models.Course, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.courseRepo.GetAllCourses(ctx, offset, uint64(limit))
}

// GetCoursesByInstructor retrieves courses owned by an instructor
func (s *courseServiceImpl) GetCoursesByInstructor(ctx context.Context, instructorID int64) ([]*models.Course, error) {
	return s.courseRepo.GetCoursesByInstructor(ctx, instructorID)
}

// UpdateCourse updates a course if the caller owns it
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, instructorID int64, course *models.Course) error {
	if err := s.validateCourse(course); err != nil {
		return err
	}

	existing, err := s.courseRepo.GetCourseByID(ctx, course.ID)
	if err != nil {
		return err
	}
	if existing.InstructorID != instructorID {
		return apperrors.NewForbiddenError("course belongs to another instructor")
	}

	return s.courseRepo.UpdateCourse(ctx, course)
}

// DeleteCourse removes a course if the caller owns it
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, instructorID, courseID int64) error {
	existing, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	if existing.InstructorID != instructorID {
		return apperrors.NewForbiddenError("course belongs to another instructor")
	}

	return s.courseRepo.DeleteCourse(ctx, courseID)
}
