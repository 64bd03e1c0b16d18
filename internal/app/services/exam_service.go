package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/skillforge/backend/internal/app/models"
	"github.com/skillforge/backend/internal/app/repositories"
	"github.com/skillforge/backend/internal/pkg/apperrors"
	"github.com/skillforge/backend/internal/pkg/validation"
)

// PassPercentageThreshold is the percentage at or above which an attempt
// counts as passed in exam statistics.
const PassPercentageThreshold = 70.0

// ExamService defines the interface for exam and question management
type ExamService interface {
	CreateExam(ctx context.Context, instructorID int64, exam *models.Exam) (int64, error)
	GetExamByID(ctx context.Context, id int64) (*models.Exam, error)
	GetExamsByCourse(ctx context.Context, courseID int64) ([]*models.Exam, error)
	UpdateExam(ctx context.Context, instructorID int64, exam *models.Exam) error
	DeleteExam(ctx context.Context, instructorID, examID int64) error

	AddQuestion(ctx context.Context, instructorID int64, question *models.Question) (int64, error)
	GetExamQuestions(ctx context.Context, instructorID, examID int64) ([]*models.Question, error)
	UpdateQuestion(ctx context.Context, instructorID int64, question *models.Question) error
	DeleteQuestion(ctx context.Context, instructorID, questionID int64) error

	GetExamStats(ctx context.Context, instructorID, examID int64) (*repositories.ExamStats, error)
}

// examServiceImpl implements the ExamService interface
type examServiceImpl struct {
	examRepo     *repositories.ExamRepository
	questionRepo *repositories.QuestionRepository
	courseRepo   *repositories.CourseRepository
	attemptRepo  *repositories.AttemptRepository
}

// NewExamService creates a new exam service instance
func NewExamService(
	examRepo *repositories.ExamRepository,
	questionRepo *repositories.QuestionRepository,
	courseRepo *repositories.CourseRepository,
	attemptRepo *repositories.AttemptRepository,
) ExamService {
	return &examServiceImpl{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		courseRepo:   courseRepo,
		attemptRepo:  attemptRepo,
	}
}

func (s *examServiceImpl) validateExam(exam *models.Exam) error {
	if exam == nil {
		return fmt.Errorf("%w: exam is nil", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(exam.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidationFailed)
	}
	if exam.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", apperrors.ErrValidationFailed)
	}
	if exam.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max attempts must be positive", apperrors.ErrValidationFailed)
	}
	if exam.NegativeMarkValue < 0 || exam.NegativeMarkValue > 1 {
		return fmt.Errorf("%w: negative mark value must be between 0 and 1", apperrors.ErrValidationFailed)
	}
	if exam.NegativeMarking && exam.NegativeMarkValue == 0 {
		return fmt.Errorf("%w: negative marking enabled without a mark value", apperrors.ErrValidationFailed)
	}
	return nil
}

func (s *examServiceImpl) validateQuestion(question *models.Question) error {
	if question == nil {
		return fmt.Errorf("%w: question is nil", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(question.QuestionText) == "" {
		return fmt.Errorf("%w: question text cannot be empty", apperrors.ErrValidationFailed)
	}
	for label, option := range map[string]string{
		models.OptionA: question.OptionA,
		models.OptionB: question.OptionB,
		models.OptionC: question.OptionC,
		models.OptionD: question.OptionD,
	} {
		if strings.TrimSpace(option) == "" {
			return fmt.Errorf("%w: option %s cannot be empty", apperrors.ErrValidationFailed, label)
		}
	}

	question.CorrectOption = strings.ToUpper(strings.TrimSpace(question.CorrectOption))
	if !validation.IsOptionLetter(question.CorrectOption) {
		return fmt.Errorf("%w: correct option must be one of A, B, C, D", apperrors.ErrValidationFailed)
	}
	if question.Marks < 0 {
		return fmt.Errorf("%w: marks cannot be negative", apperrors.ErrValidationFailed)
	}
	if question.Marks == 0 {
		question.Marks = 1
	}
	return nil
}

// requireExamOwnership loads the exam and checks the caller owns it
func (s *examServiceImpl) requireExamOwnership(ctx context.Context, instructorID, examID int64) (*models.Exam, error) {
	exam, err := s.examRepo.GetExamByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam.InstructorID != instructorID {
		return nil, apperrors.NewForbiddenError("exam belongs to another instructor")
	}
	return exam, nil
}

// CreateExam creates an exam under a course the caller owns
func (s *examServiceImpl) CreateExam(ctx context.Context, instructorID int64, exam *models.Exam) (int64, error) {
	if err := s.validateExam(exam); err != nil {
		return 0, err
	}

	course, err := s.courseRepo.GetCourseByID(ctx, exam.CourseID)
	if err != nil {
		return 0, err
	}
	if course.InstructorID != instructorID {
		return 0, apperrors.NewForbiddenError("course belongs to another instructor")
	}

	exam.InstructorID = instructorID
	return s.examRepo.CreateExam(ctx, exam)
}

// GetExamByID retrieves an exam by ID
func (s *examServiceImpl) GetExamByID(ctx context.Context, id int64) (*models.Exam, error) {
	return s.examRepo.GetExamByID(ctx, id)
}

// GetExamsByCourse lists exams for a course
func (s *examServiceImpl) GetExamsByCourse(ctx context.Context, courseID int64) ([]*models.Exam, error) {
	if _, err := s.courseRepo.GetCourseByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.examRepo.GetExamsByCourse(ctx, courseID)
}

// UpdateExam updates exam settings if the caller owns it.
// Changing grading settings never rescored past attempts; results are
// immutable once written.
func (s *examServiceImpl) UpdateExam(ctx context.Context, instructorID int64, exam *models.Exam) error {
	if err := s.validateExam(exam); err != nil {
		return err
	}
	if _, err := s.requireExamOwnership(ctx, instructorID, exam.ID); err != nil {
		return err
	}
	return s.examRepo.UpdateExam(ctx, exam)
}

// DeleteExam removes an exam if the caller owns it
func (s *examServiceImpl) DeleteExam(ctx context.Context, instructorID, examID int64) error {
	if _, err := s.requireExamOwnership(ctx, instructorID, examID); err != nil {
		return err
	}
	return s.examRepo.DeleteExam(ctx, examID)
}

// AddQuestion appends a question to an exam the caller owns
func (s *examServiceImpl) AddQuestion(ctx context.Context, instructorID int64, question *models.Question) (int64, error) {
	if err := s.validateQuestion(question); err != nil {
		return 0, err
	}
	if _, err := s.requireExamOwnership(ctx, instructorID, question.ExamID); err != nil {
		return 0, err
	}

	if question.QuestionOrder == 0 {
		existing, err := s.questionRepo.GetQuestionsByExam(ctx, question.ExamID)
		if err != nil {
			return 0, err
		}
		question.QuestionOrder = len(existing) + 1
	}

	return s.questionRepo.CreateQuestion(ctx, question)
}

// GetExamQuestions returns an exam's questions, answer key included, to the
// owning instructor.
func (s *examServiceImpl) GetExamQuestions(ctx context.Context, instructorID, examID int64) ([]*models.Question, error) {
	if _, err := s.requireExamOwnership(ctx, instructorID, examID); err != nil {
		return nil, err
	}
	return s.questionRepo.GetQuestionsByExam(ctx, examID)
}

// UpdateQuestion updates a question on an exam the caller owns
func (s *examServiceImpl) UpdateQuestion(ctx context.Context, instructorID int64, question *models.Question) error {
	existing, err := s.questionRepo.GetQuestionByID(ctx, question.ID)
	if err != nil {
		return err
	}
	question.ExamID = existing.ExamID

	if err := s.validateQuestion(question); err != nil {
		return err
	}
	if _, err := s.requireExamOwnership(ctx, instructorID, existing.ExamID); err != nil {
		return err
	}

	return s.questionRepo.UpdateQuestion(ctx, question)
}

// DeleteQuestion removes a question from an exam the caller owns
func (s *examServiceImpl) DeleteQuestion(ctx context.Context, instructorID, questionID int64) error {
	existing, err := s.questionRepo.GetQuestionByID(ctx, questionID)
	if err != nil {
		return err
	}
	if _, err := s.requireExamOwnership(ctx, instructorID, existing.ExamID); err != nil {
		return err
	}

	return s.questionRepo.DeleteQuestion(ctx, questionID)
}

// GetExamStats aggregates attempt statistics for an exam the caller owns
func (s *examServiceImpl) GetExamStats(ctx context.Context, instructorID, examID int64) (*repositories.ExamStats, error) {
	if _, err := s.requireExamOwnership(ctx, instructorID, examID); err != nil {
		return nil, err
	}
	return s.attemptRepo.GetExamStats(ctx, examID, PassPercentageThreshold)
}
