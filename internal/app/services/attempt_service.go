package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/skillforge/backend/internal/app/models"
	"github.com/skillforge/backend/internal/app/models/dto"
	"github.com/skillforge/backend/internal/pkg/apperrors"
	"github.com/skillforge/backend/internal/pkg/logger"
	"github.com/skillforge/backend/internal/pkg/validation"
)

// ExamStore is the exam lookup surface the attempt service needs
type ExamStore interface {
	GetExamByID(ctx context.Context, id int64) (*models.Exam, error)
}

// QuestionStore is the question lookup surface the attempt service needs
type QuestionStore interface {
	GetQuestionsByExam(ctx context.Context, examID int64) ([]*models.Question, error)
}

// EnrollmentStore is the enrollment lookup surface the attempt service needs
type EnrollmentStore interface {
	IsEnrolled(ctx context.Context, studentID, courseID int64) (bool, error)
}

// AttemptStore is the attempt persistence surface the attempt service needs.
// CreateScored must write the attempt and all of its answers atomically and
// enforce the max-attempts quota under concurrency.
type AttemptStore interface {
	CountAttempts(ctx context.Context, examID, studentID int64) (int, error)
	CreateScored(ctx context.Context, attempt *models.ExamAttempt, answers []*models.ExamAnswer, maxAttempts int) error
	GetAttemptByID(ctx context.Context, id int64) (*models.ExamAttempt, error)
	GetAnswersByAttempt(ctx context.Context, attemptID int64) ([]*models.ExamAnswer, error)
	GetAttemptsByStudent(ctx context.Context, examID, studentID int64) ([]*models.ExamAttempt, error)
	GetAttemptsByExam(ctx context.Context, examID int64) ([]*models.ExamAttempt, error)
}

// AttemptService defines the interface for taking and reviewing exams
type AttemptService interface {
	StartAttempt(ctx context.Context, studentID, examID int64) (*dto.StartExamResponse, error)
	SubmitAttempt(ctx context.Context, studentID, examID int64, req *dto.SubmitAttemptRequest) (*models.ExamAttempt, error)
	GetAttemptDetail(ctx context.Context, callerID, attemptID int64) (*models.ExamAttempt, []*models.ExamAnswer, error)
	GetStudentAttempts(ctx context.Context, studentID, examID int64) ([]*models.ExamAttempt, error)
	GetExamAttempts(ctx context.Context, instructorID, examID int64) ([]*models.ExamAttempt, error)
}

// attemptServiceImpl implements the AttemptService interface
type attemptServiceImpl struct {
	examStore       ExamStore
	questionStore   QuestionStore
	enrollmentStore EnrollmentStore
	attemptStore    AttemptStore
}

// NewAttemptService creates a new attempt service instance
func NewAttemptService(
	examStore ExamStore,
	questionStore QuestionStore,
	enrollmentStore EnrollmentStore,
	attemptStore AttemptStore,
) AttemptService {
	return &attemptServiceImpl{
		examStore:       examStore,
		questionStore:   questionStore,
		enrollmentStore: enrollmentStore,
		attemptStore:    attemptStore,
	}
}

// loadEligibleExam fetches the exam and verifies the student may take it
func (s *attemptServiceImpl) loadEligibleExam(ctx context.Context, studentID, examID int64) (*models.Exam, error) {
	exam, err := s.examStore.GetExamByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.enrollmentStore.IsEnrolled(ctx, studentID, exam.CourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, apperrors.ErrNotEnrolled
	}

	return exam, nil
}

// StartAttempt returns the exam and its questions, answer key stripped, if
// the student is enrolled and has attempts left.
func (s *attemptServiceImpl) StartAttempt(ctx context.Context, studentID, examID int64) (*dto.StartExamResponse, error) {
	exam, err := s.loadEligibleExam(ctx, studentID, examID)
	if err != nil {
		return nil, err
	}

	used, err := s.attemptStore.CountAttempts(ctx, examID, studentID)
	if err != nil {
		return nil, err
	}
	if used >= exam.MaxAttempts {
		return nil, apperrors.ErrAttemptsExhausted
	}

	questions, err := s.questionStore.GetQuestionsByExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperrors.ErrNoQuestionsForExam
	}

	return &dto.StartExamResponse{
		Exam:             toExamResponse(exam),
		Questions:        sanitizeQuestions(questions),
		AttemptsUsed:     used,
		AttemptsRemained: exam.MaxAttempts - used,
	}, nil
}

// SubmitAttempt grades a submission and persists the result atomically.
//
// Every question of the exam is evaluated: submitted answers are compared
// case-insensitively against the answer key, unanswered questions count as
// wrong but are never penalized, and the attempt quota is enforced by the
// store inside the same transaction that writes the rows.
func (s *attemptServiceImpl) SubmitAttempt(ctx context.Context, studentID, examID int64, req *dto.SubmitAttemptRequest) (*models.ExamAttempt, error) {
	exam, err := s.loadEligibleExam(ctx, studentID, examID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionStore.GetQuestionsByExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperrors.ErrNoQuestionsForExam
	}

	submitted, err := normalizeSubmission(questions, req.Answers)
	if err != nil {
		return nil, err
	}

	attempt, answers := evaluateAnswers(exam, questions, submitted)
	attempt.StudentID = studentID
	attempt.TimeTakenMinutes = resolveTimeTaken(exam, req.TimeTakenMinutes)

	if err := s.attemptStore.CreateScored(ctx, attempt, answers, exam.MaxAttempts); err != nil {
		return nil, err
	}

	logger.Info().
		Int64("examID", examID).
		Int64("studentID", studentID).
		Int("attemptNo", attempt.AttemptNo).
		Float64("score", attempt.Score).
		Float64("percentage", attempt.Percentage).
		Msg("Exam attempt graded")

	return attempt, nil
}

// GetAttemptDetail returns an attempt with its per-question breakdown. Only
// the student who owns the attempt or the instructor who owns the exam may
// see it.
func (s *attemptServiceImpl) GetAttemptDetail(ctx context.Context, callerID, attemptID int64) (*models.ExamAttempt, []*models.ExamAnswer, error) {
	attempt, err := s.attemptStore.GetAttemptByID(ctx, attemptID)
	if err != nil {
		return nil, nil, err
	}

	if attempt.StudentID != callerID {
		exam, err := s.examStore.GetExamByID(ctx, attempt.ExamID)
		if err != nil {
			return nil, nil, err
		}
		if exam.InstructorID != callerID {
			return nil, nil, apperrors.NewForbiddenError("attempt belongs to another student")
		}
	}

	answers, err := s.attemptStore.GetAnswersByAttempt(ctx, attemptID)
	if err != nil {
		return nil, nil, err
	}

	return attempt, answers, nil
}

// GetStudentAttempts lists the calling student's attempts for an exam
func (s *attemptServiceImpl) GetStudentAttempts(ctx context.Context, studentID, examID int64) ([]*models.ExamAttempt, error) {
	if _, err := s.examStore.GetExamByID(ctx, examID); err != nil {
		return nil, err
	}
	return s.attemptStore.GetAttemptsByStudent(ctx, examID, studentID)
}

// GetExamAttempts lists all attempts of an exam for its owning instructor
func (s *attemptServiceImpl) GetExamAttempts(ctx context.Context, instructorID, examID int64) ([]*models.ExamAttempt, error) {
	exam, err := s.examStore.GetExamByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam.InstructorID != instructorID {
		return nil, apperrors.NewForbiddenError("exam belongs to another instructor")
	}
	return s.attemptStore.GetAttemptsByExam(ctx, examID)
}

// normalizeSubmission uppercases submitted option letters and rejects
// answers that reference unknown questions or carry a letter outside A-D.
func normalizeSubmission(questions []*models.Question, answers map[int64]string) (map[int64]string, error) {
	known := make(map[int64]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}

	normalized := make(map[int64]string, len(answers))
	for questionID, selected := range answers {
		if !known[questionID] {
			return nil, fmt.Errorf("%w: question %d does not belong to this exam", apperrors.ErrValidationFailed, questionID)
		}
		letter := strings.ToUpper(strings.TrimSpace(selected))
		if letter == "" {
			// Treated the same as not answering at all
			continue
		}
		if !validation.IsOptionLetter(letter) {
			return nil, fmt.Errorf("%w: answer for question %d must be one of A, B, C, D", apperrors.ErrValidationFailed, questionID)
		}
		normalized[questionID] = letter
	}

	return normalized, nil
}

// evaluateAnswers grades a normalized submission against the exam's
// questions. It is pure: no storage access, no clock.
//
// One answer row is produced per question, unanswered ones included, so the
// persisted breakdown always covers the full exam. Wrong answers lose
// negativeMarkValue * marks when the exam penalizes them; unanswered
// questions count as wrong but cost nothing.
func evaluateAnswers(exam *models.Exam, questions []*models.Question, submitted map[int64]string) (*models.ExamAttempt, []*models.ExamAnswer) {
	var score, totalPossible float64
	var correctCount int

	answers := make([]*models.ExamAnswer, 0, len(questions))
	for _, q := range questions {
		totalPossible += q.Marks

		answer := &models.ExamAnswer{QuestionID: q.ID}
		if selected, answered := submitted[q.ID]; answered {
			answer.SelectedOption = &selected
			if strings.EqualFold(selected, q.CorrectOption) {
				answer.IsCorrect = true
				answer.MarksObtained = q.Marks
				score += q.Marks
				correctCount++
			} else if exam.NegativeMarking {
				penalty := exam.NegativeMarkValue * q.Marks
				answer.MarksObtained = -penalty
				score -= penalty
			}
		}
		answers = append(answers, answer)
	}

	percentage := 0.0
	if totalPossible > 0 {
		percentage = score / totalPossible * 100
	}

	attempt := &models.ExamAttempt{
		ExamID:         exam.ID,
		Score:          score,
		Percentage:     percentage,
		TotalQuestions: len(questions),
		CorrectAnswers: correctCount,
		WrongAnswers:   len(questions) - correctCount,
	}

	return attempt, answers
}

// resolveTimeTaken accepts the client-reported duration, clamped to the
// exam's time limit, and falls back to the full limit when absent.
func resolveTimeTaken(exam *models.Exam, reported *int) int {
	if reported == nil {
		return exam.DurationMinutes
	}
	minutes := *reported
	if minutes < 0 {
		minutes = 0
	}
	if minutes > exam.DurationMinutes {
		minutes = exam.DurationMinutes
	}
	return minutes
}

// sanitizeQuestions converts questions to their student-facing projection
func sanitizeQuestions(questions []*models.Question) []dto.SanitizedQuestion {
	sanitized := make([]dto.SanitizedQuestion, 0, len(questions))
	for _, q := range questions {
		sanitized = append(sanitized, dto.SanitizedQuestion{
			ID:            q.ID,
			QuestionText:  q.QuestionText,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			Marks:         q.Marks,
			QuestionOrder: q.QuestionOrder,
		})
	}
	return sanitized
}

func toExamResponse(exam *models.Exam) dto.ExamResponse {
	return dto.ExamResponse{
		ID:                exam.ID,
		CourseID:          exam.CourseID,
		InstructorID:      exam.InstructorID,
		Title:             exam.Title,
		Description:       exam.Description,
		DurationMinutes:   exam.DurationMinutes,
		MaxAttempts:       exam.MaxAttempts,
		NegativeMarking:   exam.NegativeMarking,
		NegativeMarkValue: exam.NegativeMarkValue,
	}
}
