package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skillforge/backend/internal/app/models"
	"github.com/skillforge/backend/internal/pkg/apperrors"
	"github.com/skillforge/backend/internal/pkg/logger"
)

// ExamRepository handles exam database operations
type ExamRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewExamRepository creates a new ExamRepository
func NewExamRepository(db *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var examColumns = []string{
	"id", "course_id", "instructor_id", "title", "description",
	"duration_minutes", "max_attempts", "negative_marking", "negative_mark_value",
	"created_at", "updated_at",
}

func scanExam(row pgx.Row) (*models.Exam, error) {
	exam := &models.Exam{}
	err := row.Scan(
		&exam.ID, &exam.CourseID, &exam.InstructorID, &exam.Title, &exam.Description,
		&exam.DurationMinutes, &exam.MaxAttempts, &exam.NegativeMarking, &exam.NegativeMarkValue,
		&exam.CreatedAt, &exam.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return exam, nil
}

// CreateExam creates a new exam and returns the generated ID
func (r *ExamRepository) CreateExam(ctx context.Context, exam *models.Exam) (int64, error) {
	sql, args, err := r.sb.Insert("exams").
		Columns("course_id", "instructor_id", "title", "description",
			"duration_minutes", "max_attempts", "negative_marking", "negative_mark_value").
		Values(exam.CourseID, exam.InstructorID, exam.Title, exam.Description,
			exam.DurationMinutes, exam.MaxAttempts, exam.NegativeMarking, exam.NegativeMarkValue).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create exam SQL")
		return 0, fmt.Errorf("failed to build create exam query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Int64("courseID", exam.CourseID).Msg("Error executing create exam query")
		return 0, fmt.Errorf("error creating exam: %w", err)
	}

	return id, nil
}

// GetExamByID retrieves an exam by ID
func (r *ExamRepository) GetExamByID(ctx context.Context, id int64) (*models.Exam, error) {
	sql, args, err := r.sb.Select(examColumns...).
		From("exams").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get exam by ID SQL")
		return nil, fmt.Errorf("failed to build get exam query: %w", err)
	}

	exam, err := scanExam(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrExamNotFound
		}
		logger.Error().Err(err).Int64("examID", id).Msg("Error scanning exam row")
		return nil, fmt.Errorf("error getting exam by ID: %w", err)
	}

	return exam, nil
}

// GetExamsByCourse lists all exams of a course
func (r *ExamRepository) GetExamsByCourse(ctx context.Context, courseID int64) ([]*models.Exam, error) {
	sql, args, err := r.sb.Select(examColumns...).
		From("exams").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get exams by course SQL")
		return nil, fmt.Errorf("failed to build get exams by course query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing get exams by course query")
		return nil, fmt.Errorf("error querying exams: %w", err)
	}
	defer rows.Close()

	exams := []*models.Exam{}
	for rows.Next() {
		exam := &models.Exam{}
		err := rows.Scan(
			&exam.ID, &exam.CourseID, &exam.InstructorID, &exam.Title, &exam.Description,
			&exam.DurationMinutes, &exam.MaxAttempts, &exam.NegativeMarking, &exam.NegativeMarkValue,
			&exam.CreatedAt, &exam.UpdatedAt,
		)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning exam row")
			return nil, fmt.Errorf("error scanning exam: %w", err)
		}
		exams = append(exams, exam)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exam rows: %w", err)
	}

	return exams, nil
}

// UpdateExam updates exam metadata and grading settings
func (r *ExamRepository) UpdateExam(ctx context.Context, exam *models.Exam) error {
	sql, args, err := r.sb.Update("exams").
		Set("title", exam.Title).
		Set("description", exam.Description).
		Set("duration_minutes", exam.DurationMinutes).
		Set("max_attempts", exam.MaxAttempts).
		Set("negative_marking", exam.NegativeMarking).
		Set("negative_mark_value", exam.NegativeMarkValue).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": exam.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update exam SQL")
		return fmt.Errorf("failed to build update exam query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("examID", exam.ID).Msg("Error executing update exam query")
		return fmt.Errorf("error updating exam: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrExamNotFound
	}

	return nil
}

// DeleteExam removes an exam and, via cascades, its questions and attempts
func (r *ExamRepository) DeleteExam(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("exams").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete exam SQL")
		return fmt.Errorf("failed to build delete exam query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("examID", id).Msg("Error executing delete exam query")
		return fmt.Errorf("error deleting exam: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrExamNotFound
	}

	return nil
}
