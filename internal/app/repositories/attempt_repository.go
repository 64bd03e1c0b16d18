package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/skillforge/backend/internal/app/models"
	"github.com/skillforge/backend/internal/db"
	"github.com/skillforge/backend/internal/pkg/apperrors"
	"github.com/skillforge/backend/internal/pkg/dberrors"
	"github.com/skillforge/backend/internal/pkg/logger"
)

// AttemptRepository handles exam attempt and answer database operations.
// Scored attempts are written through CreateScored, which is the only write
// path and runs in a single transaction.
type AttemptRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewAttemptRepository creates a new AttemptRepository
func NewAttemptRepository(database *db.PostgresDB) *AttemptRepository {
	return &AttemptRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var attemptColumns = []string{
	"id", "exam_id", "student_id", "attempt_no", "score", "percentage",
	"total_questions", "correct_answers", "wrong_answers", "time_taken_minutes", "attempted_at",
}

func scanAttempt(row pgx.Row) (*models.ExamAttempt, error) {
	a := &models.ExamAttempt{}
	err := row.Scan(
		&a.ID, &a.ExamID, &a.StudentID, &a.AttemptNo, &a.Score, &a.Percentage,
		&a.TotalQuestions, &a.CorrectAnswers, &a.WrongAnswers, &a.TimeTakenMinutes, &a.AttemptedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CountAttempts returns how many attempts a student has recorded for an exam
func (r *AttemptRepository) CountAttempts(ctx context.Context, examID, studentID int64) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("exam_attempts").
		Where(squirrel.Eq{"exam_id": examID, "student_id": studentID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count attempts SQL")
		return 0, fmt.Errorf("failed to build count attempts query: %w", err)
	}

	var count int
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Int64("examID", examID).Int64("studentID", studentID).Msg("Error counting attempts")
		return 0, fmt.Errorf("error counting attempts: %w", err)
	}

	return count, nil
}

// CreateScored persists a fully evaluated attempt together with all of its
// answer rows in one transaction.
//
// The attempt quota is re-checked inside the transaction and the attempt
// number is derived from the in-transaction count, so either the whole
// attempt becomes visible or nothing does. Two racing submissions that both
// pass the count land on the same attempt_no; the unique constraint rejects
// the loser with ErrSubmissionConflict, which callers may retry once.
func (r *AttemptRepository) CreateScored(ctx context.Context, attempt *models.ExamAttempt, answers []*models.ExamAnswer, maxAttempts int) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		countSQL, countArgs, err := r.sb.Select("COUNT(*)").
			From("exam_attempts").
			Where(squirrel.Eq{"exam_id": attempt.ExamID, "student_id": attempt.StudentID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build count attempts query: %w", err)
		}

		var used int
		if err := tx.QueryRow(ctx, countSQL, countArgs...).Scan(&used); err != nil {
			logger.Error().Err(err).Int64("examID", attempt.ExamID).Msg("Error counting attempts in transaction")
			return fmt.Errorf("error counting attempts: %w", err)
		}
		if used >= maxAttempts {
			return apperrors.ErrAttemptsExhausted
		}
		attempt.AttemptNo = used + 1

		insertSQL, insertArgs, err := r.sb.Insert("exam_attempts").
			Columns("exam_id", "student_id", "attempt_no", "score", "percentage",
				"total_questions", "correct_answers", "wrong_answers", "time_taken_minutes").
			Values(attempt.ExamID, attempt.StudentID, attempt.AttemptNo,
				attempt.Score, attempt.Percentage, attempt.TotalQuestions,
				attempt.CorrectAnswers, attempt.WrongAnswers, attempt.TimeTakenMinutes).
			Suffix("RETURNING id, attempted_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert attempt query: %w", err)
		}

		err = tx.QueryRow(ctx, insertSQL, insertArgs...).Scan(&attempt.ID, &attempt.AttemptedAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "exam_attempts_exam_student_no_key") {
				logger.Warn().
					Int64("examID", attempt.ExamID).
					Int64("studentID", attempt.StudentID).
					Int("attemptNo", attempt.AttemptNo).
					Msg("Concurrent submission lost the attempt number race")
				return apperrors.ErrSubmissionConflict
			}
			logger.Error().Err(err).Int64("examID", attempt.ExamID).Msg("Error inserting attempt")
			return fmt.Errorf("error inserting attempt: %w", err)
		}

		batch := &pgx.Batch{}
		for _, answer := range answers {
			answer.AttemptID = attempt.ID
			sql, args, err := r.sb.Insert("exam_answers").
				Columns("attempt_id", "question_id", "selected_option", "is_correct", "marks_obtained").
				Values(answer.AttemptID, answer.QuestionID, answer.SelectedOption, answer.IsCorrect, answer.MarksObtained).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build insert answer query: %w", err)
			}
			batch.Queue(sql, args...)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()
		for range answers {
			if _, err := results.Exec(); err != nil {
				logger.Error().Err(err).Int64("attemptID", attempt.ID).Msg("Error inserting answer batch")
				return fmt.Errorf("error inserting answers: %w", err)
			}
		}

		return results.Close()
	})
}

// GetAttemptByID retrieves an attempt by ID
func (r *AttemptRepository) GetAttemptByID(ctx context.Context, id int64) (*models.ExamAttempt, error) {
	sql, args, err := r.sb.Select(attemptColumns...).
		From("exam_attempts").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get attempt by ID SQL")
		return nil, fmt.Errorf("failed to build get attempt query: %w", err)
	}

	attempt, err := scanAttempt(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAttemptNotFound
		}
		logger.Error().Err(err).Int64("attemptID", id).Msg("Error scanning attempt row")
		return nil, fmt.Errorf("error getting attempt by ID: %w", err)
	}

	return attempt, nil
}

// GetAnswersByAttempt returns an attempt's answer rows joined with their
// questions, in the exam's presentation order.
func (r *AttemptRepository) GetAnswersByAttempt(ctx context.Context, attemptID int64) ([]*models.ExamAnswer, error) {
	sql, args, err := r.sb.Select(
		"a.id", "a.attempt_id", "a.question_id", "a.selected_option", "a.is_correct", "a.marks_obtained", "a.answered_at",
		"q.id", "q.exam_id", "q.question_text", "q.option_a", "q.option_b", "q.option_c", "q.option_d",
		"q.correct_option", "q.marks", "q.question_order", "q.created_at",
	).
		From("exam_answers a").
		Join("questions q ON q.id = a.question_id").
		Where(squirrel.Eq{"a.attempt_id": attemptID}).
		OrderBy("q.question_order ASC", "q.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get answers by attempt SQL")
		return nil, fmt.Errorf("failed to build get answers query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("attemptID", attemptID).Msg("Error executing get answers query")
		return nil, fmt.Errorf("error querying answers: %w", err)
	}
	defer rows.Close()

	answers := []*models.ExamAnswer{}
	for rows.Next() {
		answer := &models.ExamAnswer{Question: &models.Question{}}
		q := answer.Question
		err := rows.Scan(
			&answer.ID, &answer.AttemptID, &answer.QuestionID, &answer.SelectedOption,
			&answer.IsCorrect, &answer.MarksObtained, &answer.AnsweredAt,
			&q.ID, &q.ExamID, &q.QuestionText, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD,
			&q.CorrectOption, &q.Marks, &q.QuestionOrder, &q.CreatedAt,
		)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning answer row")
			return nil, fmt.Errorf("error scanning answer: %w", err)
		}
		answers = append(answers, answer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating answer rows: %w", err)
	}

	return answers, nil
}

// GetAttemptsByStudent lists a student's attempts for one exam, newest first
func (r *AttemptRepository) GetAttemptsByStudent(ctx context.Context, examID, studentID int64) ([]*models.ExamAttempt, error) {
	sql, args, err := r.sb.Select(attemptColumns...).
		From("exam_attempts").
		Where(squirrel.Eq{"exam_id": examID, "student_id": studentID}).
		OrderBy("attempt_no DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get attempts by student SQL")
		return nil, fmt.Errorf("failed to build get attempts query: %w", err)
	}

	return r.queryAttempts(ctx, sql, args)
}

// GetAttemptsByExam lists all attempts of an exam, newest first
func (r *AttemptRepository) GetAttemptsByExam(ctx context.Context, examID int64) ([]*models.ExamAttempt, error) {
	sql, args, err := r.sb.Select(attemptColumns...).
		From("exam_attempts").
		Where(squirrel.Eq{"exam_id": examID}).
		OrderBy("attempted_at DESC", "id DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get attempts by exam SQL")
		return nil, fmt.Errorf("failed to build get attempts query: %w", err)
	}

	return r.queryAttempts(ctx, sql, args)
}

func (r *AttemptRepository) queryAttempts(ctx context.Context, sql string, args []interface{}) ([]*models.ExamAttempt, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing attempts query")
		return nil, fmt.Errorf("error querying attempts: %w", err)
	}
	defer rows.Close()

	attempts := []*models.ExamAttempt{}
	for rows.Next() {
		a := &models.ExamAttempt{}
		err := rows.Scan(
			&a.ID, &a.ExamID, &a.StudentID, &a.AttemptNo, &a.Score, &a.Percentage,
			&a.TotalQuestions, &a.CorrectAnswers, &a.WrongAnswers, &a.TimeTakenMinutes, &a.AttemptedAt,
		)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning attempt row")
			return nil, fmt.Errorf("error scanning attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempt rows: %w", err)
	}

	return attempts, nil
}

// ExamStats is the aggregate view over one exam's attempts
type ExamStats struct {
	TotalAttempts     int64
	DistinctStudents  int64
	AverageScore      float64
	AveragePercentage float64
	PassRate          float64
}

// GetExamStats aggregates an exam's attempts. Pass rate counts attempts at
// or above the given percentage threshold.
func (r *AttemptRepository) GetExamStats(ctx context.Context, examID int64, passThreshold float64) (*ExamStats, error) {
	sql, args, err := r.sb.Select(
		"COUNT(*)",
		"COUNT(DISTINCT student_id)",
		"COALESCE(AVG(score), 0)",
		"COALESCE(AVG(percentage), 0)",
	).
		Column(squirrel.Expr("COALESCE(AVG(CASE WHEN percentage >= ? THEN 1.0 ELSE 0.0 END), 0)", passThreshold)).
		From("exam_attempts").
		Where(squirrel.Eq{"exam_id": examID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building exam stats SQL")
		return nil, fmt.Errorf("failed to build exam stats query: %w", err)
	}

	stats := &ExamStats{}
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&stats.TotalAttempts, &stats.DistinctStudents,
		&stats.AverageScore, &stats.AveragePercentage, &stats.PassRate,
	)
	if err != nil {
		logger.Error().Err(err).Int64("examID", examID).Msg("Error scanning exam stats")
		return nil, fmt.Errorf("error getting exam stats: %w", err)
	}

	return stats, nil
}
