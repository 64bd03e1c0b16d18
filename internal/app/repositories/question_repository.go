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

// QuestionRepository handles question database operations
type QuestionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(db *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var questionColumns = []string{
	"id", "exam_id", "question_text", "option_a", "option_b", "option_c", "option_d",
	"correct_option", "marks", "question_order", "created_at",
}

func scanQuestionRows(rows pgx.Rows) ([]*models.Question, error) {
	questions := []*models.Question{}
	for rows.Next() {
		q := &models.Question{}
		err := rows.Scan(
			&q.ID, &q.ExamID, &q.QuestionText, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD,
			&q.CorrectOption, &q.Marks, &q.QuestionOrder, &q.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}

// CreateQuestion adds a question to an exam and returns the generated ID
func (r *QuestionRepository) CreateQuestion(ctx context.Context, question *models.Question) (int64, error) {
	sql, args, err := r.sb.Insert("questions").
		Columns("exam_id", "question_text", "option_a", "option_b", "option_c", "option_d",
			"correct_option", "marks", "question_order").
		Values(question.ExamID, question.QuestionText,
			question.OptionA, question.OptionB, question.OptionC, question.OptionD,
			question.CorrectOption, question.Marks, question.QuestionOrder).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create question SQL")
		return 0, fmt.Errorf("failed to build create question query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Int64("examID", question.ExamID).Msg("Error executing create question query")
		return 0, fmt.Errorf("error creating question: %w", err)
	}

	return id, nil
}

// GetQuestionByID retrieves a question by ID
func (r *QuestionRepository) GetQuestionByID(ctx context.Context, id int64) (*models.Question, error) {
	sql, args, err := r.sb.Select(questionColumns...).
		From("questions").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get question by ID SQL")
		return nil, fmt.Errorf("failed to build get question query: %w", err)
	}

	q := &models.Question{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&q.ID, &q.ExamID, &q.QuestionText, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD,
		&q.CorrectOption, &q.Marks, &q.QuestionOrder, &q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrQuestionNotFound
		}
		logger.Error().Err(err).Int64("questionID", id).Msg("Error scanning question row")
		return nil, fmt.Errorf("error getting question by ID: %w", err)
	}

	return q, nil
}

// GetQuestionsByExam lists an exam's questions in presentation order.
// Ordering is question_order ascending with id as a stable tiebreak.
func (r *QuestionRepository) GetQuestionsByExam(ctx context.Context, examID int64) ([]*models.Question, error) {
	sql, args, err := r.sb.Select(questionColumns...).
		From("questions").
		Where(squirrel.Eq{"exam_id": examID}).
		OrderBy("question_order ASC", "id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get questions by exam SQL")
		return nil, fmt.Errorf("failed to build get questions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("examID", examID).Msg("Error executing get questions query")
		return nil, fmt.Errorf("error querying questions: %w", err)
	}
	defer rows.Close()

	questions, err := scanQuestionRows(rows)
	if err != nil {
		logger.Error().Err(err).Int64("examID", examID).Msg("Error scanning question rows")
		return nil, fmt.Errorf("error scanning questions: %w", err)
	}

	return questions, nil
}

// UpdateQuestion updates a question's text, options, answer key and weighting
func (r *QuestionRepository) UpdateQuestion(ctx context.Context, question *models.Question) error {
	sql, args, err := r.sb.Update("questions").
		Set("question_text", question.QuestionText).
		Set("option_a", question.OptionA).
		Set("option_b", question.OptionB).
		Set("option_c", question.OptionC).
		Set("option_d", question.OptionD).
		Set("correct_option", question.CorrectOption).
		Set("marks", question.Marks).
		Set("question_order", question.QuestionOrder).
		Where(squirrel.Eq{"id": question.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update question SQL")
		return fmt.Errorf("failed to build update question query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("questionID", question.ID).Msg("Error executing update question query")
		return fmt.Errorf("error updating question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrQuestionNotFound
	}

	return nil
}

// DeleteQuestion removes a question from its exam
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("questions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete question SQL")
		return fmt.Errorf("failed to build delete question query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("questionID", id).Msg("Error executing delete question query")
		return fmt.Errorf("error deleting question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrQuestionNotFound
	}

	return nil
}
