// Package seed creates demo data for local development.
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/skillforge/backend/internal/pkg/auth"
)

// CreateDefaultData inserts a demo instructor, student, course and exam when
// the users table is empty. Safe to call on every startup.
func CreateDefaultData(ctx context.Context, pool *pgxpool.Pool, lgr zerolog.Logger) error {
	var userCount int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&userCount); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if userCount > 0 {
		lgr.Debug().Msg("Users already exist, skipping default data")
		return nil
	}

	password, err := auth.HashPassword("changeme123")
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	var instructorID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, password, first_name, last_name, role_type)
		VALUES ($1, $2, 'Default', 'Instructor', 'INSTRUCTOR')
		RETURNING id`,
		"instructor@skillforge.io", password).Scan(&instructorID)
	if err != nil {
		return fmt.Errorf("failed to create default instructor: %w", err)
	}

	var studentID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, password, first_name, last_name, role_type)
		VALUES ($1, $2, 'Default', 'Student', 'STUDENT')
		RETURNING id`,
		"student@skillforge.io", password).Scan(&studentID)
	if err != nil {
		return fmt.Errorf("failed to create default student: %w", err)
	}

	var courseID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO courses (title, description, instructor_id)
		VALUES ('Introduction to Go', 'Demo course seeded for local development', $1)
		RETURNING id`,
		instructorID).Scan(&courseID)
	if err != nil {
		return fmt.Errorf("failed to create default course: %w", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO enrollments (student_id, course_id) VALUES ($1, $2)`,
		studentID, courseID)
	if err != nil {
		return fmt.Errorf("failed to enroll default student: %w", err)
	}

	var examID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO exams (course_id, instructor_id, title, description, duration_minutes, max_attempts, negative_marking, negative_mark_value)
		VALUES ($1, $2, 'Go Basics Quiz', 'Demo exam with negative marking', 30, 3, TRUE, 0.25)
		RETURNING id`,
		courseID, instructorID).Scan(&examID)
	if err != nil {
		return fmt.Errorf("failed to create default exam: %w", err)
	}

	questions := []struct {
		text    string
		a, b    string
		c, d    string
		correct string
		order   int
	}{
		{"Which keyword declares a variable with inferred type?", "var", ":=", "let", "auto", "B", 1},
		{"What is the zero value of a pointer?", "0", "undefined", "nil", "empty struct", "C", 2},
		{"Which construct is used for concurrent execution?", "thread", "goroutine", "fiber", "task", "B", 3},
		{"Which function starts a Go program?", "init", "start", "run", "main", "D", 4},
	}
	for _, q := range questions {
		_, err = pool.Exec(ctx, `
			INSERT INTO questions (exam_id, question_text, option_a, option_b, option_c, option_d, correct_option, marks, question_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 1.0, $8)`,
			examID, q.text, q.a, q.b, q.c, q.d, q.correct, q.order)
		if err != nil {
			return fmt.Errorf("failed to create default question: %w", err)
		}
	}

	lgr.Info().
		Int64("instructorID", instructorID).
		Int64("studentID", studentID).
		Int64("courseID", courseID).
		Int64("examID", examID).
		Msg("Default demo data created")

	return nil
}
