package repositories

import (
	"github.com/skillforge/backend/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	TokenRepository      *TokenRepository
	CourseRepository     *CourseRepository
	EnrollmentRepository *EnrollmentRepository
	ExamRepository       *ExamRepository
	QuestionRepository   *QuestionRepository
	AttemptRepository    *AttemptRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	pool := database.Pool
	return &Repositories{
		UserRepository:       NewUserRepository(pool),
		TokenRepository:      NewTokenRepository(pool),
		CourseRepository:     NewCourseRepository(pool),
		EnrollmentRepository: NewEnrollmentRepository(pool),
		ExamRepository:       NewExamRepository(pool),
		QuestionRepository:   NewQuestionRepository(pool),
		AttemptRepository:    NewAttemptRepository(database),
	}
}
