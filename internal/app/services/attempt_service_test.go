package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/skillforge/backend/internal/app/models"
	"github.com/skillforge/backend/internal/app/models/dto"
	"github.com/skillforge/backend/internal/pkg/apperrors"
)

// --- fakes ---

type fakeExamStore struct {
	exams map[int64]*models.Exam
}

func (f *fakeExamStore) GetExamByID(_ context.Context, id int64) (*models.Exam, error) {
	exam, ok := f.exams[id]
	if !ok {
		return nil, apperrors.ErrExamNotFound
	}
	return exam, nil
}

type fakeQuestionStore struct {
	questions map[int64][]*models.Question
}

func (f *fakeQuestionStore) GetQuestionsByExam(_ context.Context, examID int64) ([]*models.Question, error) {
	return f.questions[examID], nil
}

type fakeEnrollmentStore struct {
	enrolled map[[2]int64]bool
}

func (f *fakeEnrollmentStore) IsEnrolled(_ context.Context, studentID, courseID int64) (bool, error) {
	return f.enrolled[[2]int64{studentID, courseID}], nil
}

// fakeAttemptStore mimics the transactional quota enforcement of the real
// repository: count and insert happen under one lock.
type fakeAttemptStore struct {
	mu       sync.Mutex
	nextID   int64
	attempts []*models.ExamAttempt
	answers  map[int64][]*models.ExamAnswer
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{nextID: 1, answers: map[int64][]*models.ExamAnswer{}}
}

func (f *fakeAttemptStore) CountAttempts(_ context.Context, examID, studentID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countLocked(examID, studentID), nil
}

func (f *fakeAttemptStore) countLocked(examID, studentID int64) int {
	count := 0
	for _, a := range f.attempts {
		if a.ExamID == examID && a.StudentID == studentID {
			count++
		}
	}
	return count
}

func (f *fakeAttemptStore) CreateScored(_ context.Context, attempt *models.ExamAttempt, answers []*models.ExamAnswer, maxAttempts int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	used := f.countLocked(attempt.ExamID, attempt.StudentID)
	if used >= maxAttempts {
		return apperrors.ErrAttemptsExhausted
	}

	attempt.ID = f.nextID
	f.nextID++
	attempt.AttemptNo = used + 1
	attempt.AttemptedAt = time.Now()
	f.attempts = append(f.attempts, attempt)

	for _, answer := range answers {
		answer.AttemptID = attempt.ID
	}
	f.answers[attempt.ID] = answers
	return nil
}

func (f *fakeAttemptStore) GetAttemptByID(_ context.Context, id int64) (*models.ExamAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attempts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, apperrors.ErrAttemptNotFound
}

func (f *fakeAttemptStore) GetAnswersByAttempt(_ context.Context, attemptID int64) ([]*models.ExamAnswer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.answers[attemptID], nil
}

func (f *fakeAttemptStore) GetAttemptsByStudent(_ context.Context, examID, studentID int64) ([]*models.ExamAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []*models.ExamAttempt{}
	for _, a := range f.attempts {
		if a.ExamID == examID && a.StudentID == studentID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeAttemptStore) GetAttemptsByExam(_ context.Context, examID int64) ([]*models.ExamAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []*models.ExamAttempt{}
	for _, a := range f.attempts {
		if a.ExamID == examID {
			result = append(result, a)
		}
	}
	return result, nil
}

// --- fixtures ---

const (
	testExamID    = int64(10)
	testCourseID  = int64(20)
	testStudentID = int64(30)
)

func makeExam(negativeMarking bool, negativeMarkValue float64, maxAttempts int) *models.Exam {
	return &models.Exam{
		ID:                testExamID,
		CourseID:          testCourseID,
		InstructorID:      99,
		Title:             "Fixture Exam",
		DurationMinutes:   60,
		MaxAttempts:       maxAttempts,
		NegativeMarking:   negativeMarking,
		NegativeMarkValue: negativeMarkValue,
	}
}

func makeQuestions(marks ...float64) []*models.Question {
	correct := []string{"A", "B", "C", "D"}
	questions := make([]*models.Question, 0, len(marks))
	for i, m := range marks {
		questions = append(questions, &models.Question{
			ID:            int64(i + 1),
			ExamID:        testExamID,
			QuestionText:  "q",
			OptionA:       "a", OptionB: "b", OptionC: "c", OptionD: "d",
			CorrectOption: correct[i%len(correct)],
			Marks:         m,
			QuestionOrder: i + 1,
		})
	}
	return questions
}

func newTestService(exam *models.Exam, questions []*models.Question, enrolled bool) (AttemptService, *fakeAttemptStore) {
	attemptStore := newFakeAttemptStore()
	enrollment := &fakeEnrollmentStore{enrolled: map[[2]int64]bool{}}
	if enrolled {
		enrollment.enrolled[[2]int64{testStudentID, testCourseID}] = true
	}
	svc := NewAttemptService(
		&fakeExamStore{exams: map[int64]*models.Exam{exam.ID: exam}},
		&fakeQuestionStore{questions: map[int64][]*models.Question{exam.ID: questions}},
		enrollment,
		attemptStore,
	)
	return svc, attemptStore
}

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// --- evaluation ---

func TestEvaluateAnswers(t *testing.T) {
	tests := []struct {
		name           string
		negative       bool
		negativeValue  float64
		marks          []float64
		submitted      map[int64]string
		wantScore      float64
		wantPercentage float64
		wantCorrect    int
		wantWrong      int
	}{
		{
			// Correct answers are A, B, C, D in question order
			name:           "half correct without negative marking",
			marks:          []float64{1, 1, 1, 1},
			submitted:      map[int64]string{1: "A", 2: "B", 3: "A", 4: "A"},
			wantScore:      2,
			wantPercentage: 50,
			wantCorrect:    2,
			wantWrong:      2,
		},
		{
			name:           "negative marking deducts fraction of marks",
			negative:       true,
			negativeValue:  0.25,
			marks:          []float64{2, 2, 2, 2},
			submitted:      map[int64]string{1: "A", 2: "B", 3: "A", 4: "A"},
			wantScore:      4 - 2*0.5, // two correct, two wrong at 0.25*2 each
			wantPercentage: 37.5,
			wantCorrect:    2,
			wantWrong:      2,
		},
		{
			name:           "empty submission scores zero and is never penalized",
			negative:       true,
			negativeValue:  0.5,
			marks:          []float64{1, 1, 1},
			submitted:      map[int64]string{},
			wantScore:      0,
			wantPercentage: 0,
			wantCorrect:    0,
			wantWrong:      3,
		},
		{
			name:           "lowercase answers match case-insensitively",
			marks:          []float64{1, 1},
			submitted:      map[int64]string{1: "a", 2: "b"},
			wantScore:      2,
			wantPercentage: 100,
			wantCorrect:    2,
			wantWrong:      0,
		},
		{
			name:           "weighted questions scale the percentage",
			marks:          []float64{1, 3},
			submitted:      map[int64]string{2: "B"},
			wantScore:      3,
			wantPercentage: 75,
			wantCorrect:    1,
			wantWrong:      1,
		},
		{
			name:           "all marks zero yields zero percentage",
			marks:          []float64{0, 0},
			submitted:      map[int64]string{1: "A"},
			wantScore:      0,
			wantPercentage: 0,
			wantCorrect:    1,
			wantWrong:      1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exam := makeExam(tc.negative, tc.negativeValue, 1)
			questions := makeQuestions(tc.marks...)

			attempt, answers := evaluateAnswers(exam, questions, tc.submitted)

			if !floatEquals(attempt.Score, tc.wantScore) {
				t.Errorf("score = %v, want %v", attempt.Score, tc.wantScore)
			}
			if !floatEquals(attempt.Percentage, tc.wantPercentage) {
				t.Errorf("percentage = %v, want %v", attempt.Percentage, tc.wantPercentage)
			}
			if attempt.CorrectAnswers != tc.wantCorrect {
				t.Errorf("correctAnswers = %d, want %d", attempt.CorrectAnswers, tc.wantCorrect)
			}
			if attempt.WrongAnswers != tc.wantWrong {
				t.Errorf("wrongAnswers = %d, want %d", attempt.WrongAnswers, tc.wantWrong)
			}
			if attempt.CorrectAnswers+attempt.WrongAnswers != len(questions) {
				t.Errorf("correct+wrong = %d, want %d", attempt.CorrectAnswers+attempt.WrongAnswers, len(questions))
			}
			if attempt.TotalQuestions != len(questions) {
				t.Errorf("totalQuestions = %d, want %d", attempt.TotalQuestions, len(questions))
			}
			if len(answers) != len(questions) {
				t.Fatalf("answer rows = %d, want one per question (%d)", len(answers), len(questions))
			}
		})
	}
}

func TestEvaluateAnswersBreakdown(t *testing.T) {
	exam := makeExam(true, 0.25, 1)
	questions := makeQuestions(2, 2, 2)
	// q1 correct (A), q2 wrong, q3 unanswered
	attempt, answers := evaluateAnswers(exam, questions, map[int64]string{1: "A", 2: "D"})

	if answers[0].SelectedOption == nil || *answers[0].SelectedOption != "A" {
		t.Errorf("q1 selectedOption = %v, want A", answers[0].SelectedOption)
	}
	if !answers[0].IsCorrect || !floatEquals(answers[0].MarksObtained, 2) {
		t.Errorf("q1 = (%v, %v), want correct with 2 marks", answers[0].IsCorrect, answers[0].MarksObtained)
	}

	if answers[1].IsCorrect {
		t.Error("q2 should be wrong")
	}
	if !floatEquals(answers[1].MarksObtained, -0.5) {
		t.Errorf("q2 marksObtained = %v, want -0.5", answers[1].MarksObtained)
	}

	if answers[2].SelectedOption != nil {
		t.Errorf("q3 selectedOption = %v, want nil for unanswered", *answers[2].SelectedOption)
	}
	if !floatEquals(answers[2].MarksObtained, 0) {
		t.Errorf("q3 marksObtained = %v, unanswered must not be penalized", answers[2].MarksObtained)
	}

	if !floatEquals(attempt.Score, 1.5) {
		t.Errorf("score = %v, want 1.5", attempt.Score)
	}
}

func TestNormalizeSubmission(t *testing.T) {
	questions := makeQuestions(1, 1)

	t.Run("unknown question rejected", func(t *testing.T) {
		_, err := normalizeSubmission(questions, map[int64]string{77: "A"})
		if !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("err = %v, want ErrValidationFailed", err)
		}
	})

	t.Run("invalid letter rejected", func(t *testing.T) {
		_, err := normalizeSubmission(questions, map[int64]string{1: "E"})
		if !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("err = %v, want ErrValidationFailed", err)
		}
	})

	t.Run("blank treated as unanswered", func(t *testing.T) {
		normalized, err := normalizeSubmission(questions, map[int64]string{1: "  "})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(normalized) != 0 {
			t.Errorf("normalized = %v, want empty", normalized)
		}
	})

	t.Run("lowercase uppercased", func(t *testing.T) {
		normalized, err := normalizeSubmission(questions, map[int64]string{1: " b "})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if normalized[1] != "B" {
			t.Errorf("normalized[1] = %q, want B", normalized[1])
		}
	})
}

func TestResolveTimeTaken(t *testing.T) {
	exam := makeExam(false, 0, 1) // 60 minute duration
	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name     string
		reported *int
		want     int
	}{
		{"absent falls back to full duration", nil, 60},
		{"within limit kept", intPtr(25), 25},
		{"above limit clamped", intPtr(200), 60},
		{"negative clamped to zero", intPtr(-5), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveTimeTaken(exam, tc.reported); got != tc.want {
				t.Errorf("resolveTimeTaken = %d, want %d", got, tc.want)
			}
		})
	}
}

// --- submission flow ---

func TestSubmitAttempt(t *testing.T) {
	ctx := context.Background()

	t.Run("grades and persists the attempt", func(t *testing.T) {
		exam := makeExam(false, 0, 3)
		svc, store := newTestService(exam, makeQuestions(1, 1, 1, 1), true)

		attempt, err := svc.SubmitAttempt(ctx, testStudentID, testExamID, &dto.SubmitAttemptRequest{
			Answers: map[int64]string{1: "A", 2: "B", 3: "A", 4: "A"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempt.AttemptNo != 1 {
			t.Errorf("attemptNo = %d, want 1", attempt.AttemptNo)
		}
		if !floatEquals(attempt.Percentage, 50) {
			t.Errorf("percentage = %v, want 50", attempt.Percentage)
		}
		rows := store.answers[attempt.ID]
		if len(rows) != 4 {
			t.Errorf("persisted answer rows = %d, want 4", len(rows))
		}
	})

	t.Run("rejects students who are not enrolled", func(t *testing.T) {
		exam := makeExam(false, 0, 3)
		svc, store := newTestService(exam, makeQuestions(1), false)

		_, err := svc.SubmitAttempt(ctx, testStudentID, testExamID, &dto.SubmitAttemptRequest{Answers: map[int64]string{}})
		if !errors.Is(err, apperrors.ErrNotEnrolled) {
			t.Errorf("err = %v, want ErrNotEnrolled", err)
		}
		if len(store.attempts) != 0 {
			t.Error("rejected submission must not persist an attempt")
		}
	})

	t.Run("rejects exams without questions", func(t *testing.T) {
		exam := makeExam(false, 0, 3)
		svc, _ := newTestService(exam, nil, true)

		_, err := svc.SubmitAttempt(ctx, testStudentID, testExamID, &dto.SubmitAttemptRequest{Answers: map[int64]string{}})
		if !errors.Is(err, apperrors.ErrNoQuestionsForExam) {
			t.Errorf("err = %v, want ErrNoQuestionsForExam", err)
		}
	})

	t.Run("quota exhausted writes nothing", func(t *testing.T) {
		exam := makeExam(false, 0, 2)
		svc, store := newTestService(exam, makeQuestions(1), true)

		for i := 0; i < 2; i++ {
			if _, err := svc.SubmitAttempt(ctx, testStudentID, testExamID, &dto.SubmitAttemptRequest{Answers: map[int64]string{1: "A"}}); err != nil {
				t.Fatalf("attempt %d failed: %v", i+1, err)
			}
		}

		_, err := svc.SubmitAttempt(ctx, testStudentID, testExamID, &dto.SubmitAttemptRequest{Answers: map[int64]string{1: "A"}})
		if !errors.Is(err, apperrors.ErrAttemptsExhausted) {
			t.Errorf("err = %v, want ErrAttemptsExhausted", err)
		}
		if len(store.attempts) != 2 {
			t.Errorf("persisted attempts = %d, want 2", len(store.attempts))
		}
	})

	t.Run("concurrent submissions never exceed the quota", func(t *testing.T) {
		const workers = 8
		const maxAttempts = 3

		exam := makeExam(false, 0, maxAttempts)
		svc, store := newTestService(exam, makeQuestions(1), true)

		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.SubmitAttempt(ctx, testStudentID, testExamID, &dto.SubmitAttemptRequest{Answers: map[int64]string{1: "A"}})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		succeeded, exhausted := 0, 0
		for err := range errs {
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperrors.ErrAttemptsExhausted):
				exhausted++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}

		if succeeded != maxAttempts {
			t.Errorf("succeeded = %d, want %d", succeeded, maxAttempts)
		}
		if succeeded+exhausted != workers {
			t.Errorf("accounted submissions = %d, want %d", succeeded+exhausted, workers)
		}
		if len(store.attempts) != maxAttempts {
			t.Errorf("persisted attempts = %d, want %d", len(store.attempts), maxAttempts)
		}

		// Attempt numbers must be unique and contiguous
		seen := map[int]bool{}
		for _, a := range store.attempts {
			if seen[a.AttemptNo] {
				t.Errorf("duplicate attemptNo %d", a.AttemptNo)
			}
			seen[a.AttemptNo] = true
		}
		for n := 1; n <= maxAttempts; n++ {
			if !seen[n] {
				t.Errorf("missing attemptNo %d", n)
			}
		}
	})
}

// --- start flow ---

func TestStartAttempt(t *testing.T) {
	ctx := context.Background()

	t.Run("returns sanitized questions in order", func(t *testing.T) {
		exam := makeExam(false, 0, 3)
		svc, _ := newTestService(exam, makeQuestions(1, 1, 1), true)

		response, err := svc.StartAttempt(ctx, testStudentID, testExamID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(response.Questions) != 3 {
			t.Fatalf("questions = %d, want 3", len(response.Questions))
		}
		for i, q := range response.Questions {
			if q.QuestionOrder != i+1 {
				t.Errorf("question %d order = %d, want %d", i, q.QuestionOrder, i+1)
			}
		}
		if response.AttemptsUsed != 0 || response.AttemptsRemained != 3 {
			t.Errorf("attempts used/remaining = %d/%d, want 0/3", response.AttemptsUsed, response.AttemptsRemained)
		}
	})

	t.Run("rejects when attempts are exhausted", func(t *testing.T) {
		exam := makeExam(false, 0, 1)
		svc, _ := newTestService(exam, makeQuestions(1), true)

		if _, err := svc.SubmitAttempt(ctx, testStudentID, testExamID, &dto.SubmitAttemptRequest{Answers: map[int64]string{1: "A"}}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}

		_, err := svc.StartAttempt(ctx, testStudentID, testExamID)
		if !errors.Is(err, apperrors.ErrAttemptsExhausted) {
			t.Errorf("err = %v, want ErrAttemptsExhausted", err)
		}
	})

	t.Run("rejects exams without questions", func(t *testing.T) {
		exam := makeExam(false, 0, 1)
		svc, _ := newTestService(exam, nil, true)

		_, err := svc.StartAttempt(ctx, testStudentID, testExamID)
		if !errors.Is(err, apperrors.ErrNoQuestionsForExam) {
			t.Errorf("err = %v, want ErrNoQuestionsForExam", err)
		}
	})
}

// --- review flow ---

func TestGetAttemptDetailAccess(t *testing.T) {
	ctx := context.Background()
	exam := makeExam(false, 0, 3)
	svc, _ := newTestService(exam, makeQuestions(1), true)

	attempt, err := svc.SubmitAttempt(ctx, testStudentID, testExamID, &dto.SubmitAttemptRequest{Answers: map[int64]string{1: "A"}})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	t.Run("owning student can review", func(t *testing.T) {
		got, answers, err := svc.GetAttemptDetail(ctx, testStudentID, attempt.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != attempt.ID || len(answers) != 1 {
			t.Errorf("got attempt %d with %d answers, want %d with 1", got.ID, len(answers), attempt.ID)
		}
	})

	t.Run("exam instructor can review", func(t *testing.T) {
		if _, _, err := svc.GetAttemptDetail(ctx, exam.InstructorID, attempt.ID); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("other users are rejected", func(t *testing.T) {
		_, _, err := svc.GetAttemptDetail(ctx, 12345, attempt.ID)
		if !errors.Is(err, apperrors.ErrPermissionDenied) {
			t.Errorf("err = %v, want ErrPermissionDenied", err)
		}
	})
}
