package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillforge/backend/internal/app/models"
	"github.com/skillforge/backend/internal/app/models/dto"
	"github.com/skillforge/backend/internal/app/services"
	"github.com/skillforge/backend/internal/middleware"
)

// AttemptController handles exam taking and attempt review operations
type AttemptController struct {
	attemptService services.AttemptService
}

// NewAttemptController creates a new AttemptController
func NewAttemptController(attemptService services.AttemptService) *AttemptController {
	return &AttemptController{
		attemptService: attemptService,
	}
}

func toAttemptResult(attempt *models.ExamAttempt) dto.AttemptResultResponse {
	return dto.AttemptResultResponse{
		ID:               attempt.ID,
		ExamID:           attempt.ExamID,
		StudentID:        attempt.StudentID,
		AttemptNo:        attempt.AttemptNo,
		Score:            attempt.Score,
		Percentage:       attempt.Percentage,
		TotalQuestions:   attempt.TotalQuestions,
		CorrectAnswers:   attempt.CorrectAnswers,
		WrongAnswers:     attempt.WrongAnswers,
		TimeTakenMinutes: attempt.TimeTakenMinutes,
		AttemptedAt:      attempt.AttemptedAt,
	}
}

// StartExam delivers the exam paper to a student
// @Summary Start an exam
// @Description Returns the exam and its questions with the answer key stripped
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse{data=dto.StartExamResponse} "Exam delivered"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled or attempts exhausted"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 422 {object} dto.ErrorResponse "Exam has no questions"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/{id}/start [get]
func (c *AttemptController) StartExam(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.attemptService.StartAttempt(ctx, userID, examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: response})
}

// SubmitExam grades a submission
// @Summary Submit exam answers
// @Description Grades the submission and persists the attempt atomically. Unanswered questions count as wrong but are never penalized.
// @Tags attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Param request body dto.SubmitAttemptRequest true "Answer sheet"
// @Success 201 {object} dto.APIResponse{data=dto.AttemptResultResponse} "Attempt graded"
// @Failure 400 {object} dto.ErrorResponse "Invalid submission"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled or attempts exhausted"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent submission detected"
// @Failure 422 {object} dto.ErrorResponse "Exam has no questions"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/{id}/submit [post]
func (c *AttemptController) SubmitExam(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid submission data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	attempt, err := c.attemptService.SubmitAttempt(ctx, userID, examID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: toAttemptResult(attempt)})
}

// GetAttemptDetail returns an attempt with its per-question breakdown
// @Summary Get attempt detail
// @Description Full review of one attempt. Visible to the owning student and the exam's instructor.
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attempt ID"
// @Success 200 {object} dto.APIResponse{data=dto.AttemptDetailResponse} "Attempt retrieved"
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another student"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts/{id} [get]
func (c *AttemptController) GetAttemptDetail(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	attemptID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	attempt, answers, err := c.attemptService.GetAttemptDetail(ctx, userID, attemptID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	breakdown := make([]dto.AnswerBreakdownResponse, 0, len(answers))
	for _, answer := range answers {
		row := dto.AnswerBreakdownResponse{
			QuestionID:     answer.QuestionID,
			SelectedOption: answer.SelectedOption,
			IsCorrect:      answer.IsCorrect,
			MarksObtained:  answer.MarksObtained,
		}
		if q := answer.Question; q != nil {
			row.QuestionText = q.QuestionText
			row.Options = map[string]string{
				models.OptionA: q.OptionA,
				models.OptionB: q.OptionB,
				models.OptionC: q.OptionC,
				models.OptionD: q.OptionD,
			}
			row.CorrectOption = q.CorrectOption
			row.Marks = q.Marks
		}
		breakdown = append(breakdown, row)
	}

	response := dto.AttemptDetailResponse{
		Attempt: toAttemptResult(attempt),
		Answers: breakdown,
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: response})
}

// GetMyAttempts lists the authenticated student's attempts for an exam
// @Summary List my attempts
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse{data=dto.AttemptListResponse} "Attempts retrieved"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/{id}/attempts/mine [get]
func (c *AttemptController) GetMyAttempts(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	attempts, err := c.attemptService.GetStudentAttempts(ctx, userID, examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: toAttemptList(attempts)})
}

// GetExamAttempts lists all attempts of an exam for its instructor
// @Summary List exam attempts
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse{data=dto.AttemptListResponse} "Attempts retrieved"
// @Failure 403 {object} dto.ErrorResponse "Exam belongs to another instructor"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/{id}/attempts [get]
func (c *AttemptController) GetExamAttempts(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	attempts, err := c.attemptService.GetExamAttempts(ctx, userID, examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: toAttemptList(attempts)})
}

func toAttemptList(attempts []*models.ExamAttempt) dto.AttemptListResponse {
	results := make([]dto.AttemptResultResponse, 0, len(attempts))
	for _, attempt := range attempts {
		results = append(results, toAttemptResult(attempt))
	}
	return dto.AttemptListResponse{Attempts: results}
}
