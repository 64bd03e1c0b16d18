package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillforge/backend/internal/app/models"
	"github.com/skillforge/backend/internal/app/models/dto"
	"github.com/skillforge/backend/internal/app/services"
	"github.com/skillforge/backend/internal/middleware"
)

// ExamController handles exam and question management operations
type ExamController struct {
	examService services.ExamService
}

// NewExamController creates a new ExamController
func NewExamController(examService services.ExamService) *ExamController {
	return &ExamController{
		examService: examService,
	}
}

func toExamDTO(exam *models.Exam) dto.ExamResponse {
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

func toQuestionDTO(q *models.Question) dto.QuestionResponse {
	return dto.QuestionResponse{
		ID:            q.ID,
		ExamID:        q.ExamID,
		QuestionText:  q.QuestionText,
		OptionA:       q.OptionA,
		OptionB:       q.OptionB,
		OptionC:       q.OptionC,
		OptionD:       q.OptionD,
		CorrectOption: q.CorrectOption,
		Marks:         q.Marks,
		QuestionOrder: q.QuestionOrder,
	}
}

// CreateExam handles exam creation
// @Summary Create a new exam
// @Description Creates an exam under a course owned by the authenticated instructor
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateExamRequest true "Exam information"
// @Success 201 {object} dto.APIResponse{data=dto.ExamResponse} "Exam created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Course belongs to another instructor"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid exam data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	exam := &models.Exam{
		CourseID:          req.CourseID,
		Title:             req.Title,
		Description:       req.Description,
		DurationMinutes:   req.DurationMinutes,
		MaxAttempts:       req.MaxAttempts,
		NegativeMarking:   req.NegativeMarking,
		NegativeMarkValue: req.NegativeMarkValue,
	}
	id, err := c.examService.CreateExam(ctx, userID, exam)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	exam.ID = id

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: toExamDTO(exam)})
}

// GetExamByID retrieves exam metadata
// @Summary Get exam details
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse{data=dto.ExamResponse} "Exam retrieved"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/{id} [get]
func (c *ExamController) GetExamByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	exam, err := c.examService.GetExamByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: toExamDTO(exam)})
}

// GetExamsByCourse lists the exams of a course
// @Summary List course exams
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ExamResponse} "Exams retrieved"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/exams [get]
func (c *ExamController) GetExamsByCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	exams, err := c.examService.GetExamsByCourse(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.ExamResponse, 0, len(exams))
	for _, exam := range exams {
		responses = append(responses, toExamDTO(exam))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: responses})
}

// UpdateExam updates exam settings
// @Summary Update an exam
// @Description Updates exam metadata and grading settings. Past attempts are never rescored.
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Param request body dto.CreateExamRequest true "Exam information"
// @Success 200 {object} dto.APIResponse{data=dto.ExamResponse} "Exam updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Exam belongs to another instructor"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/{id} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid exam data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	exam := &models.Exam{
		ID:                id,
		CourseID:          req.CourseID,
		Title:             req.Title,
		Description:       req.Description,
		DurationMinutes:   req.DurationMinutes,
		MaxAttempts:       req.MaxAttempts,
		NegativeMarking:   req.NegativeMarking,
		NegativeMarkValue: req.NegativeMarkValue,
	}
	if err := c.examService.UpdateExam(ctx, userID, exam); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: toExamDTO(exam)})
}

// DeleteExam removes an exam
// @Summary Delete an exam
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Exam deleted"
// @Failure 403 {object} dto.ErrorResponse "Exam belongs to another instructor"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/{id} [delete]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.examService.DeleteExam(ctx, userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Exam deleted"}})
}

// AddQuestion adds a question to an exam
// @Summary Add a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Param request body dto.CreateQuestionRequest true "Question information"
// @Success 201 {object} dto.APIResponse{data=dto.QuestionResponse} "Question created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Exam belongs to another instructor"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/{id}/questions [post]
func (c *ExamController) AddQuestion(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid question data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	question := &models.Question{
		ExamID:        examID,
		QuestionText:  req.QuestionText,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: req.CorrectOption,
		Marks:         req.Marks,
		QuestionOrder: req.QuestionOrder,
	}
	id, err := c.examService.AddQuestion(ctx, userID, question)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	question.ID = id

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: toQuestionDTO(question)})
}

// GetExamQuestions lists an exam's questions with the answer key
// @Summary List exam questions
// @Description Returns the full question set, answer key included. Owner instructor only.
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.QuestionResponse} "Questions retrieved"
// @Failure 403 {object} dto.ErrorResponse "Exam belongs to another instructor"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/{id}/questions [get]
func (c *ExamController) GetExamQuestions(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	questions, err := c.examService.GetExamQuestions(ctx, userID, examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, toQuestionDTO(q))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: responses})
}

// UpdateQuestion updates a question
// @Summary Update a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param request body dto.CreateQuestionRequest true "Question information"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionResponse} "Question updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Exam belongs to another instructor"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions/{id} [put]
func (c *ExamController) UpdateQuestion(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid question data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	question := &models.Question{
		ID:            id,
		QuestionText:  req.QuestionText,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: req.CorrectOption,
		Marks:         req.Marks,
		QuestionOrder: req.QuestionOrder,
	}
	if err := c.examService.UpdateQuestion(ctx, userID, question); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: toQuestionDTO(question)})
}

// DeleteQuestion removes a question
// @Summary Delete a question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Question deleted"
// @Failure 403 {object} dto.ErrorResponse "Exam belongs to another instructor"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions/{id} [delete]
func (c *ExamController) DeleteQuestion(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.examService.DeleteQuestion(ctx, userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Question deleted"}})
}

// GetExamStats aggregates attempt statistics for an exam
// @Summary Get exam statistics
// @Description Attempt counts, averages and pass rate. Owner instructor only.
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.APIResponse{data=dto.ExamStatsResponse} "Statistics retrieved"
// @Failure 403 {object} dto.ErrorResponse "Exam belongs to another instructor"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/{id}/stats [get]
func (c *ExamController) GetExamStats(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	examID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	stats, err := c.examService.GetExamStats(ctx, userID, examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := dto.ExamStatsResponse{
		ExamID:            examID,
		TotalAttempts:     stats.TotalAttempts,
		DistinctStudents:  stats.DistinctStudents,
		AverageScore:      stats.AverageScore,
		AveragePercentage: stats.AveragePercentage,
		PassRate:          stats.PassRate,
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: response})
}
