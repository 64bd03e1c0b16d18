package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/skillforge/backend/internal/app/controllers"
	"github.com/skillforge/backend/internal/app/models"
	"github.com/skillforge/backend/internal/app/models/dto"
	"github.com/skillforge/backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	examController *controllers.ExamController,
	attemptController *controllers.AttemptController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)

		// Course routes
		courses := authenticated.Group("/courses")
		{
			courses.GET("", courseController.GetAllCourses)
			courses.GET("/:id", courseController.GetCourseByID)
			courses.GET("/:id/exams", examController.GetExamsByCourse)

			// Instructor-only course management
			coursesInstructor := courses.Group("")
			coursesInstructor.Use(authMiddleware.RoleRequired(string(models.RoleInstructor), string(models.RoleAdmin)))
			{
				coursesInstructor.POST("", courseController.CreateCourse)
				coursesInstructor.GET("/mine", courseController.GetMyCourses)
				coursesInstructor.PUT("/:id", courseController.UpdateCourse)
				coursesInstructor.DELETE("/:id", courseController.DeleteCourse)
			}

			// Student-only enrollment management
			coursesStudent := courses.Group("")
			coursesStudent.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
			{
				coursesStudent.POST("/:id/enroll", courseController.Enroll)
				coursesStudent.DELETE("/:id/enroll", courseController.Unenroll)
			}
		}

		authenticated.GET("/enrollments", courseController.GetMyEnrollments)

		// Exam routes
		exams := authenticated.Group("/exams")
		{
			exams.GET("/:id", examController.GetExamByID)

			// Instructor-only exam management
			examsInstructor := exams.Group("")
			examsInstructor.Use(authMiddleware.RoleRequired(string(models.RoleInstructor), string(models.RoleAdmin)))
			{
				examsInstructor.POST("", examController.CreateExam)
				examsInstructor.PUT("/:id", examController.UpdateExam)
				examsInstructor.DELETE("/:id", examController.DeleteExam)
				examsInstructor.POST("/:id/questions", examController.AddQuestion)
				examsInstructor.GET("/:id/questions", examController.GetExamQuestions)
				examsInstructor.GET("/:id/stats", examController.GetExamStats)
				examsInstructor.GET("/:id/attempts", attemptController.GetExamAttempts)
			}

			// Student-only exam taking
			examsStudent := exams.Group("")
			examsStudent.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
			{
				examsStudent.GET("/:id/start", attemptController.StartExam)
				examsStudent.POST("/:id/submit", attemptController.SubmitExam)
				examsStudent.GET("/:id/attempts/mine", attemptController.GetMyAttempts)
			}
		}

		// Question management (instructor only)
		questions := authenticated.Group("/questions")
		questions.Use(authMiddleware.RoleRequired(string(models.RoleInstructor), string(models.RoleAdmin)))
		{
			questions.PUT("/:id", examController.UpdateQuestion)
			questions.DELETE("/:id", examController.DeleteQuestion)
		}

		// Attempt review (owning student or exam instructor, checked in the service)
		authenticated.GET("/attempts/:id", attemptController.GetAttemptDetail)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
