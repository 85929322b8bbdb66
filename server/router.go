package server

import (
	"fmt"
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()

	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	// By default gin.DefaultWriter = os.Stdout
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 3,
	})
	limitRate := limitRateForPasswordReset(store)

	// Realtime push channel. Auth happens on the socket itself.
	router.GET("/ws/notifications", s.handleNotificationSocket())

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", s.handleLogin())
	apirouter.POST("/auth/google/login", s.handleGoogleLogin())
	apirouter.GET("/google/login", s.HandleGoogleRedirect())
	apirouter.GET("/auth/google/callback", s.HandleGoogleCallback())
	apirouter.POST("/password/forgot", limitRate, s.handleForgotPassword())
	apirouter.POST("/password/reset/:token", s.handleResetPassword())

	apirouter.GET("/courses", s.handleListCourses())
	apirouter.GET("/courses/:courseID", s.handleGetCourse())
	apirouter.GET("/plans", s.handleListPlans())
	apirouter.POST("/payments/webhook", s.handlePaymentWebhook())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/logout", s.handleLogout())
	authorized.GET("/me", s.handleShowProfile())
	authorized.PUT("/me", s.handleEditUserProfile())
	authorized.PUT("/me/image", s.handleUploadProfileImage())
	authorized.GET("/users/all", s.handleGetAllUsers())

	authorized.GET("/notifications/:userID", s.handleGetNotifications())
	authorized.PUT("/notifications/:notificationID/read", s.handleMarkNotificationRead())

	authorized.POST("/courses", s.handleCreateCourse())
	authorized.POST("/courses/:courseID/classes", s.handleCreateClass())
	authorized.POST("/courses/:courseID/enroll", s.handleEnroll())
	authorized.GET("/me/enrollments", s.handleGetEnrollments())
	authorized.PUT("/courses/:courseID/progress", s.handleUpdateProgress())
	authorized.POST("/courses/:courseID/materials", s.handleUploadCourseMaterial())

	authorized.POST("/courses/:courseID/threads", s.handleCreateThread())
	authorized.GET("/courses/:courseID/threads", s.handleListThreads())
	authorized.GET("/threads/:threadID", s.handleGetThread())
	authorized.POST("/threads/:threadID/posts", s.handleReplyToThread())

	authorized.POST("/payments/initialize", s.handleInitializePayment())
	authorized.GET("/me/subscription", s.handleGetSubscription())

	authorized.POST("/quizzes/generate", s.handleGenerateQuiz())
	authorized.GET("/quizzes/:quizID", s.handleGetQuiz())
	authorized.GET("/courses/:courseID/quizzes", s.handleListQuizzes())
	authorized.POST("/quizzes/:quizID/attempts", s.handleSubmitQuizAttempt())
	authorized.GET("/me/study-suggestions", s.handleStudySuggestions())
	authorized.GET("/me/learning-path", s.handleLearningPath())
}
