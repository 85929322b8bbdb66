package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apiError "github.com/mindboosthq/mindboost-api/errors"
	"github.com/mindboosthq/mindboost-api/models"
	"github.com/mindboosthq/mindboost-api/server/response"
)

func (s *Server) handleGenerateQuiz() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.GenerateQuizRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, bindingError(err))
			return
		}

		quiz, err := s.AIService.GenerateQuiz(&request)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "quiz generated", http.StatusCreated, quiz, nil)
	}
}

func (s *Server) handleGetQuiz() gin.HandlerFunc {
	return func(c *gin.Context) {
		quizID, ok := pathID(c, "quizID")
		if !ok {
			return
		}
		quiz, err := s.AIService.GetQuiz(quizID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, quiz, nil)
	}
}

func (s *Server) handleListQuizzes() gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID, ok := pathID(c, "courseID")
		if !ok {
			return
		}
		quizzes, err := s.AIService.GetQuizzesForCourse(courseID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, quizzes, nil)
	}
}

func (s *Server) handleSubmitQuizAttempt() gin.HandlerFunc {
	return func(c *gin.Context) {
		quizID, ok := pathID(c, "quizID")
		if !ok {
			return
		}
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.ErrUnauthorized)
			return
		}

		var request models.SubmitQuizRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, bindingError(err))
			return
		}

		attempt, err := s.AIService.SubmitQuizAttempt(userID, quizID, &request)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "attempt graded", http.StatusCreated, attempt, nil)
	}
}

func (s *Server) handleStudySuggestions() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.ErrUnauthorized)
			return
		}

		suggestions, err := s.AIService.GetStudySuggestions(userID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, suggestions, nil)
	}
}

func (s *Server) handleLearningPath() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.ErrUnauthorized)
			return
		}

		steps, err := s.AIService.GetLearningPath(userID, c.Query("subject"))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, steps, nil)
	}
}
