package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apiError "github.com/mindboosthq/mindboost-api/errors"
	"github.com/mindboosthq/mindboost-api/models"
	"github.com/mindboosthq/mindboost-api/server/response"
)

func (s *Server) handleCreateThread() gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID, ok := pathID(c, "courseID")
		if !ok {
			return
		}
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.ErrUnauthorized)
			return
		}

		var request models.CreateThreadRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, bindingError(err))
			return
		}

		thread, err := s.ForumService.CreateThread(userID, courseID, &request)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "thread created", http.StatusCreated, thread, nil)
	}
}

func (s *Server) handleListThreads() gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID, ok := pathID(c, "courseID")
		if !ok {
			return
		}
		page, pageSize := pagination(c)

		threads, total, err := s.ForumService.ListThreads(courseID, page, pageSize)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{
			"threads": threads,
			"total":   total,
			"page":    page,
		}, nil)
	}
}

func (s *Server) handleGetThread() gin.HandlerFunc {
	return func(c *gin.Context) {
		threadID, ok := pathID(c, "threadID")
		if !ok {
			return
		}
		thread, err := s.ForumService.GetThread(threadID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		posts, err := s.ForumService.GetPosts(threadID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{
			"thread": thread,
			"posts":  posts,
		}, nil)
	}
}

func (s *Server) handleReplyToThread() gin.HandlerFunc {
	return func(c *gin.Context) {
		threadID, ok := pathID(c, "threadID")
		if !ok {
			return
		}
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.ErrUnauthorized)
			return
		}

		var request models.CreatePostRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, bindingError(err))
			return
		}

		post, err := s.ForumService.ReplyToThread(userID, threadID, &request)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "reply posted", http.StatusCreated, post, nil)
	}
}
