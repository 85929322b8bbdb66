package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apiError "github.com/mindboosthq/mindboost-api/errors"
	"github.com/mindboosthq/mindboost-api/models"
	"github.com/mindboosthq/mindboost-api/server/response"
)

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.JSON(c, "invalid "+name, http.StatusBadRequest, nil, apiError.ErrBadRequest)
		return 0, false
	}
	return uint(id), true
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func (s *Server) handleCreateCourse() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != models.RoleTutor && role != models.RoleAdmin {
			respondAndAbort(c, "", http.StatusForbidden, nil, apiError.New("tutor access required", http.StatusForbidden))
			return
		}
		userID, _ := currentUserID(c)

		var request models.CreateCourseRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, bindingError(err))
			return
		}

		course, err := s.CourseService.CreateCourse(userID, &request)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "course created", http.StatusCreated, course, nil)
	}
}

func (s *Server) handleGetCourse() gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID, ok := pathID(c, "courseID")
		if !ok {
			return
		}
		course, err := s.CourseService.GetCourse(courseID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, course, nil)
	}
}

func (s *Server) handleListCourses() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := pagination(c)
		courses, total, err := s.CourseService.ListCourses(page, pageSize)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{
			"courses": courses,
			"total":   total,
			"page":    page,
		}, nil)
	}
}

func (s *Server) handleCreateClass() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != models.RoleTutor && role != models.RoleAdmin {
			respondAndAbort(c, "", http.StatusForbidden, nil, apiError.New("tutor access required", http.StatusForbidden))
			return
		}
		courseID, ok := pathID(c, "courseID")
		if !ok {
			return
		}

		var request models.CreateClassRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, bindingError(err))
			return
		}

		class, err := s.CourseService.CreateClass(courseID, &request)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "class created", http.StatusCreated, class, nil)
	}
}

func (s *Server) handleEnroll() gin.HandlerFunc {
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

		enrollment, err := s.CourseService.EnrollUser(userID, courseID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "enrolled", http.StatusCreated, enrollment, nil)
	}
}

func (s *Server) handleGetEnrollments() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.ErrUnauthorized)
			return
		}
		enrollments, err := s.CourseService.GetEnrollmentsForUser(userID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, enrollments, nil)
	}
}

func (s *Server) handleUpdateProgress() gin.HandlerFunc {
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

		var request struct {
			Progress float64 `json:"progress"`
		}
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		if err := s.CourseService.UpdateProgress(userID, courseID, request.Progress); err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "progress updated", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleUploadCourseMaterial() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != models.RoleTutor && role != models.RoleAdmin {
			respondAndAbort(c, "", http.StatusForbidden, nil, apiError.New("tutor access required", http.StatusForbidden))
			return
		}
		courseID, ok := pathID(c, "courseID")
		if !ok {
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			response.JSON(c, "missing or invalid file", http.StatusBadRequest, nil, err)
			return
		}

		url, err := s.MediaService.UploadCourseMaterial(c.Request.Context(), fileHeader, courseID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "material uploaded", http.StatusCreated, gin.H{"url": url}, nil)
	}
}
