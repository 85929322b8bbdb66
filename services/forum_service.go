package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/mindboosthq/mindboost-api/config"
	"github.com/mindboosthq/mindboost-api/db"
	apiError "github.com/mindboosthq/mindboost-api/errors"
	"github.com/mindboosthq/mindboost-api/models"
	"gorm.io/gorm"
)

type ForumService interface {
	CreateThread(userID, courseID uint, request *models.CreateThreadRequest) (*models.ForumThread, error)
	GetThread(threadID uint) (*models.ForumThread, error)
	ListThreads(courseID uint, page, pageSize int) ([]models.ForumThread, int64, error)
	ReplyToThread(userID, threadID uint, request *models.CreatePostRequest) (*models.ForumPost, error)
	GetPosts(threadID uint) ([]models.ForumPost, error)
}

type forumService struct {
	Config          *config.Config
	forumRepo       db.ForumRepository
	notificationSvc NotificationService
}

func NewForumService(forumRepo db.ForumRepository, notificationSvc NotificationService, conf *config.Config) ForumService {
	return &forumService{
		Config:          conf,
		forumRepo:       forumRepo,
		notificationSvc: notificationSvc,
	}
}

func (s *forumService) CreateThread(userID, courseID uint, request *models.CreateThreadRequest) (*models.ForumThread, error) {
	if err := models.CleanInput(request); err != nil {
		return nil, apiError.ErrBadRequest
	}

	thread := &models.ForumThread{
		CourseID: courseID,
		UserID:   userID,
		Title:    request.Title,
		Body:     request.Body,
	}
	if err := s.forumRepo.CreateThread(thread); err != nil {
		log.Printf("CreateThread error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return thread, nil
}

func (s *forumService) GetThread(threadID uint) (*models.ForumThread, error) {
	thread, err := s.forumRepo.GetThreadByID(threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrNotFound
		}
		return nil, apiError.ErrInternalServerError
	}
	return thread, nil
}

func (s *forumService) ListThreads(courseID uint, page, pageSize int) ([]models.ForumThread, int64, error) {
	return s.forumRepo.GetThreadsForCourse(courseID, page, pageSize)
}

// ReplyToThread creates the reply and notifies the thread author
func (s *forumService) ReplyToThread(userID, threadID uint, request *models.CreatePostRequest) (*models.ForumPost, error) {
	if err := models.CleanInput(request); err != nil {
		return nil, apiError.ErrBadRequest
	}

	thread, err := s.GetThread(threadID)
	if err != nil {
		return nil, err
	}

	post := &models.ForumPost{
		ThreadID: threadID,
		UserID:   userID,
		Body:     request.Body,
	}
	if err := s.forumRepo.CreatePost(post); err != nil {
		log.Printf("ReplyToThread error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	// Don't notify users about their own replies
	if thread.UserID != userID && s.notificationSvc != nil {
		if _, err := s.notificationSvc.Dispatch(thread.UserID, &models.NotificationParams{
			Type:    models.NotificationTypeForum,
			Title:   "New reply",
			Message: fmt.Sprintf("Someone replied to your thread %q.", thread.Title),
		}); err != nil {
			log.Printf("ReplyToThread error dispatching notification: %v", err)
		}
	}

	return post, nil
}

func (s *forumService) GetPosts(threadID uint) ([]models.ForumPost, error) {
	return s.forumRepo.GetPostsForThread(threadID)
}
