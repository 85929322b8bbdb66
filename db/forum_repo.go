package db

import (
	"github.com/mindboosthq/mindboost-api/models"
	"gorm.io/gorm"
)

type ForumRepository interface {
	CreateThread(thread *models.ForumThread) error
	GetThreadByID(id uint) (*models.ForumThread, error)
	GetThreadsForCourse(courseID uint, page, pageSize int) ([]models.ForumThread, int64, error)
	CreatePost(post *models.ForumPost) error
	GetPostsForThread(threadID uint) ([]models.ForumPost, error)
}

type forumRepo struct {
	DB *gorm.DB
}

func NewForumRepo(db *GormDB) ForumRepository {
	return &forumRepo{db.DB}
}

func (r *forumRepo) CreateThread(thread *models.ForumThread) error {
	return r.DB.Create(thread).Error
}

func (r *forumRepo) GetThreadByID(id uint) (*models.ForumThread, error) {
	var thread models.ForumThread
	if err := r.DB.First(&thread, id).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *forumRepo) GetThreadsForCourse(courseID uint, page, pageSize int) ([]models.ForumThread, int64, error) {
	var threads []models.ForumThread
	var total int64

	if err := r.DB.Model(&models.ForumThread{}).Where("course_id = ?", courseID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.DB.Where("course_id = ?", courseID).Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&threads).Error
	if err != nil {
		return nil, 0, err
	}
	return threads, total, nil
}

func (r *forumRepo) CreatePost(post *models.ForumPost) error {
	return r.DB.Create(post).Error
}

func (r *forumRepo) GetPostsForThread(threadID uint) ([]models.ForumPost, error) {
	var posts []models.ForumPost
	err := r.DB.Where("thread_id = ?", threadID).Order("created_at ASC").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}
