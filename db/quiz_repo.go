package db

import (
	"github.com/mindboosthq/mindboost-api/models"
	"gorm.io/gorm"
)

type QuizRepository interface {
	CreateQuiz(quiz *models.Quiz) error
	GetQuizByID(id uint) (*models.Quiz, error)
	GetQuizzesForCourse(courseID uint) ([]models.Quiz, error)
	CreateAttempt(attempt *models.QuizAttempt) error
	GetAttemptsForUser(userID uint, limit int) ([]models.QuizAttempt, error)
}

type quizRepo struct {
	DB *gorm.DB
}

func NewQuizRepo(db *GormDB) QuizRepository {
	return &quizRepo{db.DB}
}

func (r *quizRepo) CreateQuiz(quiz *models.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *quizRepo) GetQuizByID(id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.DB.Preload("Questions").First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepo) GetQuizzesForCourse(courseID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.DB.Where("course_id = ?", courseID).Order("created_at DESC").Find(&quizzes).Error
	if err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepo) CreateAttempt(attempt *models.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *quizRepo) GetAttemptsForUser(userID uint, limit int) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
