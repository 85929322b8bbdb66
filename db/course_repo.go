package db

import (
	"github.com/mindboosthq/mindboost-api/models"
	"gorm.io/gorm"
)

type CourseRepository interface {
	CreateCourse(course *models.Course) error
	GetCourseByID(id uint) (*models.Course, error)
	GetAllCourses(page, pageSize int) ([]models.Course, int64, error)
	UpdateCourse(course *models.Course) error
	DeleteCourse(id uint) error
	CreateClass(class *models.Class) error
	GetClassesForCourse(courseID uint) ([]models.Class, error)
	CreateEnrollment(enrollment *models.Enrollment) error
	GetEnrollment(userID, courseID uint) (*models.Enrollment, error)
	GetEnrollmentsForUser(userID uint) ([]models.Enrollment, error)
	UpdateEnrollmentProgress(enrollmentID uint, progress float64) error
}

type courseRepo struct {
	DB *gorm.DB
}

func NewCourseRepo(db *GormDB) CourseRepository {
	return &courseRepo{db.DB}
}

func (r *courseRepo) CreateCourse(course *models.Course) error {
	return r.DB.Create(course).Error
}

func (r *courseRepo) GetCourseByID(id uint) (*models.Course, error) {
	var course models.Course
	if err := r.DB.Preload("Classes").First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetAllCourses(page, pageSize int) ([]models.Course, int64, error) {
	var courses []models.Course
	var total int64

	if err := r.DB.Model(&models.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.DB.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *courseRepo) UpdateCourse(course *models.Course) error {
	return r.DB.Save(course).Error
}

func (r *courseRepo) DeleteCourse(id uint) error {
	return r.DB.Delete(&models.Course{}, id).Error
}

func (r *courseRepo) CreateClass(class *models.Class) error {
	return r.DB.Create(class).Error
}

func (r *courseRepo) GetClassesForCourse(courseID uint) ([]models.Class, error) {
	var classes []models.Class
	err := r.DB.Where("course_id = ?", courseID).Order("starts_at ASC").Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *courseRepo) CreateEnrollment(enrollment *models.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *courseRepo) GetEnrollment(userID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *courseRepo) GetEnrollmentsForUser(userID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.DB.Preload("Course").Where("user_id = ?", userID).Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *courseRepo) UpdateEnrollmentProgress(enrollmentID uint, progress float64) error {
	return r.DB.Model(&models.Enrollment{}).Where("id = ?", enrollmentID).Update("progress", progress).Error
}
