package services

import (
	"errors"
	"log"
	"net/http"

	"github.com/mindboosthq/mindboost-api/config"
	"github.com/mindboosthq/mindboost-api/db"
	apiError "github.com/mindboosthq/mindboost-api/errors"
	"github.com/mindboosthq/mindboost-api/models"
	"gorm.io/gorm"
)

type CourseService interface {
	CreateCourse(tutorID uint, request *models.CreateCourseRequest) (*models.Course, error)
	GetCourse(id uint) (*models.Course, error)
	ListCourses(page, pageSize int) ([]models.Course, int64, error)
	CreateClass(courseID uint, request *models.CreateClassRequest) (*models.Class, error)
	EnrollUser(userID, courseID uint) (*models.Enrollment, error)
	GetEnrollmentsForUser(userID uint) ([]models.Enrollment, error)
	UpdateProgress(userID, courseID uint, progress float64) error
}

type courseService struct {
	Config          *config.Config
	courseRepo      db.CourseRepository
	paymentRepo     db.PaymentRepository
	notificationSvc NotificationService
}

func NewCourseService(courseRepo db.CourseRepository, paymentRepo db.PaymentRepository, notificationSvc NotificationService, conf *config.Config) CourseService {
	return &courseService{
		Config:          conf,
		courseRepo:      courseRepo,
		paymentRepo:     paymentRepo,
		notificationSvc: notificationSvc,
	}
}

func (s *courseService) CreateCourse(tutorID uint, request *models.CreateCourseRequest) (*models.Course, error) {
	if err := models.CleanInput(request); err != nil {
		return nil, apiError.ErrBadRequest
	}

	course := &models.Course{
		Title:       request.Title,
		Description: request.Description,
		Subject:     request.Subject,
		Level:       request.Level,
		IsFree:      request.IsFree,
		Price:       request.Price,
		TutorID:     tutorID,
	}
	if err := s.courseRepo.CreateCourse(course); err != nil {
		log.Printf("CreateCourse error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return course, nil
}

func (s *courseService) GetCourse(id uint) (*models.Course, error) {
	course, err := s.courseRepo.GetCourseByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrNotFound
		}
		return nil, apiError.ErrInternalServerError
	}
	return course, nil
}

func (s *courseService) ListCourses(page, pageSize int) ([]models.Course, int64, error) {
	return s.courseRepo.GetAllCourses(page, pageSize)
}

func (s *courseService) CreateClass(courseID uint, request *models.CreateClassRequest) (*models.Class, error) {
	if err := models.CleanInput(request); err != nil {
		return nil, apiError.ErrBadRequest
	}
	if _, err := s.GetCourse(courseID); err != nil {
		return nil, err
	}
	if !request.EndsAt.After(request.StartsAt) {
		return nil, apiError.New("class must end after it starts", http.StatusBadRequest)
	}

	class := &models.Class{
		CourseID:   courseID,
		Title:      request.Title,
		MeetingURL: request.MeetingURL,
		StartsAt:   request.StartsAt,
		EndsAt:     request.EndsAt,
	}
	if err := s.courseRepo.CreateClass(class); err != nil {
		log.Printf("CreateClass error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return class, nil
}

// EnrollUser enrolls a user into a course. Paid courses require an
// active subscription.
func (s *courseService) EnrollUser(userID, courseID uint) (*models.Enrollment, error) {
	course, err := s.GetCourse(courseID)
	if err != nil {
		return nil, err
	}

	if _, err := s.courseRepo.GetEnrollment(userID, courseID); err == nil {
		return nil, apiError.New("already enrolled in this course", http.StatusConflict)
	}

	if !course.IsFree {
		if _, err := s.paymentRepo.GetActiveSubscription(userID); err != nil {
			return nil, apiError.New("an active subscription is required for this course", http.StatusPaymentRequired)
		}
	}

	enrollment := &models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
	}
	if err := s.courseRepo.CreateEnrollment(enrollment); err != nil {
		log.Printf("EnrollUser error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if s.notificationSvc != nil {
		if _, err := s.notificationSvc.Dispatch(userID, &models.NotificationParams{
			Type:    models.NotificationTypeCourse,
			Title:   "Enrolled",
			Message: "You are now enrolled in " + course.Title + ".",
		}); err != nil {
			log.Printf("EnrollUser error dispatching notification: %v", err)
		}
	}

	return enrollment, nil
}

func (s *courseService) GetEnrollmentsForUser(userID uint) ([]models.Enrollment, error) {
	return s.courseRepo.GetEnrollmentsForUser(userID)
}

func (s *courseService) UpdateProgress(userID, courseID uint, progress float64) error {
	if progress < 0 || progress > 100 {
		return apiError.New("progress must be between 0 and 100", http.StatusBadRequest)
	}
	enrollment, err := s.courseRepo.GetEnrollment(userID, courseID)
	if err != nil {
		return apiError.ErrNotFound
	}
	return s.courseRepo.UpdateEnrollmentProgress(enrollment.ID, progress)
}
