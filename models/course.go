package models

import "time"

// Course represents an exam preparation course
type Course struct {
	Model
	Title       string  `json:"title" binding:"required,min=2" conform:"trim"`
	Description string  `json:"description" conform:"trim"`
	Subject     string  `json:"subject" conform:"trim"`
	Level       string  `json:"level"`
	IsFree      bool    `json:"is_free"`
	Price       float64 `json:"price"`
	TutorID     uint    `json:"tutor_id"`
	ImageURL    string  `json:"image_url,omitempty"`
	Classes     []Class `gorm:"foreignKey:CourseID" json:"classes,omitempty"`
}

// Class represents a scheduled live class session under a course
type Class struct {
	Model
	CourseID   uint      `json:"course_id" gorm:"index;not null"`
	Title      string    `json:"title" binding:"required" conform:"trim"`
	MeetingURL string    `json:"meeting_url"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
}

// Enrollment links a user to a course they are taking
type Enrollment struct {
	Model
	UserID   uint    `json:"user_id" gorm:"index;not null;uniqueIndex:idx_user_course"`
	CourseID uint    `json:"course_id" gorm:"not null;uniqueIndex:idx_user_course"`
	Course   Course  `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Progress float64 `json:"progress"`
}

type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required,min=2" conform:"trim"`
	Description string  `json:"description" conform:"trim"`
	Subject     string  `json:"subject" conform:"trim"`
	Level       string  `json:"level"`
	IsFree      bool    `json:"is_free"`
	Price       float64 `json:"price"`
}

type CreateClassRequest struct {
	Title      string    `json:"title" binding:"required" conform:"trim"`
	MeetingURL string    `json:"meeting_url"`
	StartsAt   time.Time `json:"starts_at" binding:"required"`
	EndsAt     time.Time `json:"ends_at" binding:"required"`
}
