package models

// ForumThread represents a discussion thread under a course
type ForumThread struct {
	Model
	CourseID uint        `json:"course_id" gorm:"index;not null"`
	UserID   uint        `json:"user_id" gorm:"not null"`
	Title    string      `json:"title" binding:"required,min=2" conform:"trim"`
	Body     string      `json:"body" conform:"trim"`
	Posts    []ForumPost `gorm:"foreignKey:ThreadID" json:"posts,omitempty"`
}

// ForumPost represents a reply on a thread
type ForumPost struct {
	Model
	ThreadID uint   `json:"thread_id" gorm:"index;not null"`
	UserID   uint   `json:"user_id" gorm:"not null"`
	Body     string `json:"body" binding:"required" conform:"trim"`
}

type CreateThreadRequest struct {
	Title string `json:"title" binding:"required,min=2" conform:"trim"`
	Body  string `json:"body" conform:"trim"`
}

type CreatePostRequest struct {
	Body string `json:"body" binding:"required" conform:"trim"`
}
