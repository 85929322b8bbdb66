package models

// Notification kinds. Producers must use one of these instead of
// ad hoc strings so that clients can switch on the type field.
const (
	NotificationTypeSecurity = "security"
	NotificationTypeForum    = "forum"
	NotificationTypeGrading  = "grading"
	NotificationTypePayment  = "payment"
	NotificationTypeCourse   = "course"
)

// Notification represents an in-app notification delivered to a user.
// The JSON shape here is shared by the REST list endpoint and the
// realtime push path, so clients treat both payloads interchangeably.
type Notification struct {
	Model
	UserID  uint   `json:"user_id" gorm:"index;not null"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	IsRead  bool   `json:"is_read"`
}

// NotificationParams is what producers hand to the dispatcher
type NotificationParams struct {
	Type    string `json:"type" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// NotificationListResponse is the envelope returned by the list endpoint
// and fetched by polling clients.
type NotificationListResponse struct {
	Success       bool           `json:"success"`
	Notifications []Notification `json:"notifications"`
}
