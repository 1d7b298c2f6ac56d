package models

// User is a registered account that can send and receive messages.
// Users are never updated or deleted once created.
type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserName    string `gorm:"size:80;uniqueIndex;not null" json:"user_name"`
	PhoneNumber string `gorm:"size:80;uniqueIndex;not null" json:"phone_number"`
	Email       string `gorm:"size:80;uniqueIndex;not null" json:"email"`
}

// CreateUserRequest is the payload for POST /user.
type CreateUserRequest struct {
	UserName    string `json:"user_name" binding:"required" conform:"trim"`
	PhoneNumber string `json:"phone_number" binding:"required" conform:"trim"`
	Email       string `json:"email" binding:"required" conform:"trim"`
}

// CreateUserResponse carries the id assigned to a new user.
type CreateUserResponse struct {
	ID uint `json:"id"`
}
