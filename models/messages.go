package models

import "time"

// Message is a short text sent from one user to another. IsFetched flips
// to true the first time the recipient polls for new messages and never
// flips back; deletion is the only other mutation.
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Body        string    `gorm:"size:80;not null" json:"body"`
	AuthorID    uint      `gorm:"not null" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID" json:"-"`
	RecipientID uint      `gorm:"not null;index" json:"recipient_id"`
	Recipient   User      `gorm:"foreignKey:RecipientID" json:"-"`
	CreatedOn   time.Time `json:"created_on"`
	IsFetched   bool      `gorm:"default:false" json:"is_fetched"`
}

// SendMessageRequest is the payload for POST /message.
type SendMessageRequest struct {
	Body        string `json:"body" binding:"required" conform:"trim"`
	AuthorID    uint   `json:"author_id" binding:"required"`
	RecipientID uint   `json:"recipient_id" binding:"required"`
}

// SendMessageResponse carries the id assigned to a new message.
type SendMessageResponse struct {
	MessageID uint `json:"message_id"`
}

// DeleteMessagesRequest is the payload for POST /delete_messages.
type DeleteMessagesRequest struct {
	MessageIDs []uint `json:"message_ids" binding:"required"`
}

// NewMessage is one element of the GET /new_messages response.
type NewMessage struct {
	AuthorID uint   `json:"author_id"`
	Body     string `json:"body"`
}

// SortedMessage is one element of the GET /sorted_messages response.
type SortedMessage struct {
	AuthorID  uint      `json:"author_id"`
	Body      string    `json:"body"`
	CreatedOn time.Time `json:"created_on"`
}
