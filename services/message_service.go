package services

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"messagebox/config"
	"messagebox/db"
	apiError "messagebox/errors"
	"messagebox/models"
)

// MessageService interface
type MessageService interface {
	SendMessage(request *models.SendMessageRequest) (*models.SendMessageResponse, *apiError.Error)
	FetchNewMessages(userID uint) ([]models.NewMessage, *apiError.Error)
	DeleteMessage(messageID uint) *apiError.Error
	DeleteMessages(messageIDs []uint) *apiError.Error
	FetchSortedMessages(userID uint, start, stop time.Time) ([]models.SortedMessage, *apiError.Error)
}

// messageService struct
type messageService struct {
	Config      *config.Config
	userRepo    db.UserRepository
	messageRepo db.MessageRepository
}

// NewMessageService instantiate a messageService
func NewMessageService(messageRepo db.MessageRepository, userRepo db.UserRepository, conf *config.Config) MessageService {
	return &messageService{
		Config:      conf,
		userRepo:    userRepo,
		messageRepo: messageRepo,
	}
}

// SendMessage stores a message after resolving both parties. The author
// is checked before the recipient, so when both ids are bad the author
// error is the one reported.
func (s *messageService) SendMessage(request *models.SendMessageRequest) (*models.SendMessageResponse, *apiError.Error) {
	if limit := s.Config.MessageBodyLimit; len(request.Body) > limit {
		return nil, apiError.New(fmt.Sprintf("The message body exceeds %d characters", limit), http.StatusBadRequest)
	}

	authorExists, err := s.userRepo.UserExists(request.AuthorID)
	if err != nil {
		log.Printf("SendMessage error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if !authorExists {
		return nil, apiError.NotFound("The user doesn't exist")
	}

	recipientExists, err := s.userRepo.UserExists(request.RecipientID)
	if err != nil {
		log.Printf("SendMessage error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if !recipientExists {
		return nil, apiError.NotFound("The recipient doesn't exist")
	}

	msg := &models.Message{
		Body:        request.Body,
		AuthorID:    request.AuthorID,
		RecipientID: request.RecipientID,
		CreatedOn:   time.Now().UTC(),
	}
	if err := s.messageRepo.CreateMessage(msg); err != nil {
		log.Printf("SendMessage error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.SendMessageResponse{MessageID: msg.ID}, nil
}

// FetchNewMessages returns the user's unfetched messages and marks them
// fetched in the same transaction. A second call with nothing new in
// between returns an empty list.
func (s *messageService) FetchNewMessages(userID uint) ([]models.NewMessage, *apiError.Error) {
	exists, err := s.userRepo.UserExists(userID)
	if err != nil {
		log.Printf("FetchNewMessages error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if !exists {
		return nil, apiError.NotFound("The user doesn't exist")
	}

	messages, err := s.messageRepo.FetchAndMarkNew(userID)
	if err != nil {
		log.Printf("FetchNewMessages error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	result := make([]models.NewMessage, 0, len(messages))
	for _, msg := range messages {
		result = append(result, models.NewMessage{AuthorID: msg.AuthorID, Body: msg.Body})
	}
	return result, nil
}

func (s *messageService) DeleteMessage(messageID uint) *apiError.Error {
	deleted, err := s.messageRepo.DeleteMessage(messageID)
	if err != nil {
		log.Printf("DeleteMessage error: %v", err)
		return apiError.ErrInternalServerError
	}
	if !deleted {
		return apiError.NotFound("The message does not exist")
	}
	return nil
}

// DeleteMessages is best effort: ids that match nothing are ignored and
// the call only fails when no id matched at all.
func (s *messageService) DeleteMessages(messageIDs []uint) *apiError.Error {
	deleted, err := s.messageRepo.DeleteMessages(messageIDs)
	if err != nil {
		log.Printf("DeleteMessages error: %v", err)
		return apiError.ErrInternalServerError
	}
	if deleted == 0 {
		return apiError.NotFound("None of the messages exist")
	}
	return nil
}

// FetchSortedMessages lists the user's messages inside [start, stop]
// oldest first, fetched or not. Unknown users get an empty list rather
// than an error; that asymmetry with the other operations is intended.
func (s *messageService) FetchSortedMessages(userID uint, start, stop time.Time) ([]models.SortedMessage, *apiError.Error) {
	if stop.Before(start) {
		return nil, apiError.New("start_index must not be after stop_index", http.StatusBadRequest)
	}

	messages, err := s.messageRepo.ListByWindow(userID, start, stop)
	if err != nil {
		log.Printf("FetchSortedMessages error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	result := make([]models.SortedMessage, 0, len(messages))
	for _, msg := range messages {
		result = append(result, models.SortedMessage{
			AuthorID:  msg.AuthorID,
			Body:      msg.Body,
			CreatedOn: msg.CreatedOn,
		})
	}
	return result, nil
}
