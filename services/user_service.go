package services

import (
	"errors"
	"log"

	"messagebox/config"
	"messagebox/db"
	apiError "messagebox/errors"
	"messagebox/models"
)

// UserService interface
type UserService interface {
	RegisterUser(request *models.CreateUserRequest) (*models.CreateUserResponse, *apiError.Error)
}

// userService struct
type userService struct {
	Config   *config.Config
	userRepo db.UserRepository
}

// NewUserService instantiate a userService
func NewUserService(userRepo db.UserRepository, conf *config.Config) UserService {
	return &userService{
		Config:   conf,
		userRepo: userRepo,
	}
}

func (s *userService) RegisterUser(request *models.CreateUserRequest) (*models.CreateUserResponse, *apiError.Error) {
	user := &models.User{
		UserName:    request.UserName,
		PhoneNumber: request.PhoneNumber,
		Email:       request.Email,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, apiError.Conflict("A user with that name, phone number or email already exists")
		}
		log.Printf("RegisterUser error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.CreateUserResponse{ID: user.ID}, nil
}
