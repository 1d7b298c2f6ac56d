package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leebenson/conform"

	"messagebox/models"
	"messagebox/server/response"
)

func (s *Server) handleCreateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, bindErrorDescription(err))
			return
		}

		if err := conform.Strings(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "The request body is malformed")
			return
		}
		if req.UserName == "" || req.PhoneNumber == "" || req.Email == "" {
			response.Error(c, http.StatusBadRequest, "All user fields must be non-empty")
			return
		}

		result, err := s.UserService.RegisterUser(&req)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		response.JSON(c, http.StatusOK, result)
	}
}
