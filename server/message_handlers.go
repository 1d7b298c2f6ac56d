package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leebenson/conform"

	"messagebox/models"
	"messagebox/server/response"
)

// timestampLayouts are the accepted formats for the sorted_messages
// window bounds.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseUintParam(value string) (uint, bool) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (s *Server) handleSendMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, bindErrorDescription(err))
			return
		}

		if err := conform.Strings(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "The request body is malformed")
			return
		}
		if req.Body == "" {
			response.Error(c, http.StatusBadRequest, "The body field is required")
			return
		}

		result, err := s.MessageService.SendMessage(&req)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		response.JSON(c, http.StatusOK, result)
	}
}

func (s *Server) handleFetchNewMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseUintParam(c.Query("user_id"))
		if !ok {
			response.Error(c, http.StatusBadRequest, "The user_id parameter must be an integer")
			return
		}

		messages, err := s.MessageService.FetchNewMessages(userID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		response.JSON(c, http.StatusOK, messages)
	}
}

func (s *Server) handleDeleteMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		messageID, ok := parseUintParam(c.Param("message_id"))
		if !ok {
			response.Error(c, http.StatusBadRequest, "The message_id parameter must be an integer")
			return
		}

		if err := s.MessageService.DeleteMessage(messageID); err != nil {
			response.HandleErrors(c, err)
			return
		}

		response.JSON(c, http.StatusOK, gin.H{"status": "OK"})
	}
}

func (s *Server) handleDeleteMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DeleteMessagesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, bindErrorDescription(err))
			return
		}

		if err := s.MessageService.DeleteMessages(req.MessageIDs); err != nil {
			response.HandleErrors(c, err)
			return
		}

		response.JSON(c, http.StatusOK, gin.H{"status": "OK"})
	}
}

func (s *Server) handleFetchSortedMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseUintParam(c.Query("user_id"))
		if !ok {
			response.Error(c, http.StatusBadRequest, "The user_id parameter must be an integer")
			return
		}

		start, ok := parseTimestamp(c.Query("start_index"))
		if !ok {
			response.Error(c, http.StatusBadRequest, "The start_index parameter must be a timestamp")
			return
		}
		stop, ok := parseTimestamp(c.Query("stop_index"))
		if !ok {
			response.Error(c, http.StatusBadRequest, "The stop_index parameter must be a timestamp")
			return
		}

		messages, err := s.MessageService.FetchSortedMessages(userID, start, stop)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		response.JSON(c, http.StatusOK, messages)
	}
}
