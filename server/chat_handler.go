package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/chatterbox/errors"
	"github.com/techagentng/chatterbox/models"
	"github.com/techagentng/chatterbox/server/response"
)

// handleGetRoomMessages serves one page of a room's history. An invalid or
// missing page parameter falls back to page 1; a storage failure is reported
// as an error, never as an empty page.
func (s *Server) handleGetRoomMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("roomID")
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}

		messages, err := s.MessageService.GetRoomMessages(c.Request.Context(), roomID, page)
		if err != nil {
			response.JSON(c, "failed to fetch room messages", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "", http.StatusOK, messages, nil)
	}
}

func (s *Server) handleSendMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SendMessageRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, err)
			return
		}

		senderID := c.GetString("userID")
		if senderID == "" {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.ErrUnauthorized)
			return
		}

		roomID := c.Param("roomID")
		msg, err := s.MessageService.SendMessage(c.Request.Context(), roomID, senderID, req.Body)
		if err != nil {
			status := http.StatusInternalServerError
			if apiErr, ok := err.(*errors.Error); ok {
				status = apiErr.Status
			}
			response.JSON(c, "failed to send message", status, nil, err)
			return
		}

		if s.Hub != nil {
			s.Hub.Broadcast(roomID, *msg)
		}
		response.JSON(c, "message sent", http.StatusCreated, msg, nil)
	}
}
