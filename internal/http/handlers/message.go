package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/samsil2/Real-Time-Chat-App/internal/http/middleware"
	"github.com/samsil2/Real-Time-Chat-App/internal/media"
	"github.com/samsil2/Real-Time-Chat-App/internal/models"
	"github.com/samsil2/Real-Time-Chat-App/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MessageHandler struct {
	DB       *gorm.DB
	Hub      *ws.Hub
	Uploader media.Uploader
}

// ListUsers returns every user except the caller, for the chat sidebar.
// Credential fields never serialize (see models.User).
func (h *MessageHandler) ListUsers(c *gin.Context) {
	me := middleware.MustUser(c)

	var users []models.User
	if err := h.DB.Where("id <> ?", me.ID).Find(&users).Error; err != nil {
		slog.Error("list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// ListMessages returns the full history between the caller and the peer,
// in both directions, oldest first.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	me := middleware.MustUser(c)

	peerID64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return
	}
	peerID := uint(peerID64)

	var msgs []models.Message
	q := h.DB.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		me.ID, peerID, peerID, me.ID,
	).Order("id asc")

	if err := q.Find(&msgs).Error; err != nil {
		slog.Error("list messages", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, msgs)
}

type sendMessageReq struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// SendMessage persists a new message to the peer. A raw image payload is
// uploaded to the media host first; only the resulting URL is stored. The
// record is created only after the upload succeeds, so no rollback is needed.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	me := middleware.MustUser(c)

	peerID64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return
	}
	peerID := uint(peerID64)

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid body"})
		return
	}
	if req.Text == "" && req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message must include text or an image"})
		return
	}

	imageURL := ""
	if req.Image != "" {
		imageURL, err = h.Uploader.Upload(c.Request.Context(), req.Image)
		if err != nil {
			slog.Error("upload message image", "sender_id", me.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
	}

	msg := models.Message{
		SenderID:   me.ID,
		ReceiverID: peerID,
		Text:       req.Text,
		Image:      imageURL,
	}
	if err := h.DB.Create(&msg).Error; err != nil {
		slog.Error("create message", "sender_id", me.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	// Push to the receiver's live connection, if any. Best-effort.
	h.Hub.SendToUser(peerID, ws.Event{Type: ws.EventNewMessage, Data: msg})

	c.JSON(http.StatusCreated, msg)
}
