package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gigflow/gigflow_be/internal/models"
	"github.com/gigflow/gigflow_be/internal/realtime"
)

type NotificationHandler struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func NewNotificationHandler(db *gorm.DB, hub *realtime.Hub) *NotificationHandler {
	return &NotificationHandler{DB: db, Hub: hub}
}

// List returns the caller's notifications, newest-first.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	p, ok := currentPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var list []models.Notification
	if err := h.DB.
		Where("user_id = ?", p.ID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    list,
	})
}

// MarkRead flags one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	p, ok := currentPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid notification ID",
		})
	}

	result := h.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, p.ID).
		Update("is_read", true)

	if result.Error != nil {
		return fail(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Notification not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// WebSocketHandler registers the connection with the hub for push delivery.
func (h *NotificationHandler) WebSocketHandler(c *websocket.Conn) {
	userID := c.Query("user_id")
	if userID == "" {
		log.Println("WebSocket: user_id parameter missing")
		c.Close()
		return
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		log.Println("WebSocket: invalid user_id:", userID, "error:", err)
		c.Close()
		return
	}

	log.Printf("WebSocket: user %s connected\n", userID)

	client := &realtime.Client{
		ID:     uuid.New().String(),
		UserID: userUUID,
		Conn:   realtime.NewWebSocketConn(c),
		Send:   make(chan []byte, 256),
	}

	h.Hub.RegisterClient(client)
	defer func() {
		h.Hub.UnregisterClient(client)
		log.Printf("WebSocket: user %s disconnected\n", userID)
	}()

	// hub -> client
	go func() {
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Println("WebSocket write error:", err)
				return
			}
		}
	}()

	// client -> server, keeps the connection alive
	for {
		var payload map[string]interface{}
		if err := c.ReadJSON(&payload); err != nil {
			log.Printf("WebSocket read error for user %s: %v\n", userID, err)
			break
		}

		if msgType, ok := payload["type"].(string); ok && msgType == "pong" {
			continue
		}
	}
}
