package notify

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gigflow/gigflow_be/internal/models"
	"github.com/gigflow/gigflow_be/internal/realtime"
)

type Service struct {
	DB     *gorm.DB
	Bridge *realtime.Bridge
}

func NewService(db *gorm.DB, bridge *realtime.Bridge) *Service {
	return &Service{DB: db, Bridge: bridge}
}

// Notify persists a notification and pushes it to the user's open
// connections. Best-effort: failures are logged and never fail the operation
// that triggered the notification.
func (s *Service) Notify(userID uuid.UUID, kind models.NotificationKind, payload map[string]interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling notification payload: %v", err)
		return
	}

	n := models.Notification{
		UserID:  userID,
		Kind:    kind,
		Payload: raw,
	}

	if err := s.DB.Create(&n).Error; err != nil {
		log.Printf("Error saving notification for user %s: %v", userID, err)
		return
	}

	if s.Bridge != nil {
		s.Bridge.Publish(userID, map[string]interface{}{
			"type": "notification",
			"data": map[string]interface{}{
				"id":         n.ID.String(),
				"kind":       string(n.Kind),
				"payload":    payload,
				"is_read":    n.IsRead,
				"created_at": n.CreatedAt,
			},
		})
	}
}
