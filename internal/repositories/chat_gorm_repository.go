package repositories

import (
	"fmt"

	"pizzaria/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMChatRepository is a GORM implementation of ChatRepository.
type GORMChatRepository struct {
	db *gorm.DB
}

func NewGORMChatRepository(db *gorm.DB) *GORMChatRepository {
	return &GORMChatRepository{db: db}
}

func (r *GORMChatRepository) ListByOrder(orderID string) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	if err := r.db.Where("order_id = ?", orderID).Order("created_at").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("failed to get chat of order %s: %w", orderID, err)
	}
	return msgs, nil
}

func (r *GORMChatRepository) Create(msg *models.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if err := r.db.Create(msg).Error; err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

func (r *GORMChatRepository) MarkRead(orderID string, role models.SenderRole) (int64, error) {
	res := r.db.Model(&models.ChatMessage{}).
		Where("order_id = ? AND sender_role = ? AND is_read = ?", orderID, role, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark chat of order %s read: %w", orderID, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GORMChatRepository) Unread(role models.SenderRole) (map[string]int64, error) {
	var rows []struct {
		OrderID string
		Total   int64
	}
	err := r.db.Model(&models.ChatMessage{}).
		Select("order_id, COUNT(*) AS total").
		Where("sender_role = ? AND is_read = ?", role, false).
		Group("order_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.OrderID] = row.Total
	}
	return out, nil
}
