// Package storage backs the chat hub's two out-of-process concerns: the
// transcript archive in PostgreSQL and per-visitor flood control in Redis.
// Live conversation state never lives here; the hub only writes transcripts
// on removal and asks whether a visitor message is within its rate budget.
package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/config"
	"github.com/SimonMekail/Karate-Club-Dashboard-sub001/internal/models"
)

var ErrConversationNotFound = errors.New("archived conversation not found")

type Storage interface {
	ArchiveConversation(visitorID, displayName string, msgs []models.Message) error
	ListArchivedConversations(limit int) ([]models.ArchivedConversation, error)
	GetArchivedConversation(id uint) (*models.ArchivedConversation, error)
	PurgeArchive(olderThan time.Time) (int64, error)

	AllowVisitorMessage(visitorID string) (bool, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewService builds a storage service. Redis may be nil, in which case
// flood control is disabled and every message is allowed.
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// ArchiveConversation writes a removed conversation and its messages in one
// transaction.
func (s *Service) ArchiveConversation(visitorID, displayName string, msgs []models.Message) error {
	if s.DB == nil {
		return nil
	}

	record := models.ArchivedConversation{
		VisitorID:   visitorID,
		DisplayName: displayName,
		Messages:    make([]models.ArchivedMessage, 0, len(msgs)),
	}
	for _, m := range msgs {
		record.Messages = append(record.Messages, models.ArchivedMessage{
			Sender:  string(m.Sender),
			Content: m.Text,
			SentAt:  m.Timestamp,
		})
	}

	if err := s.DB.Create(&record).Error; err != nil {
		log.Printf("ERROR: failed to archive conversation for visitor %s: %v", visitorID, err)
		return err
	}
	return nil
}

// ListArchivedConversations returns archived conversations, newest first,
// without their messages.
func (s *Service) ListArchivedConversations(limit int) ([]models.ArchivedConversation, error) {
	if limit <= 0 {
		limit = config.DefaultArchiveListLimit
	}
	var out []models.ArchivedConversation
	err := s.DB.Order("created_at desc").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetArchivedConversation loads one archived conversation with its full
// transcript, oldest message first.
func (s *Service) GetArchivedConversation(id uint) (*models.ArchivedConversation, error) {
	var conv models.ArchivedConversation
	err := s.DB.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("sent_at asc")
	}).First(&conv, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// PurgeArchive deletes archived conversations older than the cutoff and
// returns how many were removed. Messages go with them via the FK cascade.
func (s *Service) PurgeArchive(olderThan time.Time) (int64, error) {
	result := s.DB.Unscoped().
		Where("created_at < ?", olderThan).
		Delete(&models.ArchivedConversation{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// AllowVisitorMessage enforces the per-visitor rate budget with a counter
// that expires after the flood window. Without Redis it always allows.
func (s *Service) AllowVisitorMessage(visitorID string) (bool, error) {
	if s.Redis == nil {
		return true, nil
	}

	key := "flood:" + visitorID
	count, err := s.Redis.Incr(s.Ctx, key).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		if err := s.Redis.Expire(s.Ctx, key, config.FloodWindow).Err(); err != nil {
			return true, err
		}
	}
	return count <= config.FloodMaxMessages, nil
}
