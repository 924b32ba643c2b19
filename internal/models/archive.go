package models

import (
	"time"

	"gorm.io/gorm"
)

// ArchivedConversation is the Postgres record written when the admin removes
// a visitor from the panel. Live chat state stays in memory; the archive is
// write-only for the router and exists for the operator CLI.
type ArchivedConversation struct {
	gorm.Model

	VisitorID   string `gorm:"type:text;not null;index"`
	DisplayName string `gorm:"type:text;not null"`

	Messages []ArchivedMessage `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// ArchivedMessage is one line of an archived transcript.
type ArchivedMessage struct {
	gorm.Model

	ConversationID uint   `gorm:"not null;index"`
	Sender         string `gorm:"type:text;not null"`
	Content        string `gorm:"type:text;not null"`
	SentAt         time.Time
}
