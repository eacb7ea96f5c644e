package model

import "time"

// Transcript is one resolved chat exchange, persisted asynchronously through
// the transcript queue when a broker is configured.
type Transcript struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BotID     string    `gorm:"size:36;not null;index" json:"botId"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Reply     string    `gorm:"type:text;not null" json:"reply"`
	CreatedAt time.Time `json:"createdAt"`
}
