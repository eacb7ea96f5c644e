package model

import "time"

// Document is the extracted plain text of one uploaded file, owned by one bot.
// Documents are created once and never updated.
type Document struct {
	ID       string    `gorm:"primaryKey;size:36" json:"id"`
	BotID    string    `gorm:"size:36;not null;index" json:"botId"`
	Filename string    `gorm:"size:512;not null" json:"filename"`
	Text     string    `gorm:"type:text" json:"text"`
	AddedAt  time.Time `json:"addedAt"`
}
