package model

import (
	"encoding/json"
	"time"
)

const (
	DefaultThemeColor = "#4CAF50"
	DefaultWelcome    = "Hi! How can I help?"
)

// Bot is a configured chat persona. Name is fixed at creation; the remaining
// settings are mutable through the settings endpoint.
type Bot struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"size:256;not null" json:"name"`
	Avatar       string    `gorm:"size:512" json:"avatar"`
	ThemeColor   string    `gorm:"size:32;not null" json:"themeColor"`
	Welcome      string    `gorm:"size:512;not null" json:"welcome"`
	QuickReplies string    `gorm:"type:text" json:"-"` // JSON-encoded list, decoded on read
	CreatedAt    time.Time `json:"createdAt"`
}

// SetQuickReplies encodes the list into the at-rest representation.
func (b *Bot) SetQuickReplies(list []string) error {
	if list == nil {
		list = []string{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	b.QuickReplies = string(raw)
	return nil
}

// QuickReplyList decodes the stored quick replies. Malformed or empty stored
// text decodes to an empty list, never nil.
func (b *Bot) QuickReplyList() []string {
	if b.QuickReplies == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(b.QuickReplies), &list); err != nil || list == nil {
		return []string{}
	}
	return list
}
