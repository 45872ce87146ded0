package models

import "time"

// Department represents an academic department students can be interested in
type Department struct {
	ID             int64
	Name           string
	TelegramChatID *string
	Active         bool
	CreatedAt      time.Time
}
