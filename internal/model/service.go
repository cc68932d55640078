package model

import "time"

type Service struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Duration  int       `json:"duration"` // в минутах
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
