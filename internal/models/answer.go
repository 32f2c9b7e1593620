package models

import "time"

type Answer struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	QuestionID int64     `json:"question_id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"` // snapshot at write time
	CreatedAt  time.Time `json:"created_at"`
}

type NewAnswer struct {
	Content    string
	QuestionID int64
	UserID     int64
	Username   string
}
