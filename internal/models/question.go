package models

import "time"

type Question struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CategoryID int64     `json:"category_id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"` // snapshot at write time
	CreatedAt  time.Time `json:"created_at"`
}

// QuestionView is a question joined with its category for listing and detail
// pages. AnswerCount is only filled by list queries.
type QuestionView struct {
	Question
	CategoryName string `json:"category_name"`
	Icon         string `json:"icon"`
	Color        string `json:"color"`
	AnswerCount  *int64 `json:"answer_count,omitempty"`
}

type NewQuestion struct {
	Title      string
	Content    string
	CategoryID int64
	UserID     int64
	Username   string
}
