package postgres

import (
	"context"
	"fmt"

	"github.com/baharkarakas/qa-forum/internal/models"
)

type answersRepo struct{ db DBTX }

func (r *answersRepo) Create(ctx context.Context, a models.NewAnswer) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO answers (content, question_id, user_id, username)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		a.Content, a.QuestionID, a.UserID, a.Username,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert answer: %w", translate(err))
	}
	return id, nil
}

func (r *answersRepo) ListByQuestion(ctx context.Context, questionID int64) ([]models.Answer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, content, question_id, user_id, username, created_at
		   FROM answers
		  WHERE question_id = $1
		  ORDER BY created_at ASC, id ASC`,
		questionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	out := make([]models.Answer, 0)
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(&a.ID, &a.Content, &a.QuestionID, &a.UserID, &a.Username, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
