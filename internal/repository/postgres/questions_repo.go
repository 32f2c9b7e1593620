package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/baharkarakas/qa-forum/internal/models"
)

type questionsRepo struct{ db DBTX }

const questionViewSelect = `
SELECT q.id, q.title, q.content, q.category_id, q.user_id, q.username, q.created_at,
       c.name, c.icon, c.color`

func (r *questionsRepo) Create(ctx context.Context, q models.NewQuestion) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO questions (title, content, category_id, user_id, username)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		q.Title, q.Content, q.CategoryID, q.UserID, q.Username,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", translate(err))
	}
	return id, nil
}

func (r *questionsRepo) List(ctx context.Context, categoryID int64) ([]models.QuestionView, error) {
	q := questionViewSelect + `,
       (SELECT COUNT(*) FROM answers a WHERE a.question_id = q.id) AS answer_count
  FROM questions q
  JOIN categories c ON c.id = q.category_id`
	var args []any
	if categoryID > 0 {
		q += `
 WHERE q.category_id = $1`
		args = append(args, categoryID)
	}
	q += `
 ORDER BY q.created_at DESC, q.id DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	out := make([]models.QuestionView, 0)
	for rows.Next() {
		var (
			v     models.QuestionView
			count int64
		)
		if err := scanQuestionView(rows, &v, &count); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		v.AnswerCount = &count
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *questionsRepo) GetByID(ctx context.Context, id int64) (models.QuestionView, error) {
	var v models.QuestionView
	row := r.db.QueryRow(ctx, questionViewSelect+`
  FROM questions q
  JOIN categories c ON c.id = q.category_id
 WHERE q.id = $1`, id)
	if err := scanQuestionView(row, &v); err != nil {
		return models.QuestionView{}, fmt.Errorf("get question: %w", translate(err))
	}
	return v, nil
}

func scanQuestionView(row pgx.Row, v *models.QuestionView, extra ...any) error {
	dest := []any{
		&v.ID, &v.Title, &v.Content, &v.CategoryID, &v.UserID, &v.Username, &v.CreatedAt,
		&v.CategoryName, &v.Icon, &v.Color,
	}
	return row.Scan(append(dest, extra...)...)
}
