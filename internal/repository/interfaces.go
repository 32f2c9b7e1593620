package repository

import (
	"context"
	"errors"

	"github.com/baharkarakas/qa-forum/internal/models"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate record")
	ErrForeignKey = errors.New("referenced record does not exist")
	// ErrInvalidText means the store refused a string value: bad encoding
	// such as NUL bytes, or too long for its column.
	ErrInvalidText = errors.New("text value rejected by store")
)

type Users interface {
	// Create fails with ErrDuplicate when the username is taken.
	Create(ctx context.Context, username, passwordHash string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
}

type Categories interface {
	List(ctx context.Context) ([]models.Category, error)
}

type Questions interface {
	// Create fails with ErrForeignKey when the category does not exist.
	Create(ctx context.Context, q models.NewQuestion) (int64, error)
	// List returns newest first; categoryID 0 means all categories.
	List(ctx context.Context, categoryID int64) ([]models.QuestionView, error)
	GetByID(ctx context.Context, id int64) (models.QuestionView, error)
}

type Answers interface {
	// Create fails with ErrForeignKey when the question does not exist.
	Create(ctx context.Context, a models.NewAnswer) (int64, error)
	// ListByQuestion returns oldest first.
	ListByQuestion(ctx context.Context, questionID int64) ([]models.Answer, error)
}
