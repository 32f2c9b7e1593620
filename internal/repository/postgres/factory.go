package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	repo "github.com/baharkarakas/qa-forum/internal/repository"
)

// DBTX is the part of pgx the repositories use. *pgxpool.Pool, pgx.Tx and
// pgxmock pools all satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repositories struct {
	Users      repo.Users
	Categories repo.Categories
	Questions  repo.Questions
	Answers    repo.Answers
}

func NewRepositories(db DBTX) Repositories {
	return Repositories{
		Users:      &usersRepo{db},
		Categories: &categoriesRepo{db},
		Questions:  &questionsRepo{db},
		Answers:    &answersRepo{db},
	}
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeStringTooLong       = "22001"
	codeCharNotInRepertoire = "22021"
)

// translate maps driver errors onto repository sentinels, keeping the
// original error in the chain.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return errors.Join(repo.ErrDuplicate, err)
		case codeForeignKeyViolation:
			return errors.Join(repo.ErrForeignKey, err)
		case codeStringTooLong, codeCharNotInRepertoire:
			return errors.Join(repo.ErrInvalidText, err)
		}
	}
	return err
}
