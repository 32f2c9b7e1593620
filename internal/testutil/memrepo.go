// Package testutil holds in-memory stand-ins used by HTTP level tests.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/baharkarakas/qa-forum/internal/models"
	repo "github.com/baharkarakas/qa-forum/internal/repository"
)

// Store is an in-memory database enforcing the same constraints as the
// Postgres schema: unique usernames and foreign keys on questions and
// answers.
type Store struct {
	mu         sync.Mutex
	users      []models.User
	categories []models.Category
	questions  []models.Question
	answers    []models.Answer
	clock      time.Time
}

// NewStore returns a store seeded with categories.
func NewStore(categories ...models.Category) *Store {
	return &Store{categories: categories, clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *Store) Users() repo.Users           { return usersRepo{s} }
func (s *Store) Categories() repo.Categories { return categoriesRepo{s} }
func (s *Store) Questions() repo.Questions   { return questionsRepo{s} }
func (s *Store) Answers() repo.Answers       { return answersRepo{s} }

type usersRepo struct{ s *Store }

func (r usersRepo) Create(_ context.Context, username, passwordHash string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return models.User{}, repo.ErrDuplicate
		}
	}
	u := models.User{
		ID:           int64(len(r.s.users) + 1),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    r.s.tick(),
	}
	r.s.users = append(r.s.users, u)
	return u, nil
}

func (r usersRepo) GetByUsername(_ context.Context, username string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (r usersRepo) GetByID(_ context.Context, id int64) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

type categoriesRepo struct{ s *Store }

func (r categoriesRepo) List(context.Context) ([]models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := append([]models.Category{}, r.s.categories...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type questionsRepo struct{ s *Store }

func (r questionsRepo) Create(_ context.Context, nq models.NewQuestion) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.category(nq.CategoryID); !ok {
		return 0, repo.ErrForeignKey
	}
	q := models.Question{
		ID:         int64(len(r.s.questions) + 1),
		Title:      nq.Title,
		Content:    nq.Content,
		CategoryID: nq.CategoryID,
		UserID:     nq.UserID,
		Username:   nq.Username,
		CreatedAt:  r.s.tick(),
	}
	r.s.questions = append(r.s.questions, q)
	return q.ID, nil
}

func (r questionsRepo) List(_ context.Context, categoryID int64) ([]models.QuestionView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.QuestionView{}
	for i := len(r.s.questions) - 1; i >= 0; i-- {
		q := r.s.questions[i]
		if categoryID != 0 && q.CategoryID != categoryID {
			continue
		}
		v := r.s.view(q)
		n := int64(0)
		for _, a := range r.s.answers {
			if a.QuestionID == q.ID {
				n++
			}
		}
		v.AnswerCount = &n
		out = append(out, v)
	}
	return out, nil
}

func (r questionsRepo) GetByID(_ context.Context, id int64) (models.QuestionView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, q := range r.s.questions {
		if q.ID == id {
			return r.s.view(q), nil
		}
	}
	return models.QuestionView{}, repo.ErrNotFound
}

type answersRepo struct{ s *Store }

func (r answersRepo) Create(_ context.Context, na models.NewAnswer) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	found := false
	for _, q := range r.s.questions {
		if q.ID == na.QuestionID {
			found = true
			break
		}
	}
	if !found {
		return 0, repo.ErrForeignKey
	}
	a := models.Answer{
		ID:         int64(len(r.s.answers) + 1),
		Content:    na.Content,
		QuestionID: na.QuestionID,
		UserID:     na.UserID,
		Username:   na.Username,
		CreatedAt:  r.s.tick(),
	}
	r.s.answers = append(r.s.answers, a)
	return a.ID, nil
}

func (r answersRepo) ListByQuestion(_ context.Context, questionID int64) ([]models.Answer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Answer{}
	for _, a := range r.s.answers {
		if a.QuestionID == questionID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) category(id int64) (models.Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

func (s *Store) view(q models.Question) models.QuestionView {
	c, _ := s.category(q.CategoryID)
	return models.QuestionView{Question: q, CategoryName: c.Name, Icon: c.Icon, Color: c.Color}
}
