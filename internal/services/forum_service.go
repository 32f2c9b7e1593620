package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/baharkarakas/qa-forum/internal/api/validate"
	"github.com/baharkarakas/qa-forum/internal/apperr"
	"github.com/baharkarakas/qa-forum/internal/metrics"
	"github.com/baharkarakas/qa-forum/internal/models"
	repo "github.com/baharkarakas/qa-forum/internal/repository"
)

const (
	msgMissingQuestion  = "Please provide title, content, and category"
	msgMissingAnswer    = "Please provide content and question_id"
	msgQuestionNotFound = "Question not found"
	msgUnknownCategory  = "Category does not exist"

	// questions.title is VARCHAR(200)
	maxTitleRunes = 200
)

type QuestionInput struct {
	Title      string `json:"title" validate:"required,nonul,min=10,max=200"`
	Content    string `json:"content" validate:"required,nonul,min=20"`
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
}

type AnswerInput struct {
	Content    string `json:"content" validate:"required,nonul"`
	QuestionID int64  `json:"question_id" validate:"required,gt=0"`
}

type QuestionDetail struct {
	Question models.QuestionView `json:"question"`
	Answers  []models.Answer     `json:"answers"`
}

type ForumService struct {
	categories repo.Categories
	questions  repo.Questions
	answers    repo.Answers
}

func NewForumService(c repo.Categories, q repo.Questions, a repo.Answers) *ForumService {
	return &ForumService{categories: c, questions: q, answers: a}
}

func (s *ForumService) Categories(ctx context.Context) ([]models.Category, error) {
	out, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// Questions lists questions newest first; categoryID 0 lists every category.
func (s *ForumService) Questions(ctx context.Context, categoryID int64) ([]models.QuestionView, error) {
	out, err := s.questions.List(ctx, categoryID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// Question returns one question with its answers in posting order.
func (s *ForumService) Question(ctx context.Context, id int64) (QuestionDetail, error) {
	if id <= 0 {
		return QuestionDetail{}, apperr.NotFound(msgQuestionNotFound)
	}
	q, err := s.questions.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return QuestionDetail{}, apperr.NotFound(msgQuestionNotFound)
	}
	if err != nil {
		return QuestionDetail{}, apperr.Internal(err)
	}
	answers, err := s.answers.ListByQuestion(ctx, id)
	if err != nil {
		return QuestionDetail{}, apperr.Internal(err)
	}
	return QuestionDetail{Question: q, Answers: answers}, nil
}

// AskQuestion stores a question authored by author. Author fields never come
// from the request body. Length rules apply to the trimmed text, but the text
// is stored exactly as sent.
func (s *ForumService) AskQuestion(ctx context.Context, author models.PublicUser, in QuestionInput) (int64, error) {
	check := in
	check.Title = strings.TrimSpace(in.Title)
	check.Content = strings.TrimSpace(in.Content)
	if err := validate.Struct(check); err != nil {
		return 0, validationError(err, msgMissingQuestion)
	}
	if utf8.RuneCountInString(in.Title) > maxTitleRunes {
		return 0, apperr.Validation("Title must be at most 200 characters")
	}

	id, err := s.questions.Create(ctx, models.NewQuestion{
		Title:      in.Title,
		Content:    in.Content,
		CategoryID: in.CategoryID,
		UserID:     author.ID,
		Username:   author.Username,
	})
	if errors.Is(err, repo.ErrForeignKey) {
		return 0, apperr.Validation(msgUnknownCategory)
	}
	if errors.Is(err, repo.ErrInvalidText) {
		return 0, apperr.Validation(msgInvalidText)
	}
	if err != nil {
		return 0, apperr.Internal(err)
	}
	metrics.PostsTotal.WithLabelValues("question").Inc()
	return id, nil
}

// Answer stores an answer as sent; blank content is rejected.
func (s *ForumService) Answer(ctx context.Context, author models.PublicUser, in AnswerInput) (int64, error) {
	check := in
	check.Content = strings.TrimSpace(in.Content)
	if err := validate.Struct(check); err != nil {
		return 0, validationError(err, msgMissingAnswer)
	}

	id, err := s.answers.Create(ctx, models.NewAnswer{
		Content:    in.Content,
		QuestionID: in.QuestionID,
		UserID:     author.ID,
		Username:   author.Username,
	})
	if errors.Is(err, repo.ErrForeignKey) {
		return 0, apperr.NotFound(msgQuestionNotFound)
	}
	if errors.Is(err, repo.ErrInvalidText) {
		return 0, apperr.Validation(msgInvalidText)
	}
	if err != nil {
		return 0, apperr.Internal(err)
	}
	metrics.PostsTotal.WithLabelValues("answer").Inc()
	return id, nil
}
