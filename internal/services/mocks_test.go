package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/baharkarakas/qa-forum/internal/models"
)

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) Create(ctx context.Context, username, passwordHash string) (models.User, error) {
	args := m.Called(ctx, username, passwordHash)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUsers) GetByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUsers) GetByID(ctx context.Context, id int64) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

type MockCategories struct {
	mock.Mock
}

func (m *MockCategories) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

type MockQuestions struct {
	mock.Mock
}

func (m *MockQuestions) Create(ctx context.Context, q models.NewQuestion) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestions) List(ctx context.Context, categoryID int64) ([]models.QuestionView, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuestionView), args.Error(1)
}

func (m *MockQuestions) GetByID(ctx context.Context, id int64) (models.QuestionView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.QuestionView), args.Error(1)
}

type MockAnswers struct {
	mock.Mock
}

func (m *MockAnswers) Create(ctx context.Context, a models.NewAnswer) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnswers) ListByQuestion(ctx context.Context, questionID int64) ([]models.Answer, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Answer), args.Error(1)
}
