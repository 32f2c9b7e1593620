package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/qa-forum/internal/api/httpx"
	"github.com/baharkarakas/qa-forum/internal/apperr"
	"github.com/baharkarakas/qa-forum/internal/middleware"
	"github.com/baharkarakas/qa-forum/internal/models"
	"github.com/baharkarakas/qa-forum/internal/services"
)

type Forum interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Questions(ctx context.Context, categoryID int64) ([]models.QuestionView, error)
	Question(ctx context.Context, id int64) (services.QuestionDetail, error)
	AskQuestion(ctx context.Context, author models.PublicUser, in services.QuestionInput) (int64, error)
	Answer(ctx context.Context, author models.PublicUser, in services.AnswerInput) (int64, error)
}

type ContentHandler struct {
	Svc Forum
}

func NewContentHandler(svc Forum) *ContentHandler {
	return &ContentHandler{Svc: svc}
}

type questionReq struct {
	Title      string        `json:"title"`
	Content    string        `json:"content"`
	CategoryID httpx.FlexInt `json:"category_id"`
}

type answerReq struct {
	Content    string        `json:"content"`
	QuestionID httpx.FlexInt `json:"question_id"`
}

type questionCreatedResp struct {
	Message    string `json:"message"`
	QuestionID int64  `json:"questionId"`
}

type answerCreatedResp struct {
	Message  string `json:"message"`
	AnswerID int64  `json:"answerId"`
}

func (h *ContentHandler) Categories(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.Categories(r.Context())
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// Questions lists questions, optionally filtered by ?category_id=.
func (h *ContentHandler) Questions(w http.ResponseWriter, r *http.Request) {
	var categoryID int64
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httpx.Fail(w, r, apperr.Validation("category_id must be a positive integer"))
			return
		}
		categoryID = id
	}
	out, err := h.Svc.Questions(r.Context(), categoryID)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *ContentHandler) Question(w http.ResponseWriter, r *http.Request) {
	// malformed ids cannot name a question
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		id = 0
	}
	out, err := h.Svc.Question(r.Context(), id)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// PostQuestion expects RequireUser to have run.
func (h *ContentHandler) PostQuestion(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.FromCtx(r.Context())

	var req questionReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, r, err)
		return
	}
	id, err := h.Svc.AskQuestion(r.Context(), u.Public(), services.QuestionInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: int64(req.CategoryID),
	})
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, questionCreatedResp{Message: "Question posted successfully!", QuestionID: id})
}

// PostAnswer expects RequireUser to have run.
func (h *ContentHandler) PostAnswer(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.FromCtx(r.Context())

	var req answerReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, r, err)
		return
	}
	id, err := h.Svc.Answer(r.Context(), u.Public(), services.AnswerInput{
		Content:    req.Content,
		QuestionID: int64(req.QuestionID),
	})
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, answerCreatedResp{Message: "Answer posted successfully!", AnswerID: id})
}
