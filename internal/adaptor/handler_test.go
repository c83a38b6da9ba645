package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chess-shop/internal/data/entity"
	"chess-shop/internal/dto/request"
	"chess-shop/internal/dto/response"
	"chess-shop/internal/rbac"
	"chess-shop/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("bad: %w", entity.ErrInvalidArgument), http.StatusBadRequest},
		{fmt.Errorf("login: %w", entity.ErrUnauthenticated), http.StatusUnauthorized},
		{&rbac.Denial{Action: rbac.ActionModerateComment, Scope: uuid.New()}, http.StatusForbidden},
		{fmt.Errorf("product: %w", entity.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("moderate: %w", entity.ErrInvalidTransition), http.StatusConflict},
		{fmt.Errorf("register: %w", entity.ErrConflict), http.StatusConflict},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zaptest.NewLogger(t), tt.err, "test")

			assert.Equal(t, tt.want, rec.Code)

			var body utils.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Status)
		})
	}
}

func TestHandleServiceErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	handleServiceError(rec, zaptest.NewLogger(t), errors.New("pq: password authentication failed"), "test")

	assert.NotContains(t, rec.Body.String(), "password")
}

// stubComments is a CommentService that records the principal it was
// called with and returns canned results.
type stubComments struct {
	principal rbac.Principal
	comments  []response.CommentResponse
	status    entity.ModerationStatus
	count     int64
	err       error
}

func (s *stubComments) ListVisibleComments(_ context.Context, p rbac.Principal, _ uuid.UUID) ([]response.CommentResponse, error) {
	s.principal = p
	return s.comments, s.err
}

func (s *stubComments) CreateComment(_ context.Context, p rbac.Principal, productID uuid.UUID, req *request.CreateCommentRequest) (*response.CommentResponse, error) {
	s.principal = p
	if s.err != nil {
		return nil, s.err
	}
	return &response.CommentResponse{ID: uuid.NewString(), ProductID: productID.String(), Content: req.Content, Status: entity.StatusPending}, nil
}

func (s *stubComments) SetCommentStatus(_ context.Context, p rbac.Principal, _ uuid.UUID, status entity.ModerationStatus) error {
	s.principal = p
	s.status = status
	return s.err
}

func (s *stubComments) DeleteComment(_ context.Context, p rbac.Principal, _ uuid.UUID) error {
	s.principal = p
	return s.err
}

func (s *stubComments) ListPendingForModerator(_ context.Context, p rbac.Principal) ([]response.CommentResponse, error) {
	s.principal = p
	return s.comments, s.err
}

func (s *stubComments) CountPendingForModerator(_ context.Context, p rbac.Principal) (int64, error) {
	s.principal = p
	return s.count, s.err
}

func commentRouter(t *testing.T, svc *stubComments, principal rbac.Principal) *chi.Mux {
	h := NewCommentHandler(svc, zaptest.NewLogger(t))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(rbac.WithPrincipal(req.Context(), principal)))
		})
	})
	r.Get("/api/products/{id}/comments", h.GetProductComments)
	r.Post("/api/products/{id}/comments", h.CreateComment)
	r.Put("/api/comments/{id}/status", h.SetStatus)
	r.Get("/api/moderation/comments/pending/count", h.CountPending)
	return r
}

func TestCommentHandlerPassesPrincipal(t *testing.T) {
	moderator := rbac.Principal{UserID: uuid.New(), Bindings: []entity.RoleBinding{entity.ModeratorBinding(uuid.New())}}
	svc := &stubComments{comments: []response.CommentResponse{{ID: "c1", Status: entity.StatusPending}}}
	r := commentRouter(t, svc, moderator)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/"+uuid.NewString()+"/comments", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, moderator.UserID, svc.principal.UserID)
	assert.Contains(t, rec.Body.String(), `"status":"PENDING"`)
}

func TestCommentHandlerBadProductID(t *testing.T) {
	r := commentRouter(t, &stubComments{}, rbac.Anonymous)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/not-a-uuid/comments", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommentHandlerCreate(t *testing.T) {
	user := rbac.Principal{UserID: uuid.New(), Bindings: []entity.RoleBinding{entity.UserBinding()}}
	path := "/api/products/" + uuid.NewString() + "/comments"

	t.Run("created", func(t *testing.T) {
		r := commentRouter(t, &stubComments{}, user)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"content":"lovely pieces"}`)))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("blank content", func(t *testing.T) {
		r := commentRouter(t, &stubComments{}, user)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"content":"  "}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		r := commentRouter(t, &stubComments{}, user)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"content":`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		svc := &stubComments{err: &rbac.Denial{Action: rbac.ActionCreateComment}}
		r := commentRouter(t, svc, rbac.Anonymous)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"content":"hi"}`)))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestCommentHandlerSetStatus(t *testing.T) {
	path := "/api/comments/" + uuid.NewString() + "/status"

	t.Run("accepted", func(t *testing.T) {
		svc := &stubComments{}
		r := commentRouter(t, svc, rbac.Principal{UserID: uuid.New()})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, path, strings.NewReader(`{"status":"ACCEPTED"}`)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, entity.StatusAccepted, svc.status)
	})

	t.Run("unknown status", func(t *testing.T) {
		r := commentRouter(t, &stubComments{}, rbac.Principal{UserID: uuid.New()})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, path, strings.NewReader(`{"status":"APPROVED"}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("conflicting decision", func(t *testing.T) {
		svc := &stubComments{err: fmt.Errorf("%w: ACCEPTED -> REJECTED", entity.ErrInvalidTransition)}
		r := commentRouter(t, svc, rbac.Principal{UserID: uuid.New()})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, path, strings.NewReader(`{"status":"REJECTED"}`)))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestCommentHandlerCountPending(t *testing.T) {
	r := commentRouter(t, &stubComments{count: 0}, rbac.Principal{UserID: uuid.New()})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/moderation/comments/pending/count", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data response.PendingCountResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(0), body.Data.Count)
}
