package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chess-shop/internal/data/entity"
	"chess-shop/internal/data/repository"
	"chess-shop/internal/dto/request"
	"chess-shop/internal/dto/response"
	"chess-shop/internal/rbac"
	"chess-shop/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentService interface {
	ListVisibleComments(ctx context.Context, principal rbac.Principal, productID uuid.UUID) ([]response.CommentResponse, error)
	CreateComment(ctx context.Context, principal rbac.Principal, productID uuid.UUID, req *request.CreateCommentRequest) (*response.CommentResponse, error)
	SetCommentStatus(ctx context.Context, principal rbac.Principal, commentID uuid.UUID, status entity.ModerationStatus) error
	DeleteComment(ctx context.Context, principal rbac.Principal, commentID uuid.UUID) error

	// Moderation queue
	ListPendingForModerator(ctx context.Context, principal rbac.Principal) ([]response.CommentResponse, error)
	CountPendingForModerator(ctx context.Context, principal rbac.Principal) (int64, error)
}

type commentService struct {
	repo *repository.Repository // comment + product
	log  *zap.Logger
}

func NewCommentService(repo *repository.Repository, log *zap.Logger) CommentService {
	return &commentService{
		repo: repo,
		log:  log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) findProduct(ctx context.Context, productID uuid.UUID) (*entity.Product, error) {
	product, err := s.repo.Product.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("product %s: %w", productID, entity.ErrNotFound)
	}
	return product, nil
}

func (s *commentService) findComment(ctx context.Context, commentID uuid.UUID) (*entity.Comment, error) {
	comment, err := s.repo.Comment.FindByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	if comment == nil {
		return nil, fmt.Errorf("comment %s: %w", commentID, entity.ErrNotFound)
	}
	return comment, nil
}

// ListVisibleComments returns every comment of the product when the
// principal is ADMIN or moderates the product's category, and only the
// ACCEPTED ones otherwise.
func (s *commentService) ListVisibleComments(ctx context.Context, principal rbac.Principal, productID uuid.UUID) ([]response.CommentResponse, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var comments []*entity.Comment
	if rbac.ScopesFor(principal.Bindings).Contains(product.CategoryID) {
		comments, err = s.repo.Comment.FindByProduct(ctx, productID)
	} else {
		comments, err = s.repo.Comment.FindByProductAndStatus(ctx, productID, entity.StatusAccepted)
	}
	if err != nil {
		s.log.Error("Failed to list comments", zap.Error(err), zap.String("product_id", productID.String()))
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return response.CommentsToResponse(rbac.Visible(principal, comments)), nil
}

// CreateComment stores a PENDING comment. The product must exist and be
// visible to the principal.
func (s *commentService) CreateComment(ctx context.Context, principal rbac.Principal, productID uuid.UUID, req *request.CreateCommentRequest) (*response.CommentResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !rbac.ScopesFor(principal.Bindings).CanSee(product) {
		return nil, fmt.Errorf("product %s: %w", productID, entity.ErrNotFound)
	}

	if err := authorize(principal, rbac.ActionCreateComment, product.CategoryID); err != nil {
		s.log.Warn("Create comment denied",
			zap.String("user_id", principal.UserID.String()),
			zap.String("product_id", productID.String()),
		)
		return nil, err
	}

	comment := &entity.Comment{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Content:        strings.TrimSpace(req.Content),
		ProductID:      productID,
		AuthorID:       principal.UserID,
		Status:         entity.StatusPending,
		CategoryID:     product.CategoryID,
		AuthorUsername: principal.Username,
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		s.log.Error("Failed to create comment", zap.Error(err), zap.String("product_id", productID.String()))
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("product_id", productID.String()),
		zap.String("author_id", principal.UserID.String()),
	)

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

// SetCommentStatus moderates a comment within the current category of its
// product. Only one of several concurrent moderators can move a comment out
// of PENDING; the others get a no-op or ErrInvalidTransition.
func (s *commentService) SetCommentStatus(ctx context.Context, principal rbac.Principal, commentID uuid.UUID, status entity.ModerationStatus) error {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return err
	}

	if err := authorize(principal, rbac.ActionModerateComment, comment.CategoryID); err != nil {
		s.log.Warn("Comment moderation denied",
			zap.String("user_id", principal.UserID.String()),
			zap.String("comment_id", commentID.String()),
		)
		return err
	}

	next, err := comment.Status.Transition(status)
	if err != nil {
		return err
	}
	if next == comment.Status {
		return nil
	}

	updated, err := s.repo.Comment.UpdateStatusIfPending(ctx, commentID, next)
	if err != nil {
		s.log.Error("Failed to update comment status", zap.Error(err), zap.String("comment_id", commentID.String()))
		return fmt.Errorf("update comment status: %w", err)
	}

	if !updated {
		current, err := s.findComment(ctx, commentID)
		if err != nil {
			return err
		}
		_, err = current.Status.Transition(status)
		return err
	}

	metrics.RecordModerationTransition("comment", string(next))
	s.log.Info("Comment moderated",
		zap.String("comment_id", commentID.String()),
		zap.String("status", string(next)),
		zap.String("moderator_id", principal.UserID.String()),
	)
	return nil
}

// DeleteComment removes a comment; it needs the same permission as
// moderating it.
func (s *commentService) DeleteComment(ctx context.Context, principal rbac.Principal, commentID uuid.UUID) error {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return err
	}

	if err := authorize(principal, rbac.ActionModerateComment, comment.CategoryID); err != nil {
		return err
	}

	if err := s.repo.Comment.Delete(ctx, commentID); err != nil {
		s.log.Error("Failed to delete comment", zap.Error(err), zap.String("comment_id", commentID.String()))
		return fmt.Errorf("delete comment: %w", err)
	}

	s.log.Info("Comment deleted",
		zap.String("comment_id", commentID.String()),
		zap.String("moderator_id", principal.UserID.String()),
	)
	return nil
}

// ListPendingForModerator returns the PENDING comments on products in the
// categories the principal moderates.
func (s *commentService) ListPendingForModerator(ctx context.Context, principal rbac.Principal) ([]response.CommentResponse, error) {
	categories := pendingScopes(principal)
	if len(categories) == 0 {
		return []response.CommentResponse{}, nil
	}

	comments, err := s.repo.Comment.FindByCategoriesAndStatus(ctx, categories, entity.StatusPending)
	if err != nil {
		s.log.Error("Failed to list pending comments", zap.Error(err))
		return nil, fmt.Errorf("list pending comments: %w", err)
	}

	return response.CommentsToResponse(comments), nil
}

func (s *commentService) CountPendingForModerator(ctx context.Context, principal rbac.Principal) (int64, error) {
	categories := pendingScopes(principal)
	if len(categories) == 0 {
		return 0, nil
	}

	count, err := s.repo.Comment.CountByCategoriesAndStatus(ctx, categories, entity.StatusPending)
	if err != nil {
		s.log.Error("Failed to count pending comments", zap.Error(err))
		return 0, fmt.Errorf("count pending comments: %w", err)
	}
	return count, nil
}
