package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"chess-shop/internal/data/entity"
	"chess-shop/internal/data/repository"
	"chess-shop/internal/rbac"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// In-memory store shared by the stub repositories. It mirrors the joins and
// constraints of the SQL repositories closely enough for service tests.
// ---------------------------------------------------------------------------

type memStore struct {
	mu sync.Mutex

	users      map[uuid.UUID]*entity.User
	userRoles  map[uuid.UUID][]uuid.UUID
	sessions   map[string]*entity.Session
	roles      map[uuid.UUID]*entity.Role
	categories map[uuid.UUID]*entity.Category
	products   []*entity.Product
	comments   []*entity.Comment

	roleInserts     int
	categoryInserts int
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[uuid.UUID]*entity.User),
		userRoles:  make(map[uuid.UUID][]uuid.UUID),
		sessions:   make(map[string]*entity.Session),
		roles:      make(map[uuid.UUID]*entity.Role),
		categories: make(map[uuid.UUID]*entity.Category),
	}
}

func newTestRepo() (*repository.Repository, *memStore) {
	s := newMemStore()
	return &repository.Repository{
		User:     &stubUserRepo{s},
		Session:  &stubSessionRepo{s},
		Role:     &stubRoleRepo{s},
		Category: &stubCategoryRepo{s},
		Product:  &stubProductRepo{s},
		Comment:  &stubCommentRepo{s},
	}, s
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func (s *memStore) addCategory(name string) *entity.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &entity.Category{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()}, Name: name}
	s.categories[c.ID] = c
	return c
}

func (s *memStore) addUser(username string, bindings ...entity.RoleBinding) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Username: username,
		Email:    username + "@example.com",
		IsActive: true,
	}
	s.users[u.ID] = u
	for _, b := range bindings {
		role := s.roleFor(b)
		s.userRoles[u.ID] = append(s.userRoles[u.ID], role.ID)
	}
	return u
}

// roleFor returns the catalog row of b, creating it. Caller holds mu.
func (s *memStore) roleFor(b entity.RoleBinding) *entity.Role {
	for _, r := range s.roles {
		if sameBinding(r.Binding(), b) {
			return r
		}
	}
	r := &entity.Role{BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()}, Kind: b.Kind, CategoryID: b.CategoryID}
	s.roles[r.ID] = r
	return r
}

func (s *memStore) addProduct(category *entity.Category, author *entity.User, status entity.ModerationStatus) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &entity.Product{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Name:         "Staunton set",
		Price:        120,
		CategoryID:   category.ID,
		AuthorID:     author.ID,
		Status:       status,
	}
	s.products = append(s.products, p)
	return p
}

func (s *memStore) addComment(product *entity.Product, author *entity.User, status entity.ModerationStatus) *entity.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &entity.Comment{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Content:    "nice board",
		ProductID:  product.ID,
		AuthorID:   author.ID,
		Status:     status,
	}
	s.comments = append(s.comments, c)
	return c
}

func (s *memStore) commentStatus(id uuid.UUID) entity.ModerationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.comments {
		if c.ID == id {
			return c.Status
		}
	}
	return ""
}

func (s *memStore) roleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.roles)
}

func (s *memStore) categoryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.categories)
}

func principalOf(s *memStore, user *entity.User) rbac.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := rbac.Principal{UserID: user.ID, Username: user.Username}
	for _, id := range s.userRoles[user.ID] {
		p.Bindings = append(p.Bindings, s.roles[id].Binding())
	}
	return p
}

func sameBinding(a, b entity.RoleBinding) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.CategoryID == nil || b.CategoryID == nil {
		return a.CategoryID == nil && b.CategoryID == nil
	}
	return *a.CategoryID == *b.CategoryID
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct{ s *memStore }

func (r *stubUserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if !u.Deleted() && (u.Email == user.Email || u.Username == user.Username) {
			return fmt.Errorf("create user: %w", entity.ErrConflict)
		}
	}
	clone := *user
	clone.Roles = nil
	r.s.users[user.ID] = &clone
	for _, role := range user.Roles {
		r.s.userRoles[user.ID] = append(r.s.userRoles[user.ID], role.ID)
	}
	return nil
}

func (r *stubUserRepo) find(match func(*entity.User) bool) *entity.User {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if !u.Deleted() && match(u) {
			clone := *u
			return &clone
		}
	}
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id }), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email }), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username }), nil
}

func (r *stubUserRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.User
	for _, u := range r.s.users {
		if !u.Deleted() {
			clone := *u
			all = append(all, &clone)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (r *stubUserRepo) CountAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, u := range r.s.users {
		if !u.Deleted() {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.users[user.ID]
	if !ok || existing.Deleted() {
		return fmt.Errorf("user %s: %w", user.ID, entity.ErrNotFound)
	}
	clone := *user
	clone.Roles = nil
	r.s.users[user.ID] = &clone
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.Deleted() {
		return fmt.Errorf("user %s: %w", id, entity.ErrNotFound)
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

func (r *stubUserRepo) FindRoles(_ context.Context, userID uuid.UUID) ([]*entity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var roles []*entity.Role
	for _, id := range r.s.userRoles[userID] {
		clone := *r.s.roles[id]
		roles = append(roles, &clone)
	}
	return roles, nil
}

func (r *stubUserRepo) ReplaceRoles(_ context.Context, userID uuid.UUID, roles []*entity.Role) error {
	if len(roles) == 0 {
		return fmt.Errorf("%w: user must keep at least one role", entity.ErrInvalidArgument)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(roles))
	for _, role := range roles {
		if _, ok := r.s.roles[role.ID]; !ok {
			return fmt.Errorf("role %s does not exist", role.ID)
		}
		ids = append(ids, role.ID)
	}
	r.s.userRoles[userID] = ids
	return nil
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

type stubSessionRepo struct{ s *memStore }

func (r *stubSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *session
	r.s.sessions[session.Token.String()] = &clone
	return nil
}

func (r *stubSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[token]
	if !ok || !session.Active(time.Now()) {
		return nil, nil
	}
	if u, ok := r.s.users[session.UserID]; ok && u.Deleted() {
		return nil, nil
	}
	clone := *session
	return &clone, nil
}

func (r *stubSessionRepo) Revoke(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[token]
	if !ok || session.RevokedAt != nil {
		return fmt.Errorf("session: %w", entity.ErrNotFound)
	}
	now := time.Now()
	session.RevokedAt = &now
	return nil
}

func (r *stubSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	var n int64
	for _, session := range r.s.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			session.RevokedAt = &now
			n++
		}
	}
	return n, nil
}

func (r *stubSessionRepo) CleanExpiredSessions(_ context.Context, retention time.Duration) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cutoff := time.Now().Add(-retention)
	var n int64
	for token, session := range r.s.sessions {
		if session.ExpiresAt.Before(cutoff) || (session.RevokedAt != nil && session.RevokedAt.Before(cutoff)) {
			delete(r.s.sessions, token)
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Roles and categories
// ---------------------------------------------------------------------------

type stubRoleRepo struct{ s *memStore }

func (r *stubRoleRepo) FindByKindAndCategory(_ context.Context, kind entity.RoleKind, categoryID *uuid.UUID) (*entity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := entity.RoleBinding{Kind: kind, CategoryID: categoryID}
	for _, role := range r.s.roles {
		if sameBinding(role.Binding(), want) {
			clone := *role
			return &clone, nil
		}
	}
	return nil, nil
}

// Insert behaves like INSERT ... ON CONFLICT DO NOTHING.
func (r *stubRoleRepo) Insert(_ context.Context, role *entity.Role) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.roles {
		if sameBinding(existing.Binding(), role.Binding()) {
			return false, nil
		}
	}
	clone := *role
	r.s.roles[role.ID] = &clone
	r.s.roleInserts++
	return true, nil
}

type stubCategoryRepo struct{ s *memStore }

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, nil
}

func (r *stubCategoryRepo) FindByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Name == name {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *stubCategoryRepo) FindAll(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Category
	for _, c := range r.s.categories {
		clone := *c
		all = append(all, &clone)
	}
	return all, nil
}

func (r *stubCategoryRepo) Insert(_ context.Context, category *entity.Category) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Name == category.Name {
			return false, nil
		}
	}
	clone := *category
	r.s.categories[category.ID] = &clone
	r.s.categoryInserts++
	return true, nil
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

type stubProductRepo struct{ s *memStore }

// joined fills the columns the SQL repository reads through joins. Caller holds mu.
func (r *stubProductRepo) joined(p *entity.Product) *entity.Product {
	clone := *p
	if c, ok := r.s.categories[p.CategoryID]; ok {
		clone.CategoryName = c.Name
	}
	if u, ok := r.s.users[p.AuthorID]; ok {
		clone.AuthorUsername = u.Username
	}
	return &clone
}

func (r *stubProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *product
	r.s.products = append(r.s.products, &clone)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.ID == id {
			return r.joined(p), nil
		}
	}
	return nil, nil
}

func (r *stubProductRepo) matching(filter repository.ProductFilter) []*entity.Product {
	var out []*entity.Product
	for _, p := range r.s.products {
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if p.Status != entity.StatusAccepted && !filter.AllVisible && !containsID(filter.VisibleCategories, p.CategoryID) {
			continue
		}
		out = append(out, r.joined(p))
	}
	return out
}

func (r *stubProductRepo) FindVisible(_ context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.matching(filter)
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (r *stubProductRepo) CountVisible(_ context.Context, filter repository.ProductFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *stubProductRepo) FindByCategoriesAndStatus(_ context.Context, categoryIDs []uuid.UUID, status entity.ModerationStatus) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.Status == status && containsID(categoryIDs, p.CategoryID) {
			out = append(out, r.joined(p))
		}
	}
	return out, nil
}

func (r *stubProductRepo) UpdateStatusIfPending(_ context.Context, id uuid.UUID, status entity.ModerationStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.ID == id && p.Status == entity.StatusPending {
			p.Status = status
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// Comments
// ---------------------------------------------------------------------------

type stubCommentRepo struct{ s *memStore }

// joined resolves the category from the product as it is now. Caller holds mu.
func (r *stubCommentRepo) joined(c *entity.Comment) *entity.Comment {
	clone := *c
	for _, p := range r.s.products {
		if p.ID == c.ProductID {
			clone.CategoryID = p.CategoryID
		}
	}
	if u, ok := r.s.users[c.AuthorID]; ok {
		clone.AuthorUsername = u.Username
	}
	return &clone
}

func (r *stubCommentRepo) filter(match func(*entity.Comment) bool) []*entity.Comment {
	var out []*entity.Comment
	for _, c := range r.s.comments {
		j := r.joined(c)
		if match(j) {
			out = append(out, j)
		}
	}
	return out
}

func (r *stubCommentRepo) Create(_ context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *comment
	r.s.comments = append(r.s.comments, &clone)
	return nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	found := r.filter(func(c *entity.Comment) bool { return c.ID == id })
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *stubCommentRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]*entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(c *entity.Comment) bool { return c.ProductID == productID }), nil
}

func (r *stubCommentRepo) FindByProductAndStatus(_ context.Context, productID uuid.UUID, status entity.ModerationStatus) ([]*entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(c *entity.Comment) bool { return c.ProductID == productID && c.Status == status }), nil
}

func (r *stubCommentRepo) FindByCategoriesAndStatus(_ context.Context, categoryIDs []uuid.UUID, status entity.ModerationStatus) ([]*entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(c *entity.Comment) bool { return c.Status == status && containsID(categoryIDs, c.CategoryID) }), nil
}

func (r *stubCommentRepo) CountByCategoriesAndStatus(ctx context.Context, categoryIDs []uuid.UUID, status entity.ModerationStatus) (int64, error) {
	found, err := r.FindByCategoriesAndStatus(ctx, categoryIDs, status)
	return int64(len(found)), err
}

func (r *stubCommentRepo) UpdateStatusIfPending(_ context.Context, id uuid.UUID, status entity.ModerationStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.comments {
		if c.ID == id && c.Status == entity.StatusPending {
			c.Status = status
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, c := range r.s.comments {
		if c.ID == id {
			r.s.comments = append(r.s.comments[:i], r.s.comments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("comment %s: %w", id, entity.ErrNotFound)
}

func (s *memStore) sessionRepo() *stubSessionRepo {
	return &stubSessionRepo{s}
}
