package memory

import (
	"context"

	"github.com/dmitrijs2005/dsstudio/internal/common"
	"github.com/dmitrijs2005/dsstudio/internal/server/models"
)

type userRepo struct {
	s *store
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (r *userRepo) emailTaken(email string, except int64) bool {
	for id, u := range r.s.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(user.Email, 0) {
		return nil, common.ErrorConflict
	}

	user.ID = r.s.id()
	user.CreatedAt = r.s.now()
	r.s.users[user.ID] = copyUser(user)
	return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyUser(u), nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return common.ErrorNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return common.ErrorConflict
	}
	r.s.users[user.ID] = copyUser(user)
	return nil
}

// Delete mirrors the foreign keys: visualizations cascade, audit rows lose
// their user id.
func (r *userRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.users, id)

	for vid, v := range r.s.vis {
		if v.UserID == id {
			delete(r.s.vis, vid)
		}
	}
	for i, a := range r.s.audit {
		if a.UserID != nil && *a.UserID == id {
			c := *a
			c.UserID = nil
			r.s.audit[i] = &c
		}
	}
	return nil
}
