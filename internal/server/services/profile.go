package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/dsstudio/internal/common"
	"github.com/dmitrijs2005/dsstudio/internal/dbx"
	"github.com/dmitrijs2005/dsstudio/internal/logging"
	"github.com/dmitrijs2005/dsstudio/internal/server/auth"
	"github.com/dmitrijs2005/dsstudio/internal/server/models"
	"github.com/dmitrijs2005/dsstudio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dsstudio/internal/server/storage"
	"github.com/google/uuid"
)

// MaxPictureSize is the largest accepted profile picture.
const MaxPictureSize = 5 << 20

// pictureExtensions lists the accepted content types and the file extensions
// each may be stored under. The first entry is the fallback.
var pictureExtensions = map[string][]string{
	"image/png":  {".png"},
	"image/jpeg": {".jpg", ".jpeg"},
}

var newPictureName = func() string { return uuid.NewString() }

// ProfileUpdate holds the optional fields of a profile edit. Nil means
// "leave unchanged".
type ProfileUpdate struct {
	Name    *string
	Surname *string
	Email   *string
}

// Picture is an uploaded image.
type Picture struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ProfileService manages the current user's profile, password, picture and
// account lifetime.
type ProfileService struct {
	tx          dbx.Transactor
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	storage     storage.Storage
	pictureDir  string
	audit       auditor
	logger      logging.Logger
}

// NewProfileService constructs a ProfileService. Pictures are stored under
// pictureDir inside st.
func NewProfileService(tx dbx.Transactor, m repomanager.RepositoryManager, hasher auth.PasswordHasher,
	st storage.Storage, pictureDir string, logger logging.Logger) *ProfileService {
	logger = logger.With("module", "profile")
	return &ProfileService{
		tx:          tx,
		repomanager: m,
		hasher:      hasher,
		storage:     st,
		pictureDir:  strings.Trim(pictureDir, "/"),
		audit:       auditor{tx: tx, repos: m, logger: logger},
		logger:      logger,
	}
}

// Profile returns the user together with their saved visualizations, newest
// first.
func (s *ProfileService) Profile(ctx context.Context, user *models.User) ([]*models.SavedVisualization, error) {
	list, err := s.repomanager.Visualizations(s.tx.Conn()).ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing visualizations: %w", err)
	}
	return list, nil
}

// UpdateProfile applies the non-nil fields. Taking an email that belongs to
// another account yields common.ErrorConflict.
func (s *ProfileService) UpdateProfile(ctx context.Context, user *models.User, upd ProfileUpdate) (*models.User, error) {
	updated := *user

	if upd.Name != nil {
		if err := validateName("name", *upd.Name, false); err != nil {
			return nil, err
		}
		updated.Name = upd.Name
	}
	if upd.Surname != nil {
		if err := validateName("surname", *upd.Surname, false); err != nil {
			return nil, err
		}
		updated.Surname = upd.Surname
	}

	repo := s.repomanager.Users(s.tx.Conn())

	if upd.Email != nil && *upd.Email != "" {
		email := normalizeEmail(*upd.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		if email != user.Email {
			other, err := repo.GetByEmail(ctx, email)
			switch {
			case err == nil && other.ID != user.ID:
				return nil, fmt.Errorf("%w: email already in use", common.ErrorConflict)
			case err != nil && !errors.Is(err, common.ErrorNotFound):
				return nil, fmt.Errorf("error checking email: %w", err)
			}
			updated.Email = email
		}
	}

	if err := repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, fmt.Errorf("%w: email already in use", common.ErrorConflict)
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return &updated, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *ProfileService) ChangePassword(ctx context.Context, user *models.User, current, next string) error {
	if !s.hasher.Verify(current, user.HashedPassword) {
		return fmt.Errorf("%w: current password is incorrect", common.ErrorValidation)
	}
	if err := validatePassword(next); err != nil {
		return err
	}

	digest, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	updated := *user
	updated.HashedPassword = digest
	if err := s.repomanager.Users(s.tx.Conn()).Update(ctx, &updated); err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}

	s.audit.record(ctx, user.ID, models.AuditPasswordChange, "")
	return nil
}

// ReplacePicture stores a new picture, removes the previous one and points the
// user at the new file. The steps are not atomic: if the final update fails
// the new file is orphaned and the old one may already be gone.
func (s *ProfileService) ReplacePicture(ctx context.Context, user *models.User, pic Picture) (*models.User, error) {
	exts, ok := pictureExtensions[pic.ContentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported file type, please upload a PNG or JPEG image", common.ErrorValidation)
	}
	if len(pic.Data) > MaxPictureSize {
		return nil, fmt.Errorf("%w: file is too large (max 5MB)", common.ErrorValidation)
	}

	key := path.Join(s.pictureDir, newPictureName()+pictureExtension(exts, pic.Filename))

	if err := s.storage.Put(ctx, key, bytes.NewReader(pic.Data), pic.ContentType); err != nil {
		return nil, fmt.Errorf("error storing picture: %w", err)
	}

	s.removePicture(ctx, user.ProfilePicture)

	updated := *user
	updated.ProfilePicture = &key
	if err := s.repomanager.Users(s.tx.Conn()).Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	s.audit.record(ctx, user.ID, models.AuditPictureReplace, key)
	return &updated, nil
}

// DeleteAccount removes the picture (best effort) and then, in one
// transaction, the user's visualizations and the user.
func (s *ProfileService) DeleteAccount(ctx context.Context, user *models.User) error {
	s.removePicture(ctx, user.ProfilePicture)

	var removed int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.Visualizations(tx).DeleteByUser(ctx, user.ID)
		if err != nil {
			return err
		}
		removed = n
		return s.repomanager.Users(tx).Delete(ctx, user.ID)
	})
	if err != nil {
		return fmt.Errorf("error deleting account: %w", err)
	}

	s.audit.record(ctx, 0, models.AuditAccountDelete, fmt.Sprintf("user_id=%d visualizations=%d", user.ID, removed))
	s.logger.Info(ctx, "account deleted", "user_id", user.ID)
	return nil
}

// pictureExtension keeps the uploaded file's extension only when it belongs
// to the declared content type. Media is served by extension, so anything
// else would let a client pick the served type.
func pictureExtension(allowed []string, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return ext
		}
	}
	return allowed[0]
}

func (s *ProfileService) removePicture(ctx context.Context, key *string) {
	if key == nil || *key == "" {
		return
	}
	if err := s.storage.Delete(ctx, *key); err != nil {
		s.logger.Warn(ctx, "failed to delete profile picture", "key", *key, "error", err)
	}
}
