// Package profile manages user profile reads, partial-merge updates, and
// profile file uploads (picture, resume).
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jmorgan/ikigai-copilot/internal/types"
)

// FileKind selects the upload destination and visibility.
type FileKind string

const (
	FilePicture FileKind = "picture"
	FileResume  FileKind = "resume"
)

// Store reads and partially merges profile documents.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*types.UserProfile, error)
	UpsertProfile(ctx context.Context, userID string, patch map[string]any) error
}

// Service coordinates profile persistence and file uploads.
type Service struct {
	store    Store
	files    FileStore
	validate *validator.Validate
	now      func() time.Time
}

func NewService(store Store, files FileStore) *Service {
	return &Service{
		store:    store,
		files:    files,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Get returns the stored profile; absence yields an empty profile rather
// than an error, since a user without a profile is a valid state.
func (s *Service) Get(ctx context.Context, userID string) (*types.UserProfile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if p == nil {
		return &types.UserProfile{}, nil
	}
	return p, nil
}

// Update merges the supplied fields into the stored profile. Only fields
// present in the patch overwrite; everything else is preserved. Returns
// the merged profile.
func (s *Service) Update(ctx context.Context, userID string, patch types.UserProfile) (*types.UserProfile, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, err
	}

	// Round-trip through JSON so omitempty drops unset fields and the
	// store receives only what the caller supplied.
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile patch: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode profile patch: %w", err)
	}

	if err := s.store.UpsertProfile(ctx, userID, fields); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.Get(ctx, userID)
}

// UploadFile stores a profile picture or resume and records its location
// on the profile. Pictures yield a public URL; resumes yield the private
// object key.
func (s *Service) UploadFile(ctx context.Context, userID string, kind FileKind, filename, contentType string, data []byte) (string, error) {
	if s.files == nil {
		return "", fmt.Errorf("file uploads are not configured")
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty file upload")
	}

	var folder, field string
	switch kind {
	case FilePicture:
		folder, field = "profile-pictures", "profilePictureUrl"
	case FileResume:
		folder, field = "resumes", "resumePath"
	default:
		return "", fmt.Errorf("unknown file kind: %s", kind)
	}

	key := path.Join(folder, userID, fmt.Sprintf("%d-%s", s.now().UnixMilli(), filename))
	if err := s.files.Put(ctx, key, contentType, data); err != nil {
		return "", err
	}

	location := key
	if kind == FilePicture {
		location = s.files.PublicURL(key)
	}
	if err := s.store.UpsertProfile(ctx, userID, map[string]any{field: location}); err != nil {
		return "", fmt.Errorf("failed to record uploaded file: %w", err)
	}
	return location, nil
}
