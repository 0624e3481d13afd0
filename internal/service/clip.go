package service

import (
	"context"
	"errors"
	"strings"

	"github.com/blinkclip/blinkclip-go/internal/model"
	"github.com/blinkclip/blinkclip-go/internal/repository"
)

var (
	ErrTextRequired = errors.New("text is required")
	ErrClipNotFound = errors.New("clip not found")
)

// ClipStore is the persistence surface the service depends on. Satisfied by
// repository.ClipRepository. Every operation is scoped by the owning user;
// absent and unowned records are reported identically.
type ClipStore interface {
	Create(ctx context.Context, clip *model.Clip) error
	ListByUser(ctx context.Context, userID, search string) ([]model.Clip, error)
	GetOwned(ctx context.Context, userID, clipID string) (*model.Clip, error)
	UpdateText(ctx context.Context, userID, clipID, text string) error
	Delete(ctx context.Context, userID, clipID string) error
}

// ClipService handles clip business logic. Every operation is scoped to the
// acting user; ownership never leaks past the repository.
type ClipService struct {
	clips ClipStore
}

// NewClipService creates a new ClipService.
func NewClipService(clips ClipStore) *ClipService {
	return &ClipService{clips: clips}
}

// Create saves a new clip for the user. Text is required; page metadata is
// optional.
func (s *ClipService) Create(ctx context.Context, userID string, req model.CreateClipRequest) (*model.Clip, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrTextRequired
	}

	clip := &model.Clip{
		UserID:          userID,
		Text:            req.Text,
		SourceURL:       req.URL,
		PageTitle:       req.Title,
		PageDescription: req.Description,
		PageImage:       req.Image,
	}

	if err := s.clips.Create(ctx, clip); err != nil {
		return nil, err
	}

	return clip, nil
}

// List returns the user's clips newest first, optionally filtered by a
// case-insensitive substring match on the text. The result is never nil so
// the JSON surface renders an empty array rather than null.
func (s *ClipService) List(ctx context.Context, userID, search string) ([]model.Clip, error) {
	clips, err := s.clips.ListByUser(ctx, userID, search)
	if err != nil {
		return nil, err
	}
	if clips == nil {
		clips = []model.Clip{}
	}
	return clips, nil
}

// Get returns one of the user's clips.
func (s *ClipService) Get(ctx context.Context, userID, clipID string) (*model.Clip, error) {
	clip, err := s.clips.GetOwned(ctx, userID, clipID)
	if err != nil {
		if errors.Is(err, repository.ErrClipNotFound) {
			return nil, ErrClipNotFound
		}
		return nil, err
	}
	return clip, nil
}

// UpdateText replaces the text of one of the user's clips.
func (s *ClipService) UpdateText(ctx context.Context, userID, clipID, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrTextRequired
	}

	err := s.clips.UpdateText(ctx, userID, clipID, text)
	if errors.Is(err, repository.ErrClipNotFound) {
		return ErrClipNotFound
	}
	return err
}

// Delete removes one of the user's clips.
func (s *ClipService) Delete(ctx context.Context, userID, clipID string) error {
	err := s.clips.Delete(ctx, userID, clipID)
	if errors.Is(err, repository.ErrClipNotFound) {
		return ErrClipNotFound
	}
	return err
}
