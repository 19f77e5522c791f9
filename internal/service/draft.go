package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadchreiff/eigen-journal/internal/model"
	"github.com/ahmadchreiff/eigen-journal/internal/repository"
	"github.com/ahmadchreiff/eigen-journal/internal/storage"
)

var (
	ErrIDRequired    = errors.New("id is required")
	ErrNotFound      = errors.New("draft not found")
	ErrInvalidStatus = errors.New("invalid status")
)

// SubmitInput carries the author and article metadata for a new submission.
// Fields are author-supplied free text; the service does not validate them.
type SubmitInput struct {
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Email        string   `json:"email"`
	StudentID    string   `json:"studentId"`
	Affiliation  string   `json:"affiliation"`
	Year         string   `json:"year"`
	Major        string   `json:"major"`
	Title        string   `json:"title"`
	AbstractText string   `json:"abstractText"`
	Category     string   `json:"category"`
	Keywords     []string `json:"keywords"`
}

// DraftService defines the use cases of the draft review workflow.
type DraftService interface {
	// Submit stores the uploaded file, persists a new PENDING_REVIEW draft and
	// returns it. An empty payload fails with storage.ErrEmptyFile before
	// anything is written.
	Submit(ctx context.Context, in SubmitInput, r io.Reader, size int64, originalFilename string) (*model.Draft, error)

	// Get returns a single draft by its ID.
	Get(ctx context.Context, id string) (*model.Draft, error)

	// ListAll returns every draft, no filtering, no pagination.
	ListAll(ctx context.Context) ([]model.Draft, error)

	// UpdateStatus moves a draft to one of the recognized statuses and returns
	// the updated record. Unrecognized values fail with ErrInvalidStatus.
	UpdateStatus(ctx context.Context, id, status string) (*model.Draft, error)

	// Delete removes a draft's backing file (best effort) and its record.
	Delete(ctx context.Context, id string) error

	// StreamFile returns the draft's stored content alongside its record.
	// ErrNotFound covers both a missing record and a missing file.
	StreamFile(ctx context.Context, id string) (io.ReadCloser, *model.Draft, error)
}

// draftService is a concrete implementation of DraftService.
type draftService struct {
	store storage.Storage
	repo  repository.DraftRepository
}

// NewDraftService constructs a new DraftService.
func NewDraftService(store storage.Storage, repo repository.DraftRepository) DraftService {
	return &draftService{store: store, repo: repo}
}

func (s *draftService) Submit(ctx context.Context, in SubmitInput, r io.Reader, size int64, originalFilename string) (*model.Draft, error) {
	storedName, err := s.store.Save(ctx, r, size, originalFilename)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyFile) {
			return nil, err
		}
		return nil, fmt.Errorf("store file: %w", err)
	}

	draft := &model.Draft{
		ID:             uuid.NewString(),
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		StudentID:      in.StudentID,
		Affiliation:    in.Affiliation,
		Year:           in.Year,
		Major:          in.Major,
		Title:          in.Title,
		AbstractText:   in.AbstractText,
		Category:       in.Category,
		Keywords:       in.Keywords,
		StoredFileName: storedName,
		CreatedAt:      time.Now().UTC(),
		Status:         model.StatusPendingReview,
	}

	stored, err := s.repo.Create(ctx, draft)
	if err != nil {
		// The file stays behind for operational cleanup; the metadata insert is
		// not compensated with a storage rollback.
		logJSON(map[string]any{
			"event":       "submit_orphaned_file",
			"stored_name": storedName,
			"error":       err.Error(),
		})
		return nil, fmt.Errorf("persist draft: %w", err)
	}
	return stored, nil
}

// Get returns a draft by ID.
func (s *draftService) Get(ctx context.Context, id string) (*model.Draft, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *draftService) ListAll(ctx context.Context) ([]model.Draft, error) {
	return s.repo.ListAll(ctx)
}

func (s *draftService) UpdateStatus(ctx context.Context, id, status string) (*model.Draft, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if !model.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	d.Status = status
	updated, err := s.repo.Update(ctx, d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the backing file first, then the metadata record. A failed
// or missing file never blocks removal of the visible record.
func (s *draftService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if err := s.store.Delete(ctx, d.StoredFileName); err != nil {
		logJSON(map[string]any{
			"event":       "delete_file_failed",
			"draft_id":    id,
			"stored_name": d.StoredFileName,
			"error":       err.Error(),
		})
	}

	return s.repo.Delete(ctx, id)
}

func (s *draftService) StreamFile(ctx context.Context, id string) (io.ReadCloser, *model.Draft, error) {
	if id == "" {
		return nil, nil, ErrIDRequired
	}
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	rc, err := s.store.Open(ctx, d.StoredFileName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open stored file: %w", err)
	}
	return rc, d, nil
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	data["component"] = "draft_service"
	if _, ok := data["level"]; !ok {
		data["level"] = "warn"
	}
	b, err := json.Marshal(data)
	if err != nil {
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
