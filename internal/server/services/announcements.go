package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/coinvue/internal/common"
	"github.com/dmitrijs2005/coinvue/internal/logging"
	"github.com/dmitrijs2005/coinvue/internal/server/models"
	"github.com/dmitrijs2005/coinvue/internal/server/repositories/repomanager"
)

// maxTitleLen matches announcements.title.
const maxTitleLen = 200

// AnnouncementInput carries the editable fields of an announcement.
type AnnouncementInput struct {
	Title    string
	Content  string
	Type     models.AnnouncementType
	IsActive bool
}

func (in AnnouncementInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return common.NewValidationError("title: must not be blank")
	case utf8.RuneCountInString(in.Title) > maxTitleLen:
		return common.NewValidationError("title: size must be at most 200")
	case strings.TrimSpace(in.Content) == "":
		return common.NewValidationError("content: must not be blank")
	case !in.Type.Valid():
		return common.NewValidationError("type: must be one of info, success, warning")
	}
	return nil
}

type AnnouncementService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewAnnouncementService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *AnnouncementService {
	return &AnnouncementService{db: db, repomanager: m, log: log.With("module", "announcements")}
}

func (s *AnnouncementService) ListActive(ctx context.Context) ([]*models.Announcement, error) {
	return s.repomanager.Announcements(s.db).ListActive(ctx)
}

func (s *AnnouncementService) ListAll(ctx context.Context) ([]*models.Announcement, error) {
	return s.repomanager.Announcements(s.db).ListAll(ctx)
}

// Create stores a new announcement authored by the caller.
func (s *AnnouncementService) Create(ctx context.Context, author Principal, in AnnouncementInput) (*models.Announcement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	authorID := author.UserID
	a, err := s.repomanager.Announcements(s.db).Create(ctx, &models.Announcement{
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Type:      in.Type,
		IsActive:  in.IsActive,
		CreatedBy: &authorID,
	})
	if err != nil {
		return nil, err
	}
	a.CreatedByUsername = author.Username

	s.log.Info(ctx, "announcement created", "announcement_id", a.ID, "author", author.Username)
	return a, nil
}

// Update replaces the editable fields of announcement id.
func (s *AnnouncementService) Update(ctx context.Context, id int64, in AnnouncementInput) (*models.Announcement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	repo := s.repomanager.Announcements(s.db)
	a, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAnnouncement(err, id)
	}

	a.Title = strings.TrimSpace(in.Title)
	a.Content = in.Content
	a.Type = in.Type
	a.IsActive = in.IsActive

	a, err = repo.Update(ctx, a)
	if err != nil {
		return nil, notFoundAnnouncement(err, id)
	}
	return a, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id int64) error {
	if err := s.repomanager.Announcements(s.db).Delete(ctx, id); err != nil {
		return notFoundAnnouncement(err, id)
	}
	s.log.Info(ctx, "announcement deleted", "announcement_id", id)
	return nil
}

func notFoundAnnouncement(err error, id int64) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.NewNotFoundError("Announcement not found with id: %d", id)
	}
	return err
}
