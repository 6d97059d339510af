package service

import (
	"context"
	"strings"
	"time"

	"skillswap/internal/cache"
	"skillswap/internal/models"
	"skillswap/internal/validation"
)

const (
	maxAnnouncementTitleLength   = 160
	maxAnnouncementMessageLength = 2000
	maxReportDescriptionLength   = 2000
	maxContentIDLength           = 64
)

type CreateReportInput struct {
	ReporterID     uint
	ReportedUserID *uint
	ContentType    models.ReportContentType
	ContentID      string
	Reason         string
	Description    string
}

// AnnouncementInput carries announcement fields. On update, nil fields are left unchanged.
// ClearExpiry makes the announcement permanent again.
type AnnouncementInput struct {
	Title       *string                  `json:"title"`
	Message     *string                  `json:"message"`
	Type        *models.AnnouncementType `json:"type"`
	ExpiresAt   *time.Time               `json:"expires_at"`
	ClearExpiry bool                     `json:"clear_expiry"`
	IsActive    *bool                    `json:"is_active"`
}

func (s *ModerationService) CreateReport(ctx context.Context, in CreateReportInput) (*models.Report, error) {
	if !in.ContentType.Valid() {
		return nil, models.NewValidationError("content_type must be profile, skill, bio or review")
	}
	reason := strings.TrimSpace(in.Reason)
	if err := validation.ValidateRequired("reason", reason, validation.MaxReasonLength); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateMaxLength("description", in.Description, maxReportDescriptionLength); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateMaxLength("content_id", in.ContentID, maxContentIDLength); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.ReportedUserID != nil {
		if _, err := s.userRepo.GetByID(ctx, *in.ReportedUserID); err != nil {
			return nil, err
		}
	}

	report := &models.Report{
		ReporterID:     in.ReporterID,
		ReportedUserID: in.ReportedUserID,
		ContentType:    in.ContentType,
		ContentID:      strings.TrimSpace(in.ContentID),
		Reason:         reason,
		Description:    in.Description,
		Status:         models.ReportStatusPending,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// ListReports lists reports newest first, optionally filtered by status.
func (s *ModerationService) ListReports(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error) {
	if status != "" && !status.Valid() {
		return nil, models.NewValidationError("status must be pending, reviewed or resolved")
	}
	return s.reportRepo.List(ctx, status, limit, offset)
}

func (s *ModerationService) UpdateReportStatus(ctx context.Context, id uint, status models.ReportStatus) (*models.Report, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("status must be pending, reviewed or resolved")
	}
	if err := s.reportRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.reportRepo.GetByID(ctx, id)
}

// ActiveAnnouncements returns the announcements currently shown to everyone.
func (s *ModerationService) ActiveAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	var out []models.Announcement
	err := cache.Aside(ctx, "announcements", cache.AnnouncementsKey(), &out, cache.AnnouncementsTTL, func() error {
		active, err := s.annRepo.ListActive(ctx, nowUTC())
		if err != nil {
			return err
		}
		out = active
		return nil
	})
	if err != nil {
		return nil, err
	}
	// An expiry can pass while the list sits in the cache.
	now := nowUTC()
	visible := make([]models.Announcement, 0, len(out))
	for _, a := range out {
		if a.ExpiresAt == nil || a.ExpiresAt.After(now) {
			visible = append(visible, a)
		}
	}
	return visible, nil
}

func (s *ModerationService) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	return s.annRepo.ListAll(ctx)
}

func applyAnnouncement(a *models.Announcement, in AnnouncementInput) error {
	if in.Title != nil {
		a.Title = strings.TrimSpace(*in.Title)
	}
	if in.Message != nil {
		a.Message = strings.TrimSpace(*in.Message)
	}
	if in.Type != nil {
		a.Type = *in.Type
	}
	switch {
	case in.ClearExpiry && in.ExpiresAt != nil:
		return models.NewValidationError("expires_at and clear_expiry cannot be combined")
	case in.ClearExpiry:
		a.ExpiresAt = nil
	case in.ExpiresAt != nil:
		t := in.ExpiresAt.UTC()
		a.ExpiresAt = &t
	}
	if in.IsActive != nil {
		a.IsActive = *in.IsActive
	}

	if err := validation.ValidateRequired("title", a.Title, maxAnnouncementTitleLength); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidateRequired("message", a.Message, maxAnnouncementMessageLength); err != nil {
		return models.NewValidationError(err.Error())
	}
	if !a.Type.Valid() {
		return models.NewValidationError("type must be info, warning or maintenance")
	}
	return nil
}

// CreateAnnouncement publishes an announcement. It is active unless IsActive says otherwise.
func (s *ModerationService) CreateAnnouncement(ctx context.Context, adminID uint, in AnnouncementInput) (*models.Announcement, error) {
	a := &models.Announcement{
		Type:        models.AnnouncementInfo,
		IsActive:    true,
		CreatedByID: adminID,
	}
	if err := applyAnnouncement(a, in); err != nil {
		return nil, err
	}
	if err := s.annRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	cache.InvalidateAnnouncements(ctx)
	return a, nil
}

func (s *ModerationService) UpdateAnnouncement(ctx context.Context, id uint, in AnnouncementInput) (*models.Announcement, error) {
	a, err := s.annRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyAnnouncement(a, in); err != nil {
		return nil, err
	}
	if err := s.annRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	cache.InvalidateAnnouncements(ctx)
	return a, nil
}

func (s *ModerationService) DeleteAnnouncement(ctx context.Context, id uint) error {
	if err := s.annRepo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateAnnouncements(ctx)
	return nil
}
