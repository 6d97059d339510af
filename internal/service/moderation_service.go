package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"skillswap/internal/cache"
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"
	"skillswap/internal/validation"

	"gorm.io/gorm"
)

// activityReportLimit bounds each section of the admin activity export.
const activityReportLimit = 100

// ModerationService provides admin moderation and reporting logic.
type ModerationService struct {
	userRepo   repository.UserRepository
	skillRepo  repository.SkillRepository
	swapRepo   repository.SwapRequestRepository
	reportRepo repository.ReportRepository
	modRepo    repository.ModerationRepository
	annRepo    repository.AnnouncementRepository
}

type ModerateUserInput struct {
	AdminID      uint
	UserID       uint
	Action       models.UserModerationAction
	Reason       string
	DurationDays *int
}

type ModerateSkillInput struct {
	AdminID uint
	SkillID uint
	Action  models.SkillModerationAction
	Reason  string
}

// NewModerationService returns a new ModerationService.
func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{
		userRepo:   repository.NewUserRepository(db),
		skillRepo:  repository.NewSkillRepository(db),
		swapRepo:   repository.NewSwapRequestRepository(db),
		reportRepo: repository.NewReportRepository(db),
		modRepo:    repository.NewModerationRepository(db),
		annRepo:    repository.NewAnnouncementRepository(db),
	}
}

// ModerateUser records a warning, suspension or ban. A nil DurationDays means permanent.
func (s *ModerationService) ModerateUser(ctx context.Context, in ModerateUserInput) (*models.UserModeration, error) {
	if in.AdminID == in.UserID {
		return nil, models.NewValidationError("You cannot moderate yourself")
	}
	if !in.Action.Valid() {
		return nil, models.NewValidationError("action must be warn, suspend or ban")
	}
	reason := strings.TrimSpace(in.Reason)
	if err := validation.ValidateRequired("reason", reason, validation.MaxReasonLength); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.DurationDays != nil && *in.DurationDays <= 0 {
		return nil, models.NewValidationError("duration_days must be positive")
	}
	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	record := &models.UserModeration{
		UserID:      in.UserID,
		ModeratorID: in.AdminID,
		Action:      in.Action,
		Reason:      reason,
		IsActive:    true,
	}
	if in.DurationDays != nil {
		expires := nowUTC().Add(time.Duration(*in.DurationDays) * 24 * time.Hour)
		record.ExpiresAt = &expires
	}
	if err := s.modRepo.CreateUserModeration(ctx, record); err != nil {
		return nil, err
	}

	observability.ModerationActions.WithLabelValues("user", string(in.Action)).Inc()
	middleware.Logger.InfoContext(ctx, "user moderated",
		slog.Uint64("target_id", uint64(in.UserID)),
		slog.Uint64("moderator_id", uint64(in.AdminID)),
		slog.String("action", string(in.Action)),
	)
	return record, nil
}

// IsUserBanned reports whether an active, unexpired ban exists for userID.
func (s *ModerationService) IsUserBanned(ctx context.Context, userID uint) (bool, error) {
	return s.modRepo.HasActiveBan(ctx, userID, nowUTC())
}

// LiftUserModeration deactivates every active record of the user and returns how many changed.
func (s *ModerationService) LiftUserModeration(ctx context.Context, adminID, userID uint) (int64, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return 0, err
	}
	n, err := s.modRepo.DeactivateUserModerations(ctx, userID)
	if err != nil {
		return 0, err
	}
	observability.ModerationActions.WithLabelValues("user", "lift").Inc()
	middleware.Logger.InfoContext(ctx, "user moderation lifted",
		slog.Uint64("target_id", uint64(userID)),
		slog.Uint64("moderator_id", uint64(adminID)),
		slog.Int64("records", n),
	)
	return n, nil
}

func (s *ModerationService) UserModerationHistory(ctx context.Context, userID uint) ([]models.UserModeration, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.modRepo.ListUserModerations(ctx, userID)
}

// ModerateSkill appends an audit entry for a skill. Rejections hide the skill from search.
func (s *ModerationService) ModerateSkill(ctx context.Context, in ModerateSkillInput) (*models.SkillModeration, error) {
	if !in.Action.Valid() {
		return nil, models.NewValidationError("action must be flag, reject or approve")
	}
	reason := strings.TrimSpace(in.Reason)
	if err := validation.ValidateMaxLength("reason", reason, validation.MaxReasonLength); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	skill, err := s.skillRepo.GetByID(ctx, in.SkillID)
	if err != nil {
		return nil, err
	}

	record := &models.SkillModeration{
		SkillID:     in.SkillID,
		ModeratorID: in.AdminID,
		Action:      in.Action,
		Reason:      reason,
	}
	if err := s.modRepo.CreateSkillModeration(ctx, record); err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, skill.UserID)
	observability.ModerationActions.WithLabelValues("skill", string(in.Action)).Inc()
	return record, nil
}

func (s *ModerationService) SkillModerationHistory(ctx context.Context, skillID uint) ([]models.SkillModeration, error) {
	if _, err := s.skillRepo.GetByID(ctx, skillID); err != nil {
		return nil, err
	}
	return s.modRepo.ListSkillModerations(ctx, skillID)
}

// Stats computes the dashboard counters on every call.
func (s *ModerationService) Stats(ctx context.Context) (*models.PlatformStats, error) {
	var (
		stats models.PlatformStats
		err   error
	)
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalSkills, err = s.skillRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveSwaps, err = s.swapRepo.CountByStatus(ctx, models.SwapStatusAccepted); err != nil {
		return nil, err
	}
	if stats.CompletedSwaps, err = s.swapRepo.CountByStatus(ctx, models.SwapStatusCompleted); err != nil {
		return nil, err
	}
	if stats.PendingReports, err = s.reportRepo.Count(ctx, models.ReportStatusPending); err != nil {
		return nil, err
	}
	if stats.TotalReports, err = s.reportRepo.Count(ctx, ""); err != nil {
		return nil, err
	}
	return &stats, nil
}

// PublicStats counts only what anonymous visitors could discover themselves.
func (s *ModerationService) PublicStats(ctx context.Context) (*models.PublicStats, error) {
	var (
		stats models.PublicStats
		err   error
	)
	if stats.ActiveUsers, err = s.userRepo.CountPublic(ctx); err != nil {
		return nil, err
	}
	if stats.SkillsOffered, err = s.skillRepo.CountOfferedPublic(ctx); err != nil {
		return nil, err
	}
	if stats.SuccessfulSwaps, err = s.swapRepo.CountByStatus(ctx, models.SwapStatusCompleted); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ActivityReport exports the most recent users, swaps, skills and reports.
func (s *ModerationService) ActivityReport(ctx context.Context) (*models.ActivityReport, error) {
	report := &models.ActivityReport{GeneratedAt: nowUTC()}
	var err error

	if report.Users, err = s.userRepo.List(ctx, activityReportLimit, 0); err != nil {
		return nil, err
	}
	if report.SwapRequests, err = s.swapRepo.ListAll(ctx, activityReportLimit, 0); err != nil {
		return nil, err
	}
	if report.Skills, err = s.skillRepo.ListAll(ctx, activityReportLimit); err != nil {
		return nil, err
	}
	if report.Reports, err = s.reportRepo.List(ctx, "", activityReportLimit, 0); err != nil {
		return nil, err
	}
	return report, nil
}
