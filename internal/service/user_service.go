package service

import (
	"context"
	"fmt"
	"strings"

	"skillswap/internal/cache"
	"skillswap/internal/featureflags"
	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"
	"skillswap/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type UserService struct {
	userRepo  repository.UserRepository
	skillRepo repository.SkillRepository
	availRepo repository.AvailabilityRepository
	flags     *featureflags.Manager
}

// SearchInput is a user search request. Empty strings and "all" disable a filter.
type SearchInput struct {
	Query     string
	Location  string
	SkillType string
	Level     string
	Limit     int
	Offset    int
}

type SkillInput struct {
	Name  string            `json:"name"`
	Level models.SkillLevel `json:"level"`
	Type  models.SkillType  `json:"type"`
}

type SlotInput struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func NewUserService(
	userRepo repository.UserRepository,
	skillRepo repository.SkillRepository,
	availRepo repository.AvailabilityRepository,
	flags *featureflags.Manager,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		skillRepo: skillRepo,
		availRepo: availRepo,
		flags:     flags,
	}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetUserWithSkills returns the user with skills and availability, served from the
// profile cache when possible.
func (s *UserService) GetUserWithSkills(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, "user_profile", cache.UserProfileKey(id), &user, cache.UserProfileTTL, func() error {
		loaded, err := s.userRepo.GetWithDetails(ctx, id)
		if err != nil {
			return err
		}
		user = *loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetPublicProfile hides private profiles from everyone except the owner and admins.
func (s *UserService) GetPublicProfile(ctx context.Context, id, viewerID uint, viewerIsAdmin bool) (*models.User, error) {
	user, err := s.GetUserWithSkills(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsPublic && viewerID != id && !viewerIsAdmin {
		return nil, models.NewNotFoundError("User", id)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in models.ProfileUpdate) (*models.User, error) {
	fields := map[string]any{}

	if in.FirstName != nil {
		name := strings.TrimSpace(*in.FirstName)
		if err := validation.ValidateName("first_name", name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		fields["first_name"] = name
	}
	if in.LastName != nil {
		name := strings.TrimSpace(*in.LastName)
		if err := validation.ValidateName("last_name", name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		fields["last_name"] = name
	}
	if in.Bio != nil {
		if err := validation.ValidateMaxLength("bio", *in.Bio, validation.MaxBioLength); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		fields["bio"] = *in.Bio
	}
	if in.Location != nil {
		loc := strings.TrimSpace(*in.Location)
		if err := validation.ValidateMaxLength("location", loc, validation.MaxLocationLength); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		fields["location"] = loc
	}
	if in.IsPublic != nil {
		fields["is_public"] = *in.IsPublic
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, err
		}
		cache.InvalidateUser(ctx, userID)
	}

	return s.userRepo.GetWithDetails(ctx, userID)
}

func (s *UserService) SetAdmin(ctx context.Context, targetID uint, isAdmin bool) (*models.User, error) {
	if err := s.userRepo.SetAdmin(ctx, targetID, isAdmin); err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, targetID)
	return s.userRepo.GetByID(ctx, targetID)
}

func (s *UserService) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListAdmins(ctx)
}

// SearchUsers finds public, active users matching every given filter, most recently updated first.
func (s *UserService) SearchUsers(ctx context.Context, in SearchInput) (users []models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "user_service", "search",
		attribute.Bool("search.has_query", strings.TrimSpace(in.Query) != ""),
		attribute.String("search.skill_type", in.SkillType),
		attribute.String("search.level", in.Level),
	)
	defer func() { observability.EndSpan(span, err) }()

	skillType := strings.ToLower(strings.TrimSpace(in.SkillType))
	if skillType != "" && skillType != "all" && !models.SkillType(skillType).Valid() {
		return nil, models.NewValidationError("skillType must be offered, wanted or all")
	}
	level := strings.ToLower(strings.TrimSpace(in.Level))
	if level != "" && level != "all" && !models.SkillLevel(level).Valid() {
		return nil, models.NewValidationError("level must be beginner, intermediate, expert or all")
	}

	users, err = s.userRepo.Search(ctx, repository.SearchParams{
		Query:              strings.TrimSpace(in.Query),
		Location:           strings.TrimSpace(in.Location),
		SkillType:          skillType,
		Level:              level,
		HideRejectedSkills: s.flags.EnabledGlobally(featureflags.SkillModerationSearch),
		Now:                nowUTC(),
		Limit:              in.Limit,
		Offset:             in.Offset,
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("search.results", len(users)))
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *UserService) ListSkills(ctx context.Context, userID uint) ([]models.Skill, error) {
	return s.skillRepo.ListByUser(ctx, userID)
}

func validateSkillInput(in SkillInput) (SkillInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.ValidateSkillName(in.Name); err != nil {
		return in, models.NewValidationError(err.Error())
	}
	if !in.Level.Valid() {
		return in, models.NewValidationError("level must be beginner, intermediate or expert")
	}
	if !in.Type.Valid() {
		return in, models.NewValidationError("type must be offered or wanted")
	}
	return in, nil
}

func (s *UserService) CreateSkill(ctx context.Context, userID uint, in SkillInput) (*models.Skill, error) {
	in, err := validateSkillInput(in)
	if err != nil {
		return nil, err
	}
	skill := &models.Skill{UserID: userID, Name: in.Name, Level: in.Level, Type: in.Type}
	if err := s.skillRepo.Create(ctx, skill); err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, userID)
	return skill, nil
}

// ownedSkill loads skillID and reports NotFound when userID does not own it.
func (s *UserService) ownedSkill(ctx context.Context, userID, skillID uint) (*models.Skill, error) {
	skill, err := s.skillRepo.GetByID(ctx, skillID)
	if err != nil {
		return nil, err
	}
	if skill.UserID != userID {
		return nil, models.NewNotFoundError("Skill", skillID)
	}
	return skill, nil
}

func (s *UserService) UpdateSkill(ctx context.Context, userID, skillID uint, in SkillInput) (*models.Skill, error) {
	in, err := validateSkillInput(in)
	if err != nil {
		return nil, err
	}
	skill, err := s.ownedSkill(ctx, userID, skillID)
	if err != nil {
		return nil, err
	}
	skill.Name = in.Name
	skill.Level = in.Level
	skill.Type = in.Type
	if err := s.skillRepo.Update(ctx, skill); err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, userID)
	return skill, nil
}

func (s *UserService) DeleteSkill(ctx context.Context, userID, skillID uint) error {
	if _, err := s.ownedSkill(ctx, userID, skillID); err != nil {
		return err
	}
	if err := s.skillRepo.Delete(ctx, skillID); err != nil {
		return err
	}
	cache.InvalidateUser(ctx, userID)
	return nil
}

func (s *UserService) GetAvailability(ctx context.Context, userID uint) ([]models.Availability, error) {
	return s.availRepo.ListByUser(ctx, userID)
}

// SetAvailability replaces the user's weekly slots. Every slot is validated before anything is written.
func (s *UserService) SetAvailability(ctx context.Context, userID uint, slots []SlotInput) ([]models.Availability, error) {
	rows := make([]models.Availability, 0, len(slots))
	for i, slot := range slots {
		if err := validation.ValidateAvailabilitySlot(slot.DayOfWeek, slot.StartTime, slot.EndTime); err != nil {
			return nil, models.NewValidationError(fmt.Sprintf("slot %d: %s", i, err.Error()))
		}
		rows = append(rows, models.Availability{
			DayOfWeek: slot.DayOfWeek,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}

	out, err := s.availRepo.ReplaceForUser(ctx, userID, rows)
	if err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, userID)
	if out == nil {
		out = []models.Availability{}
	}
	return out, nil
}
