package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"
	"skillswap/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// SwapService owns the swap request lifecycle.
type SwapService struct {
	swapRepo  repository.SwapRequestRepository
	userRepo  repository.UserRepository
	skillRepo repository.SkillRepository
}

type CreateSwapInput struct {
	RequesterID      uint
	ReceiverID       uint
	OfferedSkillID   *uint
	RequestedSkillID *uint
	Message          string
	ProposedTime     *time.Time
}

func NewSwapService(
	swapRepo repository.SwapRequestRepository,
	userRepo repository.UserRepository,
	skillRepo repository.SkillRepository,
) *SwapService {
	return &SwapService{
		swapRepo:  swapRepo,
		userRepo:  userRepo,
		skillRepo: skillRepo,
	}
}

// Create validates the participants and skills and stores a pending request.
func (s *SwapService) Create(ctx context.Context, in CreateSwapInput) (req *models.SwapRequest, err error) {
	ctx, span := observability.StartSpan(ctx, "swap_service", "create",
		attribute.Int64("swap.requester_id", int64(in.RequesterID)),
		attribute.Int64("swap.receiver_id", int64(in.ReceiverID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if in.ReceiverID == 0 {
		return nil, models.NewValidationError("receiver_id is required")
	}
	if in.RequesterID == in.ReceiverID {
		return nil, models.NewValidationError("You cannot send a swap request to yourself")
	}
	if err := validation.ValidateMaxLength("message", in.Message, validation.MaxMessageLength); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if _, err := s.userRepo.GetByID(ctx, in.ReceiverID); err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, models.NewValidationError("Receiver not found")
		}
		return nil, err
	}
	if err := s.checkSkillOwner(ctx, in.OfferedSkillID, in.RequesterID, "offered"); err != nil {
		return nil, err
	}
	if err := s.checkSkillOwner(ctx, in.RequestedSkillID, in.ReceiverID, "requested"); err != nil {
		return nil, err
	}

	var proposed *time.Time
	if in.ProposedTime != nil {
		t := in.ProposedTime.UTC()
		proposed = &t
	}

	req = &models.SwapRequest{
		RequesterID:      in.RequesterID,
		ReceiverID:       in.ReceiverID,
		OfferedSkillID:   in.OfferedSkillID,
		RequestedSkillID: in.RequestedSkillID,
		Message:          in.Message,
		Status:           models.SwapStatusPending,
		ProposedTime:     proposed,
	}
	if err := s.swapRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	observability.SwapRequestsCreated.Inc()

	return s.swapRepo.GetDetail(ctx, req.ID)
}

func (s *SwapService) checkSkillOwner(ctx context.Context, skillID *uint, ownerID uint, which string) error {
	if skillID == nil {
		return nil
	}
	skill, err := s.skillRepo.GetByID(ctx, *skillID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return models.NewValidationError(fmt.Sprintf("The %s skill does not exist", which))
		}
		return err
	}
	if skill.UserID != ownerID {
		switch which {
		case "offered":
			return models.NewValidationError("The offered skill must belong to you")
		default:
			return models.NewValidationError("The requested skill must belong to the receiver")
		}
	}
	return nil
}

// UpdateStatus applies a lifecycle transition on behalf of actorID.
// Non-participants get NotFound so request IDs do not leak.
func (s *SwapService) UpdateStatus(ctx context.Context, requestID uint, status models.SwapStatus, actorID uint) (updated *models.SwapRequest, err error) {
	ctx, span := observability.StartSpan(ctx, "swap_service", "update_status",
		attribute.Int64("swap.id", int64(requestID)),
		attribute.String("swap.to", string(status)),
	)
	defer func() { observability.EndSpan(span, err) }()

	req, err := s.swapRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	role := req.RoleOf(actorID)
	if role == models.SwapRoleNone {
		return nil, models.NewNotFoundError("Swap request", requestID)
	}
	if !status.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("Unknown status %q", status))
	}

	allowed, permitted := models.CanTransition(req.Status, status, role)
	if !allowed {
		return nil, models.NewValidationError(fmt.Sprintf("Cannot change a %s request to %s", req.Status, status))
	}
	if !permitted {
		return nil, models.NewForbiddenError(fmt.Sprintf("Only the receiver can mark a request %s", status))
	}

	ok, err := s.swapRepo.UpdateStatusIfCurrent(ctx, requestID, req.Status, status, nowUTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewConflictError("The request was changed by someone else; reload and try again")
	}

	observability.SwapTransitions.WithLabelValues(string(req.Status), string(status)).Inc()
	middleware.Logger.InfoContext(ctx, "swap request status changed",
		slog.Uint64("swap_id", uint64(requestID)),
		slog.String("from", string(req.Status)),
		slog.String("to", string(status)),
		slog.Uint64("actor_id", uint64(actorID)),
	)

	return s.swapRepo.GetDetail(ctx, requestID)
}

func (s *SwapService) ListForUser(ctx context.Context, userID uint) ([]models.SwapRequest, error) {
	reqs, err := s.swapRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []models.SwapRequest{}
	}
	return reqs, nil
}

// Get returns the detail view to participants and admins.
func (s *SwapService) Get(ctx context.Context, requestID, userID uint, isAdmin bool) (*models.SwapRequest, error) {
	req, err := s.swapRepo.GetDetail(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && req.RoleOf(userID) == models.SwapRoleNone {
		return nil, models.NewNotFoundError("Swap request", requestID)
	}
	return req, nil
}

func (s *SwapService) ListAll(ctx context.Context, limit, offset int) ([]models.SwapRequest, error) {
	return s.swapRepo.ListAll(ctx, limit, offset)
}
