// Package seed provides helpers to create demo data for the SkillSwap database.
// These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"skillswap/internal/models"
	"skillswap/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every generated user.
const DemoPassword = "Sw4p-Demo-Pass!"

// SkillCatalog is the pool generated skills are drawn from.
var SkillCatalog = []string{
	"Guitar", "Piano", "Spanish", "French", "Japanese", "Sourdough baking", "Photography",
	"Watercolor", "Go programming", "Python", "SQL", "Public speaking", "Yoga", "Chess",
	"Pottery", "Knitting", "Bike repair", "Gardening", "Video editing", "Calligraphy",
	"Salsa dancing", "Rock climbing", "Excel", "Woodworking", "Sewing", "Singing",
}

var (
	skillLevels = []models.SkillLevel{models.SkillLevelBeginner, models.SkillLevelIntermediate, models.SkillLevelExpert}
	slotStarts  = []string{"08:00", "09:30", "12:00", "17:00", "18:30", "20:00"}
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
	// bcrypt is slow; every generated user shares one hash
	passwordHash string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gofakeit.Seed(seed)
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(seed)), nextID: 1000}
}

func (f *Factory) hashedPassword() (string, error) {
	if f.opts.SkipBcrypt {
		return DemoPassword, nil
	}
	if f.passwordHash == "" {
		h, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		f.passwordHash = string(h)
	}
	return f.passwordHash, nil
}

// createdAt returns a timestamp spread over the last MaxDays days.
func (f *Factory) createdAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour + time.Duration(f.rng.Intn(24*60))*time.Minute
	return time.Now().UTC().Add(-back)
}

func (f *Factory) persist(v any, id *uint) error {
	if f.opts.DryRun {
		f.nextID++
		*id = f.nextID
		log.Printf("[dry-run] create %T: %+v", v, v)
		return nil
	}
	return f.db.Create(v).Error
}

// CreateUser constructs and persists a sample user.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	password, err := f.hashedPassword()
	if err != nil {
		return nil, err
	}

	first, last := gofakeit.FirstName(), gofakeit.LastName()
	lastActive := f.createdAt()
	user := &models.User{
		Email:           fmt.Sprintf("%s.%s.%d@example.com", first, last, gofakeit.Number(100, 99999)),
		Password:        password,
		FirstName:       first,
		LastName:        last,
		Bio:             gofakeit.Sentence(12),
		Location:        gofakeit.City(),
		ProfileImageURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		IsPublic:        f.rng.Intn(10) > 0,
		LastActiveAt:    &lastActive,
		CreatedAt:       lastActive,
	}

	for _, override := range overrides {
		override(user)
	}
	user.Email = validation.NormalizeEmail(user.Email)

	if err := f.persist(user, &user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSkill persists a skill for user. An empty name picks one from SkillCatalog.
func (f *Factory) CreateSkill(user *models.User, name string, typ models.SkillType, level models.SkillLevel) (*models.Skill, error) {
	if name == "" {
		name = SkillCatalog[f.rng.Intn(len(SkillCatalog))]
	}
	if level == "" {
		level = skillLevels[f.rng.Intn(len(skillLevels))]
	}
	skill := &models.Skill{UserID: user.ID, Name: name, Type: typ, Level: level}
	if err := f.persist(skill, &skill.ID); err != nil {
		return nil, err
	}
	return skill, nil
}

// CreateSkillSet gives user a few distinct offered and wanted skills.
func (f *Factory) CreateSkillSet(user *models.User) ([]models.Skill, error) {
	picks := f.rng.Perm(len(SkillCatalog))
	offered := 1 + f.rng.Intn(3)
	wanted := 1 + f.rng.Intn(2)

	skills := make([]models.Skill, 0, offered+wanted)
	for i := 0; i < offered+wanted; i++ {
		typ := models.SkillTypeOffered
		if i >= offered {
			typ = models.SkillTypeWanted
		}
		s, err := f.CreateSkill(user, SkillCatalog[picks[i]], typ, "")
		if err != nil {
			return nil, err
		}
		skills = append(skills, *s)
	}
	return skills, nil
}

// CreateAvailability persists one or two weekly slots for user.
func (f *Factory) CreateAvailability(user *models.User) ([]models.Availability, error) {
	n := 1 + f.rng.Intn(2)
	days := f.rng.Perm(7)
	slots := make([]models.Availability, 0, n)
	for i := 0; i < n; i++ {
		start := slotStarts[f.rng.Intn(len(slotStarts))]
		startAt, _ := time.Parse("15:04", start)
		slot := &models.Availability{
			UserID:    user.ID,
			DayOfWeek: days[i],
			StartTime: start,
			EndTime:   startAt.Add(90 * time.Minute).Format("15:04"),
		}
		if err := f.persist(slot, &slot.ID); err != nil {
			return nil, err
		}
		slots = append(slots, *slot)
	}
	return slots, nil
}

// CreateSwap persists a swap request between two users in the given status.
func (f *Factory) CreateSwap(requester, receiver *models.User, offered, requested *models.Skill, status models.SwapStatus) (*models.SwapRequest, error) {
	created := f.createdAt()
	swap := &models.SwapRequest{
		RequesterID: requester.ID,
		ReceiverID:  receiver.ID,
		Message:     gofakeit.Sentence(10),
		Status:      status,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	if offered != nil {
		swap.OfferedSkillID = &offered.ID
	}
	if requested != nil {
		swap.RequestedSkillID = &requested.ID
	}
	if f.rng.Intn(2) == 0 {
		proposed := created.Add(time.Duration(1+f.rng.Intn(14)) * 24 * time.Hour).Truncate(time.Hour)
		swap.ProposedTime = &proposed
	}
	if err := f.persist(swap, &swap.ID); err != nil {
		return nil, err
	}
	return swap, nil
}

// CreateReview persists a review of the other participant of a completed swap.
func (f *Factory) CreateReview(swap *models.SwapRequest, reviewerID uint, rating int) (*models.Review, error) {
	if swap.Status != models.SwapStatusCompleted {
		return nil, fmt.Errorf("swap %d is %s, only completed swaps can be reviewed", swap.ID, swap.Status)
	}
	reviewee := swap.Counterpart(reviewerID)
	if reviewee == 0 {
		return nil, fmt.Errorf("user %d is not a participant of swap %d", reviewerID, swap.ID)
	}
	if rating == 0 {
		rating = 3 + f.rng.Intn(3)
	}
	review := &models.Review{
		SwapRequestID: swap.ID,
		ReviewerID:    reviewerID,
		RevieweeID:    reviewee,
		Rating:        rating,
		Comment:       gofakeit.Sentence(8),
	}
	if err := f.persist(review, &review.ID); err != nil {
		return nil, err
	}
	return review, nil
}

// CreateAnnouncement persists an active info announcement by admin.
func (f *Factory) CreateAnnouncement(admin *models.User, overrides ...func(*models.Announcement)) (*models.Announcement, error) {
	a := &models.Announcement{
		Title:       gofakeit.Sentence(4),
		Message:     gofakeit.Paragraph(1, 2, 12, " "),
		Type:        models.AnnouncementInfo,
		IsActive:    true,
		CreatedByID: admin.ID,
	}
	for _, override := range overrides {
		override(a)
	}
	if err := f.persist(a, &a.ID); err != nil {
		return nil, err
	}
	return a, nil
}
