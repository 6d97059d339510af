package seed

import (
	"fmt"
	"log"
	"strings"

	"skillswap/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers     int
	SwapsPerUser int
	ShouldClean  bool
	// DryRun logs entities instead of writing them.
	DryRun bool
	// SkipBcrypt stores DemoPassword in clear text. Logins will not work; use it for load tests only.
	SkipBcrypt bool
	MaxDays    int
	// RandSeed makes a run reproducible when non-zero.
	RandSeed int64
}

// Result counts what a seeding run created.
type Result struct {
	Users        int
	Skills       int
	Swaps        int
	Reviews      int
	Availability int
}

// Seeder generates a random but consistent community.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

// NewSeeder returns a Seeder writing to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 50
	}
	if opts.SwapsPerUser < 0 {
		opts.SwapsPerUser = 0
	}
	return &Seeder{db: db, opts: opts, factory: NewFactory(db, opts)}
}

// seededTables lists every application table, children first.
var seededTables = []string{
	"announcements", "skill_moderations", "user_moderations", "reports",
	"reviews", "swap_requests", "availability", "skills", "users",
}

// ClearAll removes all application data.
func (s *Seeder) ClearAll() error {
	if s.opts.DryRun {
		log.Println("[dry-run] skipping cleanup")
		return nil
	}
	log.Println("🗑️  Clearing existing data...")
	if s.db.Dialector.Name() == "postgres" {
		return s.db.Exec("TRUNCATE TABLE " + strings.Join(seededTables, ", ") + " RESTART IDENTITY CASCADE").Error
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, table := range seededTables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// Run creates users with skills and availability, then swap requests between them in
// every status, then reviews for the completed ones.
func (s *Seeder) Run() (*Result, error) {
	res := &Result{}
	f := s.factory

	users := make([]*models.User, 0, s.opts.NumUsers)
	skillsByUser := make(map[uint][]models.Skill, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		skills, err := f.CreateSkillSet(u)
		if err != nil {
			return nil, fmt.Errorf("create skills for user %d: %w", u.ID, err)
		}
		slots, err := f.CreateAvailability(u)
		if err != nil {
			return nil, fmt.Errorf("create availability for user %d: %w", u.ID, err)
		}
		users = append(users, u)
		skillsByUser[u.ID] = skills
		res.Users++
		res.Skills += len(skills)
		res.Availability += len(slots)
	}
	log.Printf("✓ %d users created with %d skills", res.Users, res.Skills)

	if len(users) < 2 {
		return res, nil
	}

	statuses := []models.SwapStatus{
		models.SwapStatusPending, models.SwapStatusAccepted, models.SwapStatusCompleted,
		models.SwapStatusCompleted, models.SwapStatusRejected, models.SwapStatusCancelled,
	}
	for _, requester := range users {
		for j := 0; j < s.opts.SwapsPerUser; j++ {
			receiver := users[f.rng.Intn(len(users))]
			if receiver.ID == requester.ID {
				continue
			}
			status := statuses[f.rng.Intn(len(statuses))]
			offered := pickSkill(f, skillsByUser[requester.ID], models.SkillTypeOffered)
			requested := pickSkill(f, skillsByUser[receiver.ID], models.SkillTypeOffered)

			swap, err := f.CreateSwap(requester, receiver, offered, requested, status)
			if err != nil {
				return nil, fmt.Errorf("create swap: %w", err)
			}
			res.Swaps++

			if status != models.SwapStatusCompleted {
				continue
			}
			for _, reviewer := range []uint{swap.RequesterID, swap.ReceiverID} {
				if f.rng.Intn(4) == 0 {
					continue
				}
				if _, err := f.CreateReview(swap, reviewer, 0); err != nil {
					return nil, fmt.Errorf("create review: %w", err)
				}
				res.Reviews++
			}
		}
	}
	log.Printf("✓ %d swap requests and %d reviews created", res.Swaps, res.Reviews)

	return res, nil
}

func pickSkill(f *Factory, skills []models.Skill, typ models.SkillType) *models.Skill {
	var candidates []models.Skill
	for _, s := range skills {
		if s.Type == typ {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	picked := candidates[f.rng.Intn(len(candidates))]
	return &picked
}
