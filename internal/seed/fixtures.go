package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"skillswap/internal/models"
	"skillswap/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed fixtures/demo.yml
var demoFixture []byte

// Fixture is a hand-written data set, loaded from YAML.
type Fixture struct {
	Users         []FixtureUser         `yaml:"users"`
	Swaps         []FixtureSwap         `yaml:"swaps"`
	Announcements []FixtureAnnouncement `yaml:"announcements"`
}

type FixtureUser struct {
	Email        string         `yaml:"email"`
	Password     string         `yaml:"password"`
	FirstName    string         `yaml:"first_name"`
	LastName     string         `yaml:"last_name"`
	Bio          string         `yaml:"bio"`
	Location     string         `yaml:"location"`
	Public       *bool          `yaml:"public"`
	Admin        bool           `yaml:"admin"`
	Skills       []FixtureSkill `yaml:"skills"`
	Availability []FixtureSlot  `yaml:"availability"`
}

type FixtureSkill struct {
	Name  string            `yaml:"name"`
	Type  models.SkillType  `yaml:"type"`
	Level models.SkillLevel `yaml:"level"`
}

type FixtureSlot struct {
	Day   int    `yaml:"day"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// FixtureSwap references users by email and skills by name.
type FixtureSwap struct {
	Requester      string            `yaml:"requester"`
	Receiver       string            `yaml:"receiver"`
	OfferedSkill   string            `yaml:"offered_skill"`
	RequestedSkill string            `yaml:"requested_skill"`
	Message        string            `yaml:"message"`
	Status         models.SwapStatus `yaml:"status"`
	Reviews        []FixtureReview   `yaml:"reviews"`
}

type FixtureReview struct {
	By      string `yaml:"by"`
	Rating  int    `yaml:"rating"`
	Comment string `yaml:"comment"`
}

type FixtureAnnouncement struct {
	Title   string                  `yaml:"title"`
	Message string                  `yaml:"message"`
	Type    models.AnnouncementType `yaml:"type"`
}

// DemoFixture returns the built-in demo data set.
func DemoFixture() (*Fixture, error) {
	return ParseFixture(demoFixture)
}

// LoadFixture reads and validates a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes YAML and validates every entry. Unknown keys are rejected.
func ParseFixture(data []byte) (*Fixture, error) {
	var fx Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// Validate checks the fixture is self-consistent before anything is written.
func (fx *Fixture) Validate() error {
	var errs []error
	skillsByEmail := make(map[string]map[string]bool, len(fx.Users))

	for i := range fx.Users {
		u := &fx.Users[i]
		u.Email = validation.NormalizeEmail(u.Email)
		if err := validation.ValidateEmail(u.Email); err != nil {
			errs = append(errs, fmt.Errorf("users[%d]: %w", i, err))
			continue
		}
		if _, dup := skillsByEmail[u.Email]; dup {
			errs = append(errs, fmt.Errorf("users[%d]: duplicate email %s", i, u.Email))
			continue
		}
		names := make(map[string]bool, len(u.Skills))
		for j, s := range u.Skills {
			if err := validation.ValidateSkillName(s.Name); err != nil {
				errs = append(errs, fmt.Errorf("users[%d].skills[%d]: %w", i, j, err))
			}
			if !s.Type.Valid() {
				errs = append(errs, fmt.Errorf("users[%d].skills[%d]: invalid type %q", i, j, s.Type))
			}
			if !s.Level.Valid() {
				errs = append(errs, fmt.Errorf("users[%d].skills[%d]: invalid level %q", i, j, s.Level))
			}
			names[strings.TrimSpace(s.Name)] = true
		}
		for j, slot := range u.Availability {
			if err := validation.ValidateAvailabilitySlot(slot.Day, slot.Start, slot.End); err != nil {
				errs = append(errs, fmt.Errorf("users[%d].availability[%d]: %w", i, j, err))
			}
		}
		skillsByEmail[u.Email] = names
	}

	for i := range fx.Swaps {
		sw := &fx.Swaps[i]
		sw.Requester = validation.NormalizeEmail(sw.Requester)
		sw.Receiver = validation.NormalizeEmail(sw.Receiver)
		sw.OfferedSkill = strings.TrimSpace(sw.OfferedSkill)
		sw.RequestedSkill = strings.TrimSpace(sw.RequestedSkill)
		reqSkills, okReq := skillsByEmail[sw.Requester]
		recSkills, okRec := skillsByEmail[sw.Receiver]
		if !okReq || !okRec {
			errs = append(errs, fmt.Errorf("swaps[%d]: unknown requester or receiver", i))
			continue
		}
		if sw.Requester == sw.Receiver {
			errs = append(errs, fmt.Errorf("swaps[%d]: requester and receiver are the same user", i))
		}
		if sw.Status == "" {
			sw.Status = models.SwapStatusPending
		}
		if !sw.Status.Valid() {
			errs = append(errs, fmt.Errorf("swaps[%d]: invalid status %q", i, sw.Status))
		}
		if sw.OfferedSkill != "" && !reqSkills[sw.OfferedSkill] {
			errs = append(errs, fmt.Errorf("swaps[%d]: %s has no skill %q", i, sw.Requester, sw.OfferedSkill))
		}
		if sw.RequestedSkill != "" && !recSkills[sw.RequestedSkill] {
			errs = append(errs, fmt.Errorf("swaps[%d]: %s has no skill %q", i, sw.Receiver, sw.RequestedSkill))
		}
		if len(sw.Reviews) > 0 && sw.Status != models.SwapStatusCompleted {
			errs = append(errs, fmt.Errorf("swaps[%d]: only completed swaps can have reviews", i))
		}
		seen := map[string]bool{}
		for j := range sw.Reviews {
			r := &sw.Reviews[j]
			r.By = validation.NormalizeEmail(r.By)
			if r.By != sw.Requester && r.By != sw.Receiver {
				errs = append(errs, fmt.Errorf("swaps[%d].reviews[%d]: %s is not a participant", i, j, r.By))
			}
			if seen[r.By] {
				errs = append(errs, fmt.Errorf("swaps[%d].reviews[%d]: %s already reviewed this swap", i, j, r.By))
			}
			seen[r.By] = true
			if r.Rating < 1 || r.Rating > 5 {
				errs = append(errs, fmt.Errorf("swaps[%d].reviews[%d]: rating must be 1-5", i, j))
			}
		}
	}

	for i := range fx.Announcements {
		a := &fx.Announcements[i]
		if a.Type == "" {
			a.Type = models.AnnouncementInfo
		}
		if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Message) == "" {
			errs = append(errs, fmt.Errorf("announcements[%d]: title and message are required", i))
		}
		if !a.Type.Valid() {
			errs = append(errs, fmt.Errorf("announcements[%d]: invalid type %q", i, a.Type))
		}
	}
	if len(fx.Announcements) > 0 && !fx.hasAdmin() {
		errs = append(errs, errors.New("announcements need at least one admin user"))
	}

	return errors.Join(errs...)
}

func (fx *Fixture) hasAdmin() bool {
	for _, u := range fx.Users {
		if u.Admin {
			return true
		}
	}
	return false
}

// ApplyFixture writes fx in a single transaction. Users without a password get DemoPassword.
func ApplyFixture(db *gorm.DB, fx *Fixture) (*Result, error) {
	res := &Result{}
	err := db.Transaction(func(tx *gorm.DB) error {
		demoHash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		users := make(map[string]*models.User, len(fx.Users))
		skills := make(map[string]map[string]uint, len(fx.Users))
		var adminID uint

		for _, fu := range fx.Users {
			hash := string(demoHash)
			if fu.Password != "" {
				h, err := bcrypt.GenerateFromPassword([]byte(fu.Password), bcrypt.DefaultCost)
				if err != nil {
					return err
				}
				hash = string(h)
			}
			u := &models.User{
				Email:     fu.Email,
				Password:  hash,
				FirstName: fu.FirstName,
				LastName:  fu.LastName,
				Bio:       fu.Bio,
				Location:  fu.Location,
				IsPublic:  fu.Public == nil || *fu.Public,
				IsAdmin:   fu.Admin,
			}
			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("create user %s: %w", fu.Email, err)
			}
			users[u.Email] = u
			res.Users++
			if u.IsAdmin && adminID == 0 {
				adminID = u.ID
			}

			skills[u.Email] = make(map[string]uint, len(fu.Skills))
			for _, fs := range fu.Skills {
				s := &models.Skill{UserID: u.ID, Name: strings.TrimSpace(fs.Name), Type: fs.Type, Level: fs.Level}
				if err := tx.Create(s).Error; err != nil {
					return fmt.Errorf("create skill %q for %s: %w", fs.Name, fu.Email, err)
				}
				skills[u.Email][s.Name] = s.ID
				res.Skills++
			}
			for _, slot := range fu.Availability {
				a := &models.Availability{UserID: u.ID, DayOfWeek: slot.Day, StartTime: slot.Start, EndTime: slot.End}
				if err := tx.Create(a).Error; err != nil {
					return fmt.Errorf("create availability for %s: %w", fu.Email, err)
				}
				res.Availability++
			}
		}

		for _, fs := range fx.Swaps {
			swap := &models.SwapRequest{
				RequesterID: users[fs.Requester].ID,
				ReceiverID:  users[fs.Receiver].ID,
				Message:     strings.TrimSpace(fs.Message),
				Status:      fs.Status,
			}
			if id, ok := skills[fs.Requester][fs.OfferedSkill]; ok {
				swap.OfferedSkillID = &id
			}
			if id, ok := skills[fs.Receiver][fs.RequestedSkill]; ok {
				swap.RequestedSkillID = &id
			}
			if err := tx.Create(swap).Error; err != nil {
				return fmt.Errorf("create swap %s -> %s: %w", fs.Requester, fs.Receiver, err)
			}
			res.Swaps++

			for _, fr := range fs.Reviews {
				reviewer := users[fr.By].ID
				review := &models.Review{
					SwapRequestID: swap.ID,
					ReviewerID:    reviewer,
					RevieweeID:    swap.Counterpart(reviewer),
					Rating:        fr.Rating,
					Comment:       strings.TrimSpace(fr.Comment),
				}
				if err := tx.Create(review).Error; err != nil {
					return fmt.Errorf("create review by %s: %w", fr.By, err)
				}
				res.Reviews++
			}
		}

		for _, fa := range fx.Announcements {
			a := &models.Announcement{
				Title:       strings.TrimSpace(fa.Title),
				Message:     strings.TrimSpace(fa.Message),
				Type:        fa.Type,
				IsActive:    true,
				CreatedByID: adminID,
			}
			if err := tx.Create(a).Error; err != nil {
				return fmt.Errorf("create announcement %q: %w", fa.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
