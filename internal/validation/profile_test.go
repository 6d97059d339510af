package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAvailabilitySlot(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		day     int
		start   string
		end     string
		wantErr bool
	}{
		{"Valid Morning", 1, "09:00", "12:00", false},
		{"Sunday", 0, "00:00", "23:59", false},
		{"Saturday", 6, "18:30", "20:00", false},
		{"Day Too Low", -1, "09:00", "10:00", true},
		{"Day Too High", 7, "09:00", "10:00", true},
		{"Start Equals End", 2, "10:00", "10:00", true},
		{"Start After End", 2, "11:00", "10:00", true},
		{"Bad Hour", 2, "24:00", "24:30", true},
		{"Missing Leading Zero", 2, "9:00", "10:00", true},
		{"Garbage", 2, "morning", "10:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAvailabilitySlot(tt.day, tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()
	m, err := ParseClock("13:45")
	assert.NoError(t, err)
	assert.Equal(t, 13*60+45, m)
}

func TestValidateSkillName(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateSkillName("Guitar"))
	assert.NoError(t, ValidateSkillName(strings.Repeat("a", MaxSkillNameLength)))
	assert.Error(t, ValidateSkillName("   "))
	assert.Error(t, ValidateSkillName(strings.Repeat("a", MaxSkillNameLength+1)))
}

func TestValidateMaxLengthCountsRunes(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateMaxLength("bio", strings.Repeat("é", MaxBioLength), MaxBioLength))
	assert.Error(t, ValidateMaxLength("bio", strings.Repeat("é", MaxBioLength+1), MaxBioLength))
	assert.Error(t, ValidateName("first name", ""))
}
