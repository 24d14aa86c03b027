package author

import (
	"time"

	"github.com/google/uuid"

	"courselibrary-backend/internal/domains/course"
)

const (
	MaxNameLength         = 50
	MaxMainCategoryLength = 50
)

// Author is the stored entity. Courses are owned: deleting an author deletes them.
type Author struct {
	ID           uuid.UUID  `json:"id" yaml:"id"`
	FirstName    string     `json:"firstName" yaml:"firstName"`
	LastName     string     `json:"lastName" yaml:"lastName"`
	DateOfBirth  time.Time  `json:"dateOfBirth" yaml:"dateOfBirth"`
	DateOfDeath  *time.Time `json:"dateOfDeath,omitempty" yaml:"dateOfDeath,omitempty"`
	MainCategory string     `json:"mainCategory" yaml:"mainCategory"`

	Courses []course.Course `json:"courses,omitempty" yaml:"courses,omitempty"`
}

func (a Author) Name() string {
	return a.FirstName + " " + a.LastName
}

// Age in whole years, measured up to the date of death when there is one.
func (a Author) Age(now time.Time) int {
	to := now.UTC()
	if a.DateOfDeath != nil {
		to = a.DateOfDeath.UTC()
	}
	return CurrentAge(a.DateOfBirth, to)
}

func CurrentAge(dateOfBirth, to time.Time) int {
	dob := dateOfBirth.UTC()
	to = to.UTC()
	age := to.Year() - dob.Year()
	if to.Before(anniversary(dob, to.Year())) {
		age--
	}
	return age
}

// anniversary moves dob into year. Feb 29 becomes Feb 28 in common years
// rather than rolling over into March.
func anniversary(dob time.Time, year int) time.Time {
	day := dob.Day()
	if last := time.Date(year, dob.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day(); day > last {
		day = last
	}
	return time.Date(year, dob.Month(), day, dob.Hour(), dob.Minute(), dob.Second(), dob.Nanosecond(), time.UTC)
}
