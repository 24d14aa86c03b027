package author

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"courselibrary-backend/internal/domains/course"
)

// ========================================
// RESPONSE DTOs
// ========================================

// AuthorDto is the friendly representation.
type AuthorDto struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	MainCategory string    `json:"mainCategory"`
}

// AuthorFullDto exposes the stored fields as they are.
type AuthorFullDto struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	DateOfBirth  time.Time `json:"dateOfBirth"`
	MainCategory string    `json:"mainCategory"`
}

func ToDto(a Author, now time.Time) AuthorDto {
	return AuthorDto{
		ID:           a.ID,
		Name:         a.Name(),
		Age:          a.Age(now),
		MainCategory: a.MainCategory,
	}
}

func ToDtos(authors []Author, now time.Time) []AuthorDto {
	out := make([]AuthorDto, len(authors))
	for i, a := range authors {
		out[i] = ToDto(a, now)
	}
	return out
}

func ToFullDto(a Author) AuthorFullDto {
	return AuthorFullDto{
		ID:           a.ID,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		DateOfBirth:  a.DateOfBirth,
		MainCategory: a.MainCategory,
	}
}

// ========================================
// REQUEST DTOs
// ========================================

// AuthorForCreation - POST /api/authors (application/json or
// application/vnd.marvin.authorforcreation+json), also the element of
// POST /api/authorcollections
type AuthorForCreation struct {
	FirstName    string                     `json:"firstName"`
	LastName     string                     `json:"lastName"`
	DateOfBirth  time.Time                  `json:"dateOfBirth"`
	MainCategory string                     `json:"mainCategory"`
	Courses      []course.CourseForCreation `json:"courses"`
}

func (r AuthorForCreation) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName,
			validation.Required,
			validation.RuneLength(0, MaxNameLength),
		),
		validation.Field(&r.LastName,
			validation.Required,
			validation.RuneLength(0, MaxNameLength),
		),
		validation.Field(&r.DateOfBirth,
			validation.Required,
		),
		validation.Field(&r.MainCategory,
			validation.Required,
			validation.RuneLength(0, MaxMainCategoryLength),
		),
		validation.Field(&r.Courses),
	)
}

func (r AuthorForCreation) ToEntity() Author {
	a := Author{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		DateOfBirth:  r.DateOfBirth,
		MainCategory: r.MainCategory,
	}
	for _, c := range r.Courses {
		a.Courses = append(a.Courses, c.ToEntity())
	}
	return a
}

// AuthorForCreationWithDateOfDeath - POST /api/authors with
// application/vnd.marvin.authorforcreationwithdateofdeath+json
type AuthorForCreationWithDateOfDeath struct {
	AuthorForCreation
	DateOfDeath *time.Time `json:"dateOfDeath"`
}

// ErrDeathBeforeBirth is reported under "dateOfDeath".
var ErrDeathBeforeBirth = validation.NewError(
	"validation_author_death_before_birth",
	"The date of death can't be before the date of birth.",
)

func (r AuthorForCreationWithDateOfDeath) Validate() error {
	errs := validation.Errors{}
	if err := r.AuthorForCreation.Validate(); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}

	if r.DateOfDeath != nil && !r.DateOfBirth.IsZero() && r.DateOfDeath.Before(r.DateOfBirth) {
		errs["dateOfDeath"] = ErrDeathBeforeBirth
	}

	return errs.Filter()
}

func (r AuthorForCreationWithDateOfDeath) ToEntity() Author {
	a := r.AuthorForCreation.ToEntity()
	a.DateOfDeath = r.DateOfDeath
	return a
}

// ErrEmptyCollection is reported when a collection request holds no author.
var ErrEmptyCollection = validation.NewError(
	"validation_authors_empty",
	"At least one author should be provided.",
)

// ValidateCollection validates every element and keys errors by index.
func ValidateCollection(reqs []AuthorForCreation) error {
	if len(reqs) == 0 {
		return validation.Errors{"authors": ErrEmptyCollection}
	}
	return validation.Validate(reqs)
}
