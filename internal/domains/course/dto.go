package course

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ========================================
// RESPONSE DTOs
// ========================================

type CourseDto struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AuthorID    uuid.UUID `json:"authorId"`
}

func ToDto(c Course) CourseDto {
	return CourseDto{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		AuthorID:    c.AuthorID,
	}
}

func ToDtos(courses []Course) []CourseDto {
	out := make([]CourseDto, len(courses))
	for i, c := range courses {
		out[i] = ToDto(c)
	}
	return out
}

// ========================================
// REQUEST DTOs
// ========================================

// CourseForCreation - POST /api/authors/:authorId/courses, also nested in author creation
type CourseForCreation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r CourseForCreation) Validate() error {
	return validateManipulation(r.Title, r.Description, false)
}

func (r CourseForCreation) ToEntity() Course {
	return Course{Title: r.Title, Description: r.Description}
}

// CourseForUpdate - PUT and PATCH /api/authors/:authorId/courses/:courseId
// Unlike creation, the description is mandatory.
type CourseForUpdate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r CourseForUpdate) Validate() error {
	return validateManipulation(r.Title, r.Description, true)
}

func (r CourseForUpdate) ToEntity() Course {
	return Course{Title: r.Title, Description: r.Description}
}

// ApplyTo copies the updatable fields onto an existing course.
func (r CourseForUpdate) ApplyTo(c *Course) {
	c.Title = r.Title
	c.Description = r.Description
}

// ForUpdate is the patchable view of an existing course.
func ForUpdate(c Course) CourseForUpdate {
	return CourseForUpdate{Title: c.Title, Description: c.Description}
}

// ========================================
// VALIDATION
// ========================================

// ErrTitleEqualsDescription is reported under the "course" key since it spans
// two fields, and only when the fields are otherwise valid.
var ErrTitleEqualsDescription = validation.NewError(
	"validation_course_title_equals_description",
	"The provided description should be different from the title.",
)

type manipulation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func validateManipulation(title, description string, descriptionRequired bool) error {
	m := manipulation{Title: title, Description: description}

	errs := validation.Errors{}
	err := validation.ValidateStruct(&m,
		validation.Field(&m.Title,
			validation.Required.Error("You should fill out a title."),
			validation.RuneLength(0, MaxTitleLength).Error("The title shouldn't have more than 100 characters."),
		),
		validation.Field(&m.Description,
			validation.When(descriptionRequired,
				validation.Required.Error("You should fill out a description."),
			),
			validation.RuneLength(0, MaxDescriptionLength).Error("The description shouldn't have more than 1500 characters."),
		),
	)
	if err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}

	// the cross-field rule only runs once every field rule passed
	if len(errs) == 0 && m.Title == m.Description {
		errs["course"] = ErrTitleEqualsDescription
	}

	return errs.Filter()
}
