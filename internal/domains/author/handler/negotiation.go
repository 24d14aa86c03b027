package handler

import (
	"courselibrary-backend/internal/shared/mediatype"
)

// Representation is what GET /api/authors/:authorId returns for an Accept value.
type Representation struct {
	Full  bool
	Links bool
}

// Representations is the Accept dispatch table of GetAuthor. The first entry
// answers a missing Accept header or */*.
var Representations = mediatype.NewTable[Representation]().
	Add(Representation{}, mediatype.JSON, mediatype.AuthorFriendly).
	Add(Representation{Links: true}, mediatype.Hateoas, mediatype.AuthorFriendlyHateoas).
	Add(Representation{Full: true}, mediatype.AuthorFull).
	Add(Representation{Full: true, Links: true}, mediatype.AuthorFullHateoas)

// CreationInput selects the request body of CreateAuthor.
type CreationInput int

const (
	WithoutDateOfDeath CreationInput = iota
	WithDateOfDeath
)

// CreationInputs is the Content-Type dispatch table of CreateAuthor.
var CreationInputs = mediatype.NewTable[CreationInput]().
	Add(WithoutDateOfDeath, mediatype.JSON, mediatype.AuthorForCreation).
	Add(WithDateOfDeath, mediatype.AuthorForCreationWithDateDeath)
