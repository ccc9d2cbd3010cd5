package models

import (
	"path"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// KnownBreeds are the breeds offered when registering an individual.
// Breed is an open string so values outside this list are still accepted.
var KnownBreeds = []string{
	"Hatch",
	"Sweater",
	"Kelso",
	"Grey",
	"Albany",
	"Radio",
	"Asil (Aseel)",
	"Shamo",
	"Spanish",
	"Peruvian",
}

// Appearances is the fixed set of appearance categories.
var Appearances = []string{
	"Crestarosa",
	"Cocolo",
	"Tuceperne",
	"Pava",
	"Moton",
}

// PhotoExtensions lists the accepted photo reference extensions.
var PhotoExtensions = []string{"png", "jpg", "jpeg", "gif"}

// Placeholder attribute values used for synthesized ancestors.
const (
	UnknownBreed = "Unknown"
	UnknownColor = "Unknown"
)

// Individual is one recorded animal owned by a tenant.
type Individual struct {
	IndividualID  uuid.UUID // UUIDv7
	TenantID      uuid.UUID // Owning tenant, immutable after creation
	Tag           string    // Primary tag, required but not unique
	SecondaryTag  string    // Optional regional tag
	Name          string
	Breed         string
	Color         string
	Appearance    string
	FightRecord   string
	PhotoRef      string
	SyntheticCode string // Unique per individual
	Placeholder   bool   // Synthesized to bridge a gap in the ancestry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary returns the compact view used for listings and offspring.
func (i *Individual) Summary() IndividualSummary {
	return IndividualSummary{
		IndividualID:  i.IndividualID,
		Tag:           i.Tag,
		SecondaryTag:  i.SecondaryTag,
		Name:          i.Name,
		Breed:         i.Breed,
		SyntheticCode: i.SyntheticCode,
		Placeholder:   i.Placeholder,
	}
}

// Matches reports whether the query matches the tag, secondary tag, name or
// synthetic code, ignoring case. An empty query matches everything.
func (i *Individual) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{i.Tag, i.SecondaryTag, i.Name, i.SyntheticCode} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// IndividualSummary is a lightweight projection of an Individual.
type IndividualSummary struct {
	IndividualID  uuid.UUID
	Tag           string
	SecondaryTag  string
	Name          string
	Breed         string
	SyntheticCode string
	Placeholder   bool
}

// ValidAppearance reports whether the value is one of Appearances.
func ValidAppearance(appearance string) bool {
	return slices.Contains(Appearances, appearance)
}

// ValidPhotoRef reports whether a photo reference has an accepted extension.
// An empty reference is valid.
func ValidPhotoRef(ref string) bool {
	if ref == "" {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(ref)), ".")
	return slices.Contains(PhotoExtensions, ext)
}
