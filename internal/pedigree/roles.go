package pedigree

import (
	"strings"

	"github.com/wolfeidau/traba/internal/models"
)

// Role names the relation a registered progenitor takes to its target.
type Role string

const (
	RoleMother              Role = "mother"
	RoleFather              Role = "father"
	RoleMaternalGrandmother Role = "maternalGrandmother"
	RoleMaternalGrandfather Role = "maternalGrandfather"
	RolePaternalGrandmother Role = "paternalGrandmother"
	RolePaternalGrandfather Role = "paternalGrandfather"
)

// Roles lists every accepted progenitor role.
var Roles = []Role{
	RoleMother,
	RoleFather,
	RoleMaternalGrandmother,
	RoleMaternalGrandfather,
	RolePaternalGrandmother,
	RolePaternalGrandfather,
}

// ParseRole accepts the camelCase keywords as well as snake_case and
// kebab-case spellings, ignoring case.
func ParseRole(s string) (Role, error) {
	key := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, r := range Roles {
		if strings.ToLower(string(r)) == key {
			return r, nil
		}
	}
	return "", validationf("unknown role %q", s)
}

// Path reduces the role to the side of the family it sits on and the slot
// it fills at its attach point. Parent roles have depth 1 and the side and
// slot are the same; grandparent roles have depth 2.
func (r Role) Path() (side, slot models.ParentRole, depth int) {
	switch r {
	case RoleMother:
		return models.RoleMother, models.RoleMother, 1
	case RoleFather:
		return models.RoleFather, models.RoleFather, 1
	case RoleMaternalGrandmother:
		return models.RoleMother, models.RoleMother, 2
	case RoleMaternalGrandfather:
		return models.RoleMother, models.RoleFather, 2
	case RolePaternalGrandmother:
		return models.RoleFather, models.RoleMother, 2
	case RolePaternalGrandfather:
		return models.RoleFather, models.RoleFather, 2
	}
	return "", "", 0
}

// ParseParentRole parses "mother" or "father".
func ParseParentRole(s string) (models.ParentRole, error) {
	role := models.ParentRole(strings.ToLower(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", validationf("unknown parent role %q", s)
	}
	return role, nil
}

// placeholderSuffix is appended to the target's tag to name a synthesized
// mother or father.
func placeholderSuffix(side models.ParentRole) string {
	if side == models.RoleMother {
		return "-M?"
	}
	return "-P?"
}
