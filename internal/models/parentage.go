package models

import (
	"time"

	"github.com/google/uuid"
)

// ParentRole identifies which parent slot of a parentage row is addressed.
type ParentRole string

const (
	RoleMother ParentRole = "mother"
	RoleFather ParentRole = "father"
)

// Valid reports whether the role is mother or father.
func (r ParentRole) Valid() bool {
	return r == RoleMother || r == RoleFather
}

// Parentage is the single parentage row of a subject individual.
// Mother and father are independent optional references; a subject without a
// row is treated the same as a row with both references nil.
type Parentage struct {
	SubjectID uuid.UUID
	TenantID  uuid.UUID
	MotherID  *uuid.UUID
	FatherID  *uuid.UUID
	UpdatedAt time.Time
}

// Parent returns the reference stored for the role.
func (p *Parentage) Parent(role ParentRole) *uuid.UUID {
	if p == nil {
		return nil
	}
	switch role {
	case RoleMother:
		return p.MotherID
	case RoleFather:
		return p.FatherID
	}
	return nil
}

// SetParent overwrites only the given role, leaving the other untouched.
func (p *Parentage) SetParent(role ParentRole, parentID uuid.UUID) {
	id := parentID
	switch role {
	case RoleMother:
		p.MotherID = &id
	case RoleFather:
		p.FatherID = &id
	}
}

// HasParent reports whether the row names id as mother or father.
func (p *Parentage) HasParent(id uuid.UUID) bool {
	if p.MotherID != nil && *p.MotherID == id {
		return true
	}
	return p.FatherID != nil && *p.FatherID == id
}

// References reports whether the row names id as subject, mother or father.
func (p *Parentage) References(id uuid.UUID) bool {
	return p.SubjectID == id || p.HasParent(id)
}
