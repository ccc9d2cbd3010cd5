package rpc

import (
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/traba/internal/models"
)

// IndividualAttributes are the caller supplied fields of an individual.
type IndividualAttributes struct {
	Tag           string `json:"tag" yaml:"tag"`
	SecondaryTag  string `json:"secondary_tag,omitempty" yaml:"secondary_tag,omitempty"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	Breed         string `json:"breed" yaml:"breed"`
	Color         string `json:"color" yaml:"color"`
	Appearance    string `json:"appearance" yaml:"appearance"`
	FightRecord   string `json:"fight_record,omitempty" yaml:"fight_record,omitempty"`
	PhotoRef      string `json:"photo_ref,omitempty" yaml:"photo_ref,omitempty"`
	SyntheticCode string `json:"synthetic_code,omitempty" yaml:"synthetic_code,omitempty"`
}

// Individual is the wire form of models.Individual.
type Individual struct {
	IndividualID  uuid.UUID `json:"individual_id" yaml:"individual_id"`
	Tag           string    `json:"tag" yaml:"tag"`
	SecondaryTag  string    `json:"secondary_tag,omitempty" yaml:"secondary_tag,omitempty"`
	Name          string    `json:"name,omitempty" yaml:"name,omitempty"`
	Breed         string    `json:"breed" yaml:"breed"`
	Color         string    `json:"color" yaml:"color"`
	Appearance    string    `json:"appearance" yaml:"appearance"`
	FightRecord   string    `json:"fight_record,omitempty" yaml:"fight_record,omitempty"`
	PhotoRef      string    `json:"photo_ref,omitempty" yaml:"photo_ref,omitempty"`
	SyntheticCode string    `json:"synthetic_code" yaml:"synthetic_code"`
	Placeholder   bool      `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

// IndividualSummary is the wire form of models.IndividualSummary.
type IndividualSummary struct {
	IndividualID  uuid.UUID `json:"individual_id" yaml:"individual_id"`
	Tag           string    `json:"tag" yaml:"tag"`
	SecondaryTag  string    `json:"secondary_tag,omitempty" yaml:"secondary_tag,omitempty"`
	Name          string    `json:"name,omitempty" yaml:"name,omitempty"`
	Breed         string    `json:"breed" yaml:"breed"`
	SyntheticCode string    `json:"synthetic_code" yaml:"synthetic_code"`
	Placeholder   bool      `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// Cross is the wire form of models.Cross.
type Cross struct {
	CrossID       uuid.UUID `json:"cross_id" yaml:"cross_id"`
	Type          string    `json:"type,omitempty" yaml:"type,omitempty"`
	Individual1ID uuid.UUID `json:"individual1_id" yaml:"individual1_id"`
	Individual2ID uuid.UUID `json:"individual2_id" yaml:"individual2_id"`
	Generation    int       `json:"generation" yaml:"generation"`
	Percentage    float64   `json:"percentage" yaml:"percentage"`
	Notes         string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	PhotoRef      string    `json:"photo_ref,omitempty" yaml:"photo_ref,omitempty"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// Tenant is the public view of a tenant. The credential hash never leaves
// the server.
type Tenant struct {
	TenantID    uuid.UUID `json:"tenant_id" yaml:"tenant_id"`
	Name        string    `json:"name" yaml:"name"`
	DisplayName string    `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// Tree is the three generation ancestry of an individual.
type Tree struct {
	Self                *Individual `json:"self" yaml:"self"`
	Mother              *Individual `json:"mother,omitempty" yaml:"mother,omitempty"`
	Father              *Individual `json:"father,omitempty" yaml:"father,omitempty"`
	MaternalGrandmother *Individual `json:"maternal_grandmother,omitempty" yaml:"maternal_grandmother,omitempty"`
	MaternalGrandfather *Individual `json:"maternal_grandfather,omitempty" yaml:"maternal_grandfather,omitempty"`
	PaternalGrandmother *Individual `json:"paternal_grandmother,omitempty" yaml:"paternal_grandmother,omitempty"`
	PaternalGrandfather *Individual `json:"paternal_grandfather,omitempty" yaml:"paternal_grandfather,omitempty"`
}

type CreateIndividualRequest struct {
	Individual IndividualAttributes `json:"individual"`
}

type IndividualResponse struct {
	Individual *Individual `json:"individual"`
}

type GetIndividualRequest struct {
	IndividualID uuid.UUID `json:"individual_id"`
}

type ListIndividualsRequest struct {
	Query string `json:"query,omitempty"`
}

type ListIndividualsResponse struct {
	Individuals []*Individual `json:"individuals"`
}

type UpdateIndividualRequest struct {
	IndividualID uuid.UUID            `json:"individual_id"`
	Individual   IndividualAttributes `json:"individual"`
}

type DeleteIndividualRequest struct {
	IndividualID uuid.UUID `json:"individual_id"`
}

type DeleteIndividualResponse struct{}

// SetParentRequest links ParentID as the subject's mother or father.
type SetParentRequest struct {
	SubjectID uuid.UUID `json:"subject_id"`
	Role      string    `json:"role"`
	ParentID  uuid.UUID `json:"parent_id"`
}

type SetParentResponse struct{}

type GetParentsRequest struct {
	SubjectID uuid.UUID `json:"subject_id"`
}

type GetParentsResponse struct {
	MotherID *uuid.UUID `json:"mother_id,omitempty"`
	FatherID *uuid.UUID `json:"father_id,omitempty"`
}

type BuildTreeRequest struct {
	IndividualID uuid.UUID `json:"individual_id"`
}

type BuildTreeResponse struct {
	Tree *Tree `json:"tree"`
}

type FindChildrenRequest struct {
	IndividualID uuid.UUID `json:"individual_id"`
}

type FindChildrenResponse struct {
	Children []IndividualSummary `json:"children"`
}

// RegisterProgenitorRequest creates an ancestor of TargetID in Role, which
// is one of the six ancestor roles, e.g. "maternalGrandfather".
type RegisterProgenitorRequest struct {
	TargetID   uuid.UUID            `json:"target_id"`
	Role       string               `json:"role"`
	Individual IndividualAttributes `json:"individual"`
}

type RegisterProgenitorResponse struct {
	Individual  *Individual `json:"individual"`
	Placeholder *Individual `json:"placeholder,omitempty"`
	AttachedTo  uuid.UUID   `json:"attached_to"`
}

// RegisterLineageRequest is also the layout of a lineage import file.
type RegisterLineageRequest struct {
	Subject             IndividualAttributes  `json:"subject" yaml:"subject"`
	Mother              *IndividualAttributes `json:"mother,omitempty" yaml:"mother,omitempty"`
	Father              *IndividualAttributes `json:"father,omitempty" yaml:"father,omitempty"`
	MaternalGrandmother *IndividualAttributes `json:"maternal_grandmother,omitempty" yaml:"maternal_grandmother,omitempty"`
	MaternalGrandfather *IndividualAttributes `json:"maternal_grandfather,omitempty" yaml:"maternal_grandfather,omitempty"`
	PaternalGrandmother *IndividualAttributes `json:"paternal_grandmother,omitempty" yaml:"paternal_grandmother,omitempty"`
	PaternalGrandfather *IndividualAttributes `json:"paternal_grandfather,omitempty" yaml:"paternal_grandfather,omitempty"`
}

type RegisterLineageResponse struct {
	Subject      *Individual            `json:"subject"`
	Ancestors    map[string]*Individual `json:"ancestors,omitempty"`
	Placeholders []*Individual          `json:"placeholders,omitempty"`
}

// RegisterCrossRequest records a pairing. The percentage is always derived
// from Generation by the server.
type RegisterCrossRequest struct {
	Type          string    `json:"type,omitempty"`
	Individual1ID uuid.UUID `json:"individual1_id"`
	Individual2ID uuid.UUID `json:"individual2_id"`
	Generation    int       `json:"generation"`
	Notes         string    `json:"notes,omitempty"`
	PhotoRef      string    `json:"photo_ref,omitempty"`
}

type CrossResponse struct {
	Cross *Cross `json:"cross"`
}

type ListCrossesRequest struct {
	Generation *int `json:"generation,omitempty"`
}

type ListCrossesResponse struct {
	Crosses []*Cross `json:"crosses"`
}

type ListReferenceDataRequest struct{}

// ConsanguinityLevel is one row of the generation to percentage table.
type ConsanguinityLevel struct {
	Generation int     `json:"generation" yaml:"generation"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

type ListReferenceDataResponse struct {
	Breeds          []string             `json:"breeds" yaml:"breeds"`
	Appearances     []string             `json:"appearances" yaml:"appearances"`
	PhotoExtensions []string             `json:"photo_extensions" yaml:"photo_extensions"`
	AncestorRoles   []string             `json:"ancestor_roles" yaml:"ancestor_roles"`
	Consanguinity   []ConsanguinityLevel `json:"consanguinity" yaml:"consanguinity"`
}

type RegisterTenantRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Password    string `json:"password"`
}

type TenantResponse struct {
	Tenant *Tenant `json:"tenant"`
}

type AuthenticateRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type AuthenticateResponse struct {
	Tenant    *Tenant   `json:"tenant"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RotateCredentialRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type RotateCredentialResponse struct{}

type GetTenantRequest struct{}

// FromIndividual converts a model to its wire form. A nil model yields nil.
func FromIndividual(ind *models.Individual) *Individual {
	if ind == nil {
		return nil
	}
	return &Individual{
		IndividualID:  ind.IndividualID,
		Tag:           ind.Tag,
		SecondaryTag:  ind.SecondaryTag,
		Name:          ind.Name,
		Breed:         ind.Breed,
		Color:         ind.Color,
		Appearance:    ind.Appearance,
		FightRecord:   ind.FightRecord,
		PhotoRef:      ind.PhotoRef,
		SyntheticCode: ind.SyntheticCode,
		Placeholder:   ind.Placeholder,
		CreatedAt:     ind.CreatedAt,
		UpdatedAt:     ind.UpdatedAt,
	}
}

func FromSummary(s models.IndividualSummary) IndividualSummary {
	return IndividualSummary{
		IndividualID:  s.IndividualID,
		Tag:           s.Tag,
		SecondaryTag:  s.SecondaryTag,
		Name:          s.Name,
		Breed:         s.Breed,
		SyntheticCode: s.SyntheticCode,
		Placeholder:   s.Placeholder,
	}
}

func FromCross(c *models.Cross) *Cross {
	if c == nil {
		return nil
	}
	return &Cross{
		CrossID:       c.CrossID,
		Type:          c.Type,
		Individual1ID: c.Individual1ID,
		Individual2ID: c.Individual2ID,
		Generation:    c.Generation,
		Percentage:    c.Percentage,
		Notes:         c.Notes,
		PhotoRef:      c.PhotoRef,
		CreatedAt:     c.CreatedAt,
	}
}

func FromTenant(t *models.Tenant) *Tenant {
	if t == nil {
		return nil
	}
	return &Tenant{
		TenantID:    t.TenantID,
		Name:        t.Name,
		DisplayName: t.DisplayName,
		CreatedAt:   t.CreatedAt,
	}
}
