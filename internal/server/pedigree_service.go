package server

import (
	"context"
	"fmt"

	"connectrpc.com/connect"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/traba/internal/pedigree"
	"github.com/wolfeidau/traba/internal/rpc"
)

var _ rpc.PedigreeServiceHandler = &PedigreeServer{}

// PedigreeServer exposes pedigree.Service over Connect. Every procedure other
// than ListReferenceData runs as the tenant found in the request context.
type PedigreeServer struct {
	svc       *pedigree.Service
	reference *referenceData
}

func NewPedigreeServer(svc *pedigree.Service) (*PedigreeServer, error) {
	reference, err := newReferenceData()
	if err != nil {
		return nil, err
	}
	return &PedigreeServer{svc: svc, reference: reference}, nil
}

func (s *PedigreeServer) CreateIndividual(
	ctx context.Context,
	req *connect.Request[rpc.CreateIndividualRequest],
) (*connect.Response[rpc.IndividualResponse], error) {
	tenantID, err := currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	ind, err := s.svc.CreateIndividual(ctx, tenantID, toInput(req.Msg.Individual))
	if err != nil {
		return nil, toConnectError(err)
	}

	log.Debug().Str("individual_id", ind.IndividualID.String()).Msg("CreateIndividual request")

	return connect.NewResponse(&rpc.IndividualResponse{Individual: rpc.FromIndividual(ind)}), nil
}

func (s *PedigreeServer) GetIndividual(
	ctx context.Context,
	req *connect.Request[rpc.GetIndividualRequest],
) (*connect.Response[rpc.IndividualResponse], error) {
	tenantID, err := currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	ind, err := s.svc.GetIndividual(ctx, tenantID, req.Msg.IndividualID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.IndividualResponse{Individual: rpc.FromIndividual(ind)}), nil
}

func (s *PedigreeServer) ListIndividuals(
	ctx context.Context,
	req *connect.Request[rpc.ListIndividualsRequest],
) (*connect.Response[rpc.ListIndividualsResponse], error) {
	tenantID, err := currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	individuals, err := s.svc.ListIndividuals(ctx, tenantID, req.Msg.Query)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &rpc.ListIndividualsResponse{Individuals: make([]*rpc.Individual, 0, len(individuals))}
	for _, ind := range individuals {
		resp.Individuals = append(resp.Individuals, rpc.FromIndividual(ind))
	}

	return connect.NewResponse(resp), nil
}

func (s *PedigreeServer) UpdateIndividual(
	ctx context.Context,
	req *connect.Request[rpc.UpdateIndividualRequest],
) (*connect.Response[rpc.IndividualResponse], error) {
	tenantID, err := currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	ind, err := s.svc.UpdateIndividual(ctx, tenantID, req.Msg.IndividualID, toInput(req.Msg.Individual))
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.IndividualResponse{Individual: rpc.FromIndividual(ind)}), nil
}

func (s *PedigreeServer) DeleteIndividual(
	ctx context.Context,
	req *connect.Request[rpc.DeleteIndividualRequest],
) (*connect.Response[rpc.DeleteIndividualResponse], error) {
	tenantID, err := currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.svc.DeleteIndividual(ctx, tenantID, req.Msg.IndividualID); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.DeleteIndividualResponse{}), nil
}

func (s *PedigreeServer) SetParent(
	ctx context.Context,
	req *connect.Request[rpc.SetParentRequest],
) (*connect.Response[rpc.SetParentResponse], error) {
	tenantID, err := currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	role, err := pedigree.ParseParentRole(req.Msg.Role)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.svc.SetParent(ctx, tenantID, req.Msg.SubjectID, role, req.Msg.ParentID); err != nil {
		return nil, toConnectError(err)
	}

	log.Debug().
		Str("subject_id", req.Msg.SubjectID.String()).
		Str("role", string(role)).
		Str("parent_id", req.Msg.ParentID.String()).
		Msg("SetParent request")

	return connect.NewResponse(&rpc.SetParentResponse{}), nil
}

func (s *PedigreeServer) GetParents(
	ctx context.Context,
	req *connect.Request[rpc.GetParentsRequest],
) (*connect.Response[rpc.GetParentsResponse], error) {
	tenantID, err := currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	parents, err := s.svc.GetParents(ctx, tenantID, req.Msg.SubjectID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.GetParentsResponse{
		MotherID: parents.Mother,
		FatherID: parents.Father,
	}), nil
}

func (s *PedigreeServer) BuildTree(
	ctx context.Context,
	req *connect.Request[rpc.BuildTreeRequest],
) (*connect.Response[rpc.BuildTreeResponse], error) {
	tenantID, err := currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	tree, err := s.svc.BuildTree(ctx, tenantID, req.Msg.IndividualID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.BuildTreeResponse{Tree: &rpc.Tree{
		Self:                rpc.FromIndividual(tree.Self),
		Mother:              rpc.FromIndividual(tree.Mother),
		Father:              rpc.FromIndividual(tree.Father),
		MaternalGrandmother: rpc.FromIndividual(tree.MaternalGrandmother),
		MaternalGrandfather: rpc.FromIndividual(tree.MaternalGrandfather),
		PaternalGrandmother: rpc.FromIndividual(tree.PaternalGrandmother),
		PaternalGrandfather: rpc.FromIndividual(tree.PaternalGrandfather),
	}}), nil
}

func (s *PedigreeServer) FindChildren(
	ctx context.Context,
	req *connect.Request[rpc.FindChildrenRequest],
) (*connect.Response[rpc.FindChildrenResponse], error) {
	tenantID, err := currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	children, err := s.svc.FindChildren(ctx, tenantID, req.Msg.IndividualID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &rpc.FindChildrenResponse{Children: make([]rpc.IndividualSummary, 0, len(children))}
	for _, child := range children {
		resp.Children = append(resp.Children, rpc.FromSummary(child))
	}

	return connect.NewResponse(resp), nil
}

func (s *PedigreeServer) RegisterProgenitor(
	ctx context.Context,
	req *connect.Request[rpc.RegisterProgenitorRequest],
) (*connect.Response[rpc.RegisterProgenitorResponse], error) {
	tenantID, err := currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	role, err := pedigree.ParseRole(req.Msg.Role)
	if err != nil {
		return nil, toConnectError(err)
	}

	result, err := s.svc.RegisterProgenitor(ctx, tenantID, req.Msg.TargetID, toInput(req.Msg.Individual), role)
	if err != nil {
		return nil, toConnectError(err)
	}

	log.Debug().
		Str("target_id", req.Msg.TargetID.String()).
		Str("role", string(role)).
		Bool("placeholder", result.Placeholder != nil).
		Msg("RegisterProgenitor request")

	return connect.NewResponse(&rpc.RegisterProgenitorResponse{
		Individual:  rpc.FromIndividual(result.Individual),
		Placeholder: rpc.FromIndividual(result.Placeholder),
		AttachedTo:  result.AttachedTo,
	}), nil
}

func (s *PedigreeServer) RegisterLineage(
	ctx context.Context,
	req *connect.Request[rpc.RegisterLineageRequest],
) (*connect.Response[rpc.RegisterLineageResponse], error) {
	tenantID, err := currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	result, err := s.svc.RegisterLineage(ctx, tenantID, pedigree.LineageInput{
		Subject:             toInput(msg.Subject),
		Mother:              toInputPtr(msg.Mother),
		Father:              toInputPtr(msg.Father),
		MaternalGrandmother: toInputPtr(msg.MaternalGrandmother),
		MaternalGrandfather: toInputPtr(msg.MaternalGrandfather),
		PaternalGrandmother: toInputPtr(msg.PaternalGrandmother),
		PaternalGrandfather: toInputPtr(msg.PaternalGrandfather),
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &rpc.RegisterLineageResponse{
		Subject:   rpc.FromIndividual(result.Subject),
		Ancestors: make(map[string]*rpc.Individual, len(result.Ancestors)),
	}
	for role, ind := range result.Ancestors {
		resp.Ancestors[string(role)] = rpc.FromIndividual(ind)
	}
	for _, p := range result.Placeholders {
		resp.Placeholders = append(resp.Placeholders, rpc.FromIndividual(p))
	}

	return connect.NewResponse(resp), nil
}

func (s *PedigreeServer) RegisterCross(
	ctx context.Context,
	req *connect.Request[rpc.RegisterCrossRequest],
) (*connect.Response[rpc.CrossResponse], error) {
	tenantID, err := currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	cross, err := s.svc.RegisterCross(ctx, tenantID, pedigree.CrossInput{
		Type:          req.Msg.Type,
		Individual1ID: req.Msg.Individual1ID,
		Individual2ID: req.Msg.Individual2ID,
		Generation:    req.Msg.Generation,
		Notes:         req.Msg.Notes,
		PhotoRef:      req.Msg.PhotoRef,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.CrossResponse{Cross: rpc.FromCross(cross)}), nil
}

func (s *PedigreeServer) ListCrosses(
	ctx context.Context,
	req *connect.Request[rpc.ListCrossesRequest],
) (*connect.Response[rpc.ListCrossesResponse], error) {
	tenantID, err := currentTenant(ctx)
	if err != nil {
		return nil, err
	}

	crosses, err := s.svc.ListCrosses(ctx, tenantID, req.Msg.Generation)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &rpc.ListCrossesResponse{Crosses: make([]*rpc.Cross, 0, len(crosses))}
	for _, c := range crosses {
		resp.Crosses = append(resp.Crosses, rpc.FromCross(c))
	}

	return connect.NewResponse(resp), nil
}

// ListReferenceData returns the breed list, appearance set, accepted photo
// extensions, ancestor roles and consanguinity table. The payload never
// changes while the process runs, so it is cacheable.
func (s *PedigreeServer) ListReferenceData(
	ctx context.Context,
	req *connect.Request[rpc.ListReferenceDataRequest],
) (*connect.Response[rpc.ListReferenceDataResponse], error) {
	log.Debug().Msg("ListReferenceData request")

	resp := connect.NewResponse(s.reference.response())
	resp.Header().Set("Cache-Control", "public, max-age=86400")
	resp.Header().Set("ETag", fmt.Sprintf(`"%s"`, s.reference.etag))

	return resp, nil
}

func toInput(a rpc.IndividualAttributes) pedigree.IndividualInput {
	return pedigree.IndividualInput{
		Tag:           a.Tag,
		SecondaryTag:  a.SecondaryTag,
		Name:          a.Name,
		Breed:         a.Breed,
		Color:         a.Color,
		Appearance:    a.Appearance,
		FightRecord:   a.FightRecord,
		PhotoRef:      a.PhotoRef,
		SyntheticCode: a.SyntheticCode,
	}
}

func toInputPtr(a *rpc.IndividualAttributes) *pedigree.IndividualInput {
	if a == nil {
		return nil
	}
	in := toInput(*a)
	return &in
}
