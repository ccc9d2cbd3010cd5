package rpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// PedigreeServiceName is the fully-qualified name of the PedigreeService.
const PedigreeServiceName = "pedigree.v1.PedigreeService"

// Procedure paths of the PedigreeService.
const (
	PedigreeServiceCreateIndividualProcedure   = "/pedigree.v1.PedigreeService/CreateIndividual"
	PedigreeServiceGetIndividualProcedure      = "/pedigree.v1.PedigreeService/GetIndividual"
	PedigreeServiceListIndividualsProcedure    = "/pedigree.v1.PedigreeService/ListIndividuals"
	PedigreeServiceUpdateIndividualProcedure   = "/pedigree.v1.PedigreeService/UpdateIndividual"
	PedigreeServiceDeleteIndividualProcedure   = "/pedigree.v1.PedigreeService/DeleteIndividual"
	PedigreeServiceSetParentProcedure          = "/pedigree.v1.PedigreeService/SetParent"
	PedigreeServiceGetParentsProcedure         = "/pedigree.v1.PedigreeService/GetParents"
	PedigreeServiceBuildTreeProcedure          = "/pedigree.v1.PedigreeService/BuildTree"
	PedigreeServiceFindChildrenProcedure       = "/pedigree.v1.PedigreeService/FindChildren"
	PedigreeServiceRegisterProgenitorProcedure = "/pedigree.v1.PedigreeService/RegisterProgenitor"
	PedigreeServiceRegisterLineageProcedure    = "/pedigree.v1.PedigreeService/RegisterLineage"
	PedigreeServiceRegisterCrossProcedure      = "/pedigree.v1.PedigreeService/RegisterCross"
	PedigreeServiceListCrossesProcedure        = "/pedigree.v1.PedigreeService/ListCrosses"
	PedigreeServiceListReferenceDataProcedure  = "/pedigree.v1.PedigreeService/ListReferenceData"
)

// PedigreeServiceHandler is implemented by the server side of the
// PedigreeService.
type PedigreeServiceHandler interface {
	CreateIndividual(context.Context, *connect.Request[CreateIndividualRequest]) (*connect.Response[IndividualResponse], error)
	GetIndividual(context.Context, *connect.Request[GetIndividualRequest]) (*connect.Response[IndividualResponse], error)
	ListIndividuals(context.Context, *connect.Request[ListIndividualsRequest]) (*connect.Response[ListIndividualsResponse], error)
	UpdateIndividual(context.Context, *connect.Request[UpdateIndividualRequest]) (*connect.Response[IndividualResponse], error)
	DeleteIndividual(context.Context, *connect.Request[DeleteIndividualRequest]) (*connect.Response[DeleteIndividualResponse], error)
	SetParent(context.Context, *connect.Request[SetParentRequest]) (*connect.Response[SetParentResponse], error)
	GetParents(context.Context, *connect.Request[GetParentsRequest]) (*connect.Response[GetParentsResponse], error)
	BuildTree(context.Context, *connect.Request[BuildTreeRequest]) (*connect.Response[BuildTreeResponse], error)
	FindChildren(context.Context, *connect.Request[FindChildrenRequest]) (*connect.Response[FindChildrenResponse], error)
	RegisterProgenitor(context.Context, *connect.Request[RegisterProgenitorRequest]) (*connect.Response[RegisterProgenitorResponse], error)
	RegisterLineage(context.Context, *connect.Request[RegisterLineageRequest]) (*connect.Response[RegisterLineageResponse], error)
	RegisterCross(context.Context, *connect.Request[RegisterCrossRequest]) (*connect.Response[CrossResponse], error)
	ListCrosses(context.Context, *connect.Request[ListCrossesRequest]) (*connect.Response[ListCrossesResponse], error)
	ListReferenceData(context.Context, *connect.Request[ListReferenceDataRequest]) (*connect.Response[ListReferenceDataResponse], error)
}

// NewPedigreeServiceHandler builds an HTTP handler for the service and
// returns the path it should be mounted on.
func NewPedigreeServiceHandler(svc PedigreeServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = HandlerOptions(opts...)
	readOnly := append(opts, connect.WithIdempotency(connect.IdempotencyNoSideEffects))

	mux := http.NewServeMux()
	mux.Handle(PedigreeServiceCreateIndividualProcedure, connect.NewUnaryHandler(PedigreeServiceCreateIndividualProcedure, svc.CreateIndividual, opts...))
	mux.Handle(PedigreeServiceGetIndividualProcedure, connect.NewUnaryHandler(PedigreeServiceGetIndividualProcedure, svc.GetIndividual, readOnly...))
	mux.Handle(PedigreeServiceListIndividualsProcedure, connect.NewUnaryHandler(PedigreeServiceListIndividualsProcedure, svc.ListIndividuals, readOnly...))
	mux.Handle(PedigreeServiceUpdateIndividualProcedure, connect.NewUnaryHandler(PedigreeServiceUpdateIndividualProcedure, svc.UpdateIndividual, opts...))
	mux.Handle(PedigreeServiceDeleteIndividualProcedure, connect.NewUnaryHandler(PedigreeServiceDeleteIndividualProcedure, svc.DeleteIndividual, opts...))
	mux.Handle(PedigreeServiceSetParentProcedure, connect.NewUnaryHandler(PedigreeServiceSetParentProcedure, svc.SetParent, opts...))
	mux.Handle(PedigreeServiceGetParentsProcedure, connect.NewUnaryHandler(PedigreeServiceGetParentsProcedure, svc.GetParents, readOnly...))
	mux.Handle(PedigreeServiceBuildTreeProcedure, connect.NewUnaryHandler(PedigreeServiceBuildTreeProcedure, svc.BuildTree, readOnly...))
	mux.Handle(PedigreeServiceFindChildrenProcedure, connect.NewUnaryHandler(PedigreeServiceFindChildrenProcedure, svc.FindChildren, readOnly...))
	mux.Handle(PedigreeServiceRegisterProgenitorProcedure, connect.NewUnaryHandler(PedigreeServiceRegisterProgenitorProcedure, svc.RegisterProgenitor, opts...))
	mux.Handle(PedigreeServiceRegisterLineageProcedure, connect.NewUnaryHandler(PedigreeServiceRegisterLineageProcedure, svc.RegisterLineage, opts...))
	mux.Handle(PedigreeServiceRegisterCrossProcedure, connect.NewUnaryHandler(PedigreeServiceRegisterCrossProcedure, svc.RegisterCross, opts...))
	mux.Handle(PedigreeServiceListCrossesProcedure, connect.NewUnaryHandler(PedigreeServiceListCrossesProcedure, svc.ListCrosses, readOnly...))
	mux.Handle(PedigreeServiceListReferenceDataProcedure, connect.NewUnaryHandler(PedigreeServiceListReferenceDataProcedure, svc.ListReferenceData, readOnly...))

	return "/" + PedigreeServiceName + "/", mux
}

// PedigreeServiceClient is a typed client for the PedigreeService.
type PedigreeServiceClient struct {
	createIndividual   *connect.Client[CreateIndividualRequest, IndividualResponse]
	getIndividual      *connect.Client[GetIndividualRequest, IndividualResponse]
	listIndividuals    *connect.Client[ListIndividualsRequest, ListIndividualsResponse]
	updateIndividual   *connect.Client[UpdateIndividualRequest, IndividualResponse]
	deleteIndividual   *connect.Client[DeleteIndividualRequest, DeleteIndividualResponse]
	setParent          *connect.Client[SetParentRequest, SetParentResponse]
	getParents         *connect.Client[GetParentsRequest, GetParentsResponse]
	buildTree          *connect.Client[BuildTreeRequest, BuildTreeResponse]
	findChildren       *connect.Client[FindChildrenRequest, FindChildrenResponse]
	registerProgenitor *connect.Client[RegisterProgenitorRequest, RegisterProgenitorResponse]
	registerLineage    *connect.Client[RegisterLineageRequest, RegisterLineageResponse]
	registerCross      *connect.Client[RegisterCrossRequest, CrossResponse]
	listCrosses        *connect.Client[ListCrossesRequest, ListCrossesResponse]
	listReferenceData  *connect.Client[ListReferenceDataRequest, ListReferenceDataResponse]
}

// NewPedigreeServiceClient builds a client for the service at baseURL.
// Reference data is fetched with HTTP GET so a caching transport can reuse
// it.
func NewPedigreeServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PedigreeServiceClient {
	opts = ClientOptions(opts...)
	readOnly := append(opts, connect.WithIdempotency(connect.IdempotencyNoSideEffects))
	cacheable := append(readOnly, connect.WithHTTPGet())

	return &PedigreeServiceClient{
		createIndividual:   connect.NewClient[CreateIndividualRequest, IndividualResponse](httpClient, baseURL+PedigreeServiceCreateIndividualProcedure, opts...),
		getIndividual:      connect.NewClient[GetIndividualRequest, IndividualResponse](httpClient, baseURL+PedigreeServiceGetIndividualProcedure, readOnly...),
		listIndividuals:    connect.NewClient[ListIndividualsRequest, ListIndividualsResponse](httpClient, baseURL+PedigreeServiceListIndividualsProcedure, readOnly...),
		updateIndividual:   connect.NewClient[UpdateIndividualRequest, IndividualResponse](httpClient, baseURL+PedigreeServiceUpdateIndividualProcedure, opts...),
		deleteIndividual:   connect.NewClient[DeleteIndividualRequest, DeleteIndividualResponse](httpClient, baseURL+PedigreeServiceDeleteIndividualProcedure, opts...),
		setParent:          connect.NewClient[SetParentRequest, SetParentResponse](httpClient, baseURL+PedigreeServiceSetParentProcedure, opts...),
		getParents:         connect.NewClient[GetParentsRequest, GetParentsResponse](httpClient, baseURL+PedigreeServiceGetParentsProcedure, readOnly...),
		buildTree:          connect.NewClient[BuildTreeRequest, BuildTreeResponse](httpClient, baseURL+PedigreeServiceBuildTreeProcedure, readOnly...),
		findChildren:       connect.NewClient[FindChildrenRequest, FindChildrenResponse](httpClient, baseURL+PedigreeServiceFindChildrenProcedure, readOnly...),
		registerProgenitor: connect.NewClient[RegisterProgenitorRequest, RegisterProgenitorResponse](httpClient, baseURL+PedigreeServiceRegisterProgenitorProcedure, opts...),
		registerLineage:    connect.NewClient[RegisterLineageRequest, RegisterLineageResponse](httpClient, baseURL+PedigreeServiceRegisterLineageProcedure, opts...),
		registerCross:      connect.NewClient[RegisterCrossRequest, CrossResponse](httpClient, baseURL+PedigreeServiceRegisterCrossProcedure, opts...),
		listCrosses:        connect.NewClient[ListCrossesRequest, ListCrossesResponse](httpClient, baseURL+PedigreeServiceListCrossesProcedure, readOnly...),
		listReferenceData:  connect.NewClient[ListReferenceDataRequest, ListReferenceDataResponse](httpClient, baseURL+PedigreeServiceListReferenceDataProcedure, cacheable...),
	}
}

func (c *PedigreeServiceClient) CreateIndividual(ctx context.Context, req *connect.Request[CreateIndividualRequest]) (*connect.Response[IndividualResponse], error) {
	return c.createIndividual.CallUnary(ctx, req)
}

func (c *PedigreeServiceClient) GetIndividual(ctx context.Context, req *connect.Request[GetIndividualRequest]) (*connect.Response[IndividualResponse], error) {
	return c.getIndividual.CallUnary(ctx, req)
}

func (c *PedigreeServiceClient) ListIndividuals(ctx context.Context, req *connect.Request[ListIndividualsRequest]) (*connect.Response[ListIndividualsResponse], error) {
	return c.listIndividuals.CallUnary(ctx, req)
}

func (c *PedigreeServiceClient) UpdateIndividual(ctx context.Context, req *connect.Request[UpdateIndividualRequest]) (*connect.Response[IndividualResponse], error) {
	return c.updateIndividual.CallUnary(ctx, req)
}

func (c *PedigreeServiceClient) DeleteIndividual(ctx context.Context, req *connect.Request[DeleteIndividualRequest]) (*connect.Response[DeleteIndividualResponse], error) {
	return c.deleteIndividual.CallUnary(ctx, req)
}

func (c *PedigreeServiceClient) SetParent(ctx context.Context, req *connect.Request[SetParentRequest]) (*connect.Response[SetParentResponse], error) {
	return c.setParent.CallUnary(ctx, req)
}

func (c *PedigreeServiceClient) GetParents(ctx context.Context, req *connect.Request[GetParentsRequest]) (*connect.Response[GetParentsResponse], error) {
	return c.getParents.CallUnary(ctx, req)
}

func (c *PedigreeServiceClient) BuildTree(ctx context.Context, req *connect.Request[BuildTreeRequest]) (*connect.Response[BuildTreeResponse], error) {
	return c.buildTree.CallUnary(ctx, req)
}

func (c *PedigreeServiceClient) FindChildren(ctx context.Context, req *connect.Request[FindChildrenRequest]) (*connect.Response[FindChildrenResponse], error) {
	return c.findChildren.CallUnary(ctx, req)
}

func (c *PedigreeServiceClient) RegisterProgenitor(ctx context.Context, req *connect.Request[RegisterProgenitorRequest]) (*connect.Response[RegisterProgenitorResponse], error) {
	return c.registerProgenitor.CallUnary(ctx, req)
}

func (c *PedigreeServiceClient) RegisterLineage(ctx context.Context, req *connect.Request[RegisterLineageRequest]) (*connect.Response[RegisterLineageResponse], error) {
	return c.registerLineage.CallUnary(ctx, req)
}

func (c *PedigreeServiceClient) RegisterCross(ctx context.Context, req *connect.Request[RegisterCrossRequest]) (*connect.Response[CrossResponse], error) {
	return c.registerCross.CallUnary(ctx, req)
}

func (c *PedigreeServiceClient) ListCrosses(ctx context.Context, req *connect.Request[ListCrossesRequest]) (*connect.Response[ListCrossesResponse], error) {
	return c.listCrosses.CallUnary(ctx, req)
}

func (c *PedigreeServiceClient) ListReferenceData(ctx context.Context, req *connect.Request[ListReferenceDataRequest]) (*connect.Response[ListReferenceDataResponse], error) {
	return c.listReferenceData.CallUnary(ctx, req)
}
