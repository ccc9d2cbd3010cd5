package server

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/minio/crc64nvme"
	"github.com/wolfeidau/traba/internal/models"
	"github.com/wolfeidau/traba/internal/pedigree"
	"github.com/wolfeidau/traba/internal/rpc"
)

// referenceData is the static lookup payload and its entity tag.
type referenceData struct {
	payload rpc.ListReferenceDataResponse
	etag    string
}

func newReferenceData() (*referenceData, error) {
	payload := rpc.ListReferenceDataResponse{
		Breeds:          slices.Clone(models.KnownBreeds),
		Appearances:     slices.Clone(models.Appearances),
		PhotoExtensions: slices.Clone(models.PhotoExtensions),
	}
	for _, r := range pedigree.Roles {
		payload.AncestorRoles = append(payload.AncestorRoles, string(r))
	}
	for gen := models.MinGeneration; gen <= models.MaxGeneration; gen++ {
		pct, _ := models.ConsanguinityPercentage(gen)
		payload.Consanguinity = append(payload.Consanguinity, rpc.ConsanguinityLevel{Generation: gen, Percentage: pct})
	}

	data, err := rpc.Codec().Marshal(&payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reference data: %w", err)
	}

	h := crc64nvme.New()
	h.Write(data)

	return &referenceData{
		payload: payload,
		etag:    strconv.FormatUint(h.Sum64(), 16),
	}, nil
}

// response returns a copy so handlers never share slices with callers.
func (r *referenceData) response() *rpc.ListReferenceDataResponse {
	return &rpc.ListReferenceDataResponse{
		Breeds:          slices.Clone(r.payload.Breeds),
		Appearances:     slices.Clone(r.payload.Appearances),
		PhotoExtensions: slices.Clone(r.payload.PhotoExtensions),
		AncestorRoles:   slices.Clone(r.payload.AncestorRoles),
		Consanguinity:   slices.Clone(r.payload.Consanguinity),
	}
}
