package v1

import (
	hl_uuid "github.com/hearthledger/backend/internal/uuid"
)

// URIFamily binds the family a request is scoped to.
type URIFamily struct {
	FamilyID hl_uuid.UUID `uri:"familyId" binding:"required" format:"UUID"` // ID of the family
}

// URIID binds a family-scoped resource ID.
type URIID struct {
	URIFamily
	ID hl_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

// Pagination contains information about the pagination for list endpoint responses.
type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset int   `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}
