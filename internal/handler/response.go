package handler

import (
	"encoding/json"
	"net/http"

	"github.com/nextdink/api/internal/model"
)

// DataResponse is the envelope for single-resource responses.
type DataResponse struct {
	Data  interface{}       `json:"data"`
	Links map[string]string `json:"_links,omitempty"`
}

// CollectionResponse is the envelope for list responses.
type CollectionResponse struct {
	Data       interface{}       `json:"data"`
	Pagination *PaginationInfo   `json:"pagination,omitempty"`
	Links      map[string]string `json:"_links,omitempty"`
}

// PaginationInfo carries cursor pagination state.
type PaginationInfo struct {
	Cursor  string `json:"cursor,omitempty"`
	HasMore bool   `json:"has_more"`
}

// WriteJSON serializes data with the given status. A nil data writes
// only headers.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteData writes one resource in the data envelope.
func WriteData(w http.ResponseWriter, status int, data interface{}, links map[string]string) {
	WriteJSON(w, status, DataResponse{Data: data, Links: links})
}

// WriteCollection writes a list in the collection envelope.
func WriteCollection(w http.ResponseWriter, status int, data interface{}, pagination *PaginationInfo, links map[string]string) {
	WriteJSON(w, status, CollectionResponse{Data: data, Pagination: pagination, Links: links})
}

// WriteError writes an RFC 9457 problem response with its media type.
func WriteError(w http.ResponseWriter, err *model.ProblemDetails) {
	err.WriteJSON(w)
}

// DecodeJSON parses the request body strictly: unknown fields are an
// error so client typos surface instead of silently dropping.
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteNoContent responds 204.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
