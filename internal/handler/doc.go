// Package handler implements the HTTP surface of the event service.
// Handlers decode and field-validate requests, delegate to the service
// layer, and translate service errors to RFC 9457 problem documents via
// MapServiceError. Routing uses Go 1.22 method-qualified ServeMux
// patterns; path parameters come from http.Request.PathValue.
package handler
