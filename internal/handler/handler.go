// Package handler is the HTTP layer of the admin API.
//
// Each handler binds path, query and body input into a request type,
// validates it, calls one service and writes the result through the shared
// Handle pipeline, which also logs and traces every request.
package handler
