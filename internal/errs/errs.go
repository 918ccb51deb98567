// Package errs define custom error types and utilities.
//
// Its purpose is to create specific error structures
// (FieldErrors for request payloads, HTTPError for API responses)
// so the admin client receives meaningful, actionable and consistent
// error messages. Services return these directly for domain failures
// (missing records, invalid payloads, duplicates, inactive admins).
package errs
