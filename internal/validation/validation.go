// Package validation turns validator failures on admin API requests into
// field errors the dashboard can show next to each form input.
//
// Request types validate with struct tags and may append cross-field
// rules (story pages, question options) as CustomValidationErrors.
package validation
