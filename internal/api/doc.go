// Package api contains the HTTP handlers, request/response models, and
// error translation for the task manager's REST surface. Handlers decode
// and validate requests, delegate to the service layer, and map the
// resulting errors onto HTTP status codes.
package api
