// Package httperr defines the structured error responses emitted by the
// session manager and CSRF guard middlewares.
package httperr
