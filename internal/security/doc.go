// Package security holds the HTTP hardening middleware: response security
// headers, HSTS and CSRF protection for browser form posts.
package security
