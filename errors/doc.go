// Package errors provides the error taxonomy shared by actionflow packages.
// Every failure that leaves a package boundary is an *AppError carrying a
// machine-readable code, so callers can branch with IsCode instead of
// matching message text.
package errors
