// Package util holds small generic helpers shared across actionflow
// packages.
package util
