// Package api provides the HTTP handlers for the garden, journal, species and
// tip endpoints, plus the chi router that mounts them.
package api
