// Package domain contains the core business entities of the garden: plants,
// their journals and journal entries, together with the validation rules that
// apply before any record is stored.
//
// Stateless domain logic lives in subpackages: catalog (species reference
// data), placement (icon layout) and lifecycle (germination status).
package domain
