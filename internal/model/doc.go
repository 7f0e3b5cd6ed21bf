// Package model defines domain entities and data structures for the Places API.
//
// The model package contains the struct definitions shared by every layer:
// users, places, their geocoded locations, canonical record identifiers, and
// the RFC 9457 problem details used for error responses.
//
// # Domain Entities
//
//   - User: account with a bcrypt password hash and the ids of the places it created
//   - Place: titled, geocoded location with an image, owned by exactly one creator
//
// # Identifiers
//
// Records are addressed as "table:key" (for example "place:0b6f...").
// NormalizeID turns bare keys and database record ids into that form so that
// ids read from tokens, URLs and documents compare equal:
//
//	if model.SameID(model.TableUser, place.Creator, requesterID) { ... }
package model
