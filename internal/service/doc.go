// Package service implements the business logic of the Places API.
//
// Services sit between the HTTP handlers and data access. Each one takes a
// config struct with its dependencies and defines the repository interfaces
// it needs, so the SurrealDB repositories and the in-memory store in
// internal/testing/memstore are interchangeable.
//
//   - AuthService: signup and login
//   - UserService: the user directory
//   - PlaceService: place reads, creation, updates and deletion
//   - Coordinator: the two place/user writes that must happen together
//   - CredentialService: password hashing and session tokens
//
// # Error Handling
//
// Every error a service returns wraps one of the sentinels in errors.go, so
// callers classify with errors.Is:
//
//	place, err := places.UpdatePlace(ctx, placeID, userID, req)
//	if errors.Is(err, service.ErrNotPlaceCreator) {
//	    // 401
//	}
//
// Internal failures also carry an oops code and attributes for logging.
//
// # Place Writes
//
// Creating a place inserts the place and appends its id to the creator's
// place list; deleting does the reverse. The Coordinator runs each pair in one
// transaction under a timeout and never retries.
package service
