// Package repository implements the data access layer for the Places API.
//
// The repository package contains all database operations using SurrealDB.
// Each repository struct handles operations for one domain entity.
//
// # Repository Pattern
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Lookups return (nil, nil) when the record does not exist
//   - SurrealQL queries are parameterized with $variable syntax
//   - Results are parsed and mapped to model structs with canonical ids
//
// # Record Links
//
// A place stores its creator as a record link and a user stores its places
// as an array of record links. Both sides are written by PlaceUnitOfWork in
// one batch transaction:
//
//	uow := NewPlaceUnitOfWork(db)
//	tx, _ := uow.Begin(ctx)
//	_ = tx.InsertPlace(ctx, place)
//	_ = tx.AddUserPlace(ctx, place.Creator, place.ID)
//	err := tx.Commit(ctx)
package repository
