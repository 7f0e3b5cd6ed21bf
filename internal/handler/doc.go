// Package handler provides the HTTP endpoints of the Places API.
//
// Each handler struct wraps one service and translates between HTTP and the
// service layer: it parses and validates input, calls a single service
// operation, and writes JSON. Service errors go through MapServiceError and
// reach the client as RFC 9457 problem documents with a user-safe detail.
//
// # Routes
//
//	GET    /api/users
//	POST   /api/users/signup        multipart: name, email, password, image
//	POST   /api/users/login
//	GET    /api/places/{pid}
//	GET    /api/places/user/{uid}
//	POST   /api/places              bearer; multipart: title, description, address, image
//	PATCH  /api/places/{pid}        bearer, creator only
//	DELETE /api/places/{pid}        bearer, creator only
//
// NewRouter assembles these together with /health, /metrics and, for local
// storage, the uploaded image files.
package handler
