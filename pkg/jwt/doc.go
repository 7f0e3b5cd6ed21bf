// Package jwt issues and verifies the API's session tokens.
//
// Tokens are HS256-signed and carry the user id and email:
//
//	svc := jwt.NewService(jwt.Config{Key: cfg.JWT.Key})
//	token, err := svc.Issue("user:0b6f...", "ann@example.com")
//
//	claims, err := svc.Validate(token)
//	if errors.Is(err, jwt.ErrTokenExpired) { ... }
//
// Tokens are stateless. A token is valid until its exp claim passes; there
// is no revocation.
package jwt
