package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/placeshare/api/internal/model"
	"github.com/placeshare/api/pkg/jwt"
)

func main() {
	key := flag.String("key", os.Getenv("JWT_KEY"), "Signing key (default: $JWT_KEY)")
	userID := flag.String("user", "", "User ID for the token, e.g. user:abc123")
	email := flag.String("email", "dev@placeshare.local", "Email for the token")
	issuer := flag.String("issuer", "placeshare", "JWT issuer")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	if *key == "" {
		fmt.Fprintln(os.Stderr, "Error: no signing key, pass -key or set JWT_KEY")
		os.Exit(1)
	}
	if *userID == "" {
		fmt.Fprintln(os.Stderr, "Error: -user is required")
		os.Exit(1)
	}
	id := model.NormalizeID(model.TableUser, *userID)

	jwtService := jwt.NewService(jwt.Config{
		Key:    *key,
		Issuer: *issuer,
	})

	token, err := jwtService.Issue(id, model.NormalizeEmail(*email))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		output := model.AuthResponse{
			UserID: id,
			Email:  model.NormalizeEmail(*email),
			Token:  token,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
		return
	}

	fmt.Println("Token Generated")
	fmt.Println("===============")
	fmt.Printf("User ID:  %s\n", id)
	fmt.Printf("Email:    %s\n", model.NormalizeEmail(*email))
	fmt.Printf("Expires:  %s\n", time.Now().Add(jwt.DefaultExpiration).Format(time.RFC3339))
	fmt.Println()
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  curl -X DELETE -H 'Authorization: Bearer %s...' http://localhost:5000/api/places/place:<id>\n", token[:min(len(token), 40)])
}
