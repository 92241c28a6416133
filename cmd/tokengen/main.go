package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokengen mints HS256 tokens honoring the contract the credential guard
// verifies: signed with the shared secret, carrying a stable user id and an
// expiry. Development and testing tool; real issuance lives elsewhere.
func main() {
	var (
		secret  = flag.String("secret", os.Getenv("GUARD_SIGNING_SECRET"), "Signing secret (minimum 32 bytes, defaults to GUARD_SIGNING_SECRET)")
		subject = flag.String("sub", "u123", "Subject (user ID)")
		email   = flag.String("email", "user@example.com", "Email address")
		role    = flag.String("role", "user", "User role")
		hours   = flag.Int("hours", 168, "Token validity in hours")
	)

	flag.Parse()

	if len(*secret) < 32 {
		log.Fatal("Secret must be at least 32 bytes")
	}

	now := time.Now()
	expiry := now.Add(time.Duration(*hours) * time.Hour)

	claims := jwt.MapClaims{
		"sub":   *subject,
		"email": *email,
		"role":  *role,
		"exp":   expiry.Unix(),
		"nbf":   now.Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(*secret))
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Println("\n=== Token Generated ===")
	fmt.Printf("\nToken: %s\n\n", tokenString)
	fmt.Println("Claims:")
	fmt.Printf("  Subject: %s\n", *subject)
	fmt.Printf("  Email:   %s\n", *email)
	fmt.Printf("  Role:    %s\n", *role)
	fmt.Printf("  Expires: %s\n\n", expiry.Format(time.RFC3339))
	fmt.Println("Usage:")
	fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:8080/api/profile\n\n", tokenString)
}
