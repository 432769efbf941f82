// Command reset_password sets a user's password from the shell.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"tikclone/config"
	"tikclone/pkg/password"
	"tikclone/store"

	"golang.org/x/term"
)

func main() {
	email := flag.String("email", "", "email of the account to reset")
	plain := flag.String("password", "", "new plaintext password (prompted when omitted)")
	flag.Parse()
	if *email == "" {
		log.Fatal("--email is required")
	}
	if *plain == "" {
		*plain = promptPassword("New password: ")
	}
	if len(*plain) < password.MinLength {
		log.Fatalf("password too short (min %d)", password.MinLength)
	}
	if len(*plain) > password.MaxLength {
		log.Fatalf("password too long (max %d bytes)", password.MaxLength)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	st := store.New(db)
	ctx := context.Background()

	u, err := st.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(*email)))
	if err != nil {
		log.Fatalf("user not found: %v", err)
	}
	digest, err := password.NewHasher(cfg.Auth.BcryptCost).Hash(*plain)
	if err != nil {
		log.Fatalf("bcrypt: %v", err)
	}
	if err := st.UpdatePassword(ctx, u.ID, digest); err != nil {
		log.Fatalf("update failed: %v", err)
	}
	fmt.Printf("Password reset for user %s\n", u.Username)
}

func promptPassword(prompt string) string {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Fatalf("read password: %v", err)
	}
	return string(b)
}
