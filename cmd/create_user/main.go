// Command create_user inserts an account directly, bypassing email verification
// when -active is set.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"tikclone/config"
	"tikclone/models"
	"tikclone/pkg/password"
	"tikclone/store"

	"golang.org/x/term"
)

func main() {
	email := flag.String("email", "", "account email")
	username := flag.String("username", "", "account username")
	plain := flag.String("password", "", "plaintext password (prompted when omitted)")
	fullname := flag.String("fullname", "", "display name (defaults to the username)")
	admin := flag.Bool("admin", false, "grant administrator rights")
	active := flag.Bool("active", true, "mark the account as verified")
	flag.Parse()

	if *email == "" || *username == "" {
		fmt.Println("usage: go run ./cmd/create_user -email <email> -username <name> [-password <pw>] [-fullname <name>] [-admin] [-active=false]")
		return
	}
	if *plain == "" {
		fmt.Print("Password: ")
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			log.Fatalf("read password: %v", err)
		}
		*plain = string(b)
	}
	if len(*plain) < password.MinLength {
		log.Fatalf("password too short (min %d)", password.MinLength)
	}
	if len(*plain) > password.MaxLength {
		log.Fatalf("password too long (max %d bytes)", password.MaxLength)
	}
	if *fullname == "" {
		*fullname = *username
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	st := store.New(db)
	ctx := context.Background()

	digest, err := password.NewHasher(cfg.Auth.BcryptCost).Hash(*plain)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	u := models.User{
		Email:          strings.ToLower(strings.TrimSpace(*email)),
		Username:       strings.TrimSpace(*username),
		Fullname:       *fullname,
		HashedPassword: digest,
		AvatarURL:      cfg.Auth.DefaultAvatarURL,
		Active:         *active,
		IsAdmin:        *admin,
	}
	if err := st.CreateUser(ctx, &u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			fmt.Printf("email or username already in use (%s, %s)\n", u.Email, u.Username)
			return
		}
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created user %s id=%d active=%t admin=%t\n", u.Username, u.ID, u.Active, u.IsAdmin)
}
