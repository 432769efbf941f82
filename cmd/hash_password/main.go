// Command hash_password prints the bcrypt digest of a plaintext, for seeding
// hashed_password columns by hand.
package main

import (
	"flag"
	"fmt"
	"os"

	"tikclone/pkg/password"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()
	pw := "changeme"
	if flag.NArg() > 0 {
		pw = flag.Arg(0)
	}
	h, err := password.NewHasher(*cost).Hash(pw)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(h))
}
