// Command purge_tokens removes expired email verification and password reset
// tokens. It only reports by default.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"tikclone/config"
	"tikclone/store"
)

func main() {
	dryRun := flag.Bool("dry-run", true, "only count expired tokens")
	yes := flag.Bool("yes", false, "confirm deletion (required with --dry-run=false)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	st := store.New(db)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if !*dryRun && !*yes {
		fmt.Println("Destructive operation. Pass --yes to confirm execution. Aborting.")
		return
	}
	counts, err := st.PurgeExpiredTokens(ctx, time.Now(), *dryRun)
	if err != nil {
		log.Fatalf("purge failed: %v", err)
	}
	if *dryRun {
		fmt.Printf("expired tokens: %d verification, %d reset\n", counts.Verification, counts.Reset)
		fmt.Println("dry-run enabled; no changes will be made. Use --dry-run=false --yes to execute.")
		return
	}
	log.Printf("purged %d verification and %d reset tokens", counts.Verification, counts.Reset)
}
