// renamehashfield - One-off migration renaming the uploadedAt field to
// createdAt on every fileHashes document. Each document is updated
// atomically (set new field, delete old) and documents without the old
// field are skipped.
//
// Usage:
//   go run ./cmd/renamehashfield            # Prompts for confirmation
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/LeeNgari/FirebaseScripts/internal/config"
	"github.com/LeeNgari/FirebaseScripts/internal/store"
)

const (
	oldField = "uploadedAt"
	newField = "createdAt"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load error", zap.Error(err))
	}

	fmt.Println("WARNING: this migration rewrites documents in the fileHashes collection.")
	fmt.Println("It is highly recommended to back up the database first.")
	fmt.Print("Type 'yes' to confirm you have a backup and wish to proceed: ")
	in := bufio.NewReader(os.Stdin)
	line, _ := in.ReadString('\n')
	if strings.TrimSpace(strings.ToLower(line)) != "yes" {
		fmt.Println("Migration cancelled.")
		return
	}

	ctx := context.Background()
	st, err := store.New(ctx, cfg.ProjectID, cfg.CredentialsFile)
	if err != nil {
		logger.Fatal("firestore connection failed", zap.Error(err))
	}
	defer st.Close()

	updated := 0
	skipped := 0
	errors := 0

	docs := st.FileHashes().Documents(ctx)
	defer docs.Stop()
	for {
		doc, err := docs.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Fatal("streaming fileHashes failed", zap.Error(err))
		}

		value, ok := doc.Data()[oldField]
		if !ok {
			skipped++
			continue
		}

		_, err = doc.Ref.Update(ctx, []firestore.Update{
			{Path: newField, Value: value},
			{Path: oldField, Value: firestore.Delete},
		})
		if err != nil {
			logger.Error("updating document failed",
				zap.String("id", doc.Ref.ID), zap.Error(err))
			errors++
			continue
		}
		updated++
	}

	fmt.Println()
	fmt.Println("=== Migration Summary ===")
	fmt.Printf("Documents updated: %d\n", updated)
	fmt.Printf("Skipped (field not found): %d\n", skipped)
	if errors > 0 {
		fmt.Printf("Errors: %d\n", errors)
	}
}
