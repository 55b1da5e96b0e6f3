// exporthashes - Dumps the fileHashes ledger to a local JSON file and,
// when an export bucket is configured, mirrors the file to S3.
//
// Usage:
//   go run ./cmd/exporthashes
//   go run ./cmd/exporthashes -out hashes.json
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/LeeNgari/FirebaseScripts/internal/config"
	"github.com/LeeNgari/FirebaseScripts/internal/export"
	"github.com/LeeNgari/FirebaseScripts/internal/store"
)

func main() {
	out := flag.String("out", "filehashed_data.json", "Output JSON file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load error", zap.Error(err))
	}

	ctx := context.Background()
	st, err := store.New(ctx, cfg.ProjectID, cfg.CredentialsFile)
	if err != nil {
		logger.Fatal("firestore connection failed", zap.Error(err))
	}
	defer st.Close()

	var rows []map[string]interface{}
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
		row := doc.Data()
		row["documentId"] = doc.Ref.ID
		rows = append(rows, row)
	}

	if err := export.WriteJSON(*out, rows); err != nil {
		logger.Fatal("export failed", zap.Error(err))
	}
	logger.Info("wrote export", zap.String("file", *out), zap.Int("documents", len(rows)))

	uploaded := ""
	if cfg.ExportS3Bucket != "" {
		s3Client, err := export.NewS3Client(ctx, cfg)
		if err != nil {
			logger.Fatal("building S3 client failed", zap.Error(err))
		}
		data, err := os.ReadFile(*out)
		if err != nil {
			logger.Fatal("re-reading export failed", zap.Error(err))
		}
		key := fmt.Sprintf("exports/%s-%s", time.Now().UTC().Format("2006-01-02T15-04-05Z"), filepath.Base(*out))
		uploaded, err = export.Upload(ctx, s3Client, cfg.ExportS3Bucket, key, data)
		if err != nil {
			logger.Fatal("S3 upload failed", zap.Error(err))
		}
		logger.Info("uploaded export", zap.String("location", uploaded))
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Documents exported: %d\n", len(rows))
	fmt.Printf("Output file:        %s\n", *out)
	if uploaded != "" {
		fmt.Printf("Uploaded to:        %s\n", uploaded)
	}
}
