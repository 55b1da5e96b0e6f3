// importcourses - Loads a CSV export of the course catalog into Firestore.
//
// Each row creates a course document plus the three category
// subcollections, each seeded with a placeholder paper so the category is
// addressable before any uploads. Rows with a repeated or empty course
// code are skipped.
//
// Expected CSV columns: Course Code, Course Name, source
//
// Usage:
//   go run ./cmd/importcourses -file courses.csv
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/LeeNgari/FirebaseScripts/internal/catalog"
	"github.com/LeeNgari/FirebaseScripts/internal/config"
	"github.com/LeeNgari/FirebaseScripts/internal/store"
)

func main() {
	file := flag.String("file", "courses.csv", "Path to the course CSV export")
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

	f, err := os.Open(*file)
	if err != nil {
		logger.Fatal("could not open CSV", zap.String("file", *file), zap.Error(err))
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		logger.Fatal("could not read CSV header", zap.Error(err))
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Course Code", "Course Name", "source"} {
		if _, ok := col[required]; !ok {
			logger.Fatal("CSV missing required column", zap.String("column", required))
		}
	}

	processed := make(map[string]bool)
	imported := 0
	errors := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Error("bad CSV row", zap.Error(err))
			errors++
			continue
		}

		code := strings.TrimSpace(row[col["Course Code"]])
		name := strings.TrimSpace(row[col["Course Name"]])
		school := strings.TrimSpace(row[col["source"]])
		if code == "" || processed[code] {
			continue
		}

		normalized := catalog.NormalizeCode(code)
		courseRef := st.Courses().Doc(code)
		_, err = courseRef.Set(ctx, map[string]interface{}{
			"course_name":           name,
			"normalized_code":       normalized,
			"school":                school,
			"course_name_lowercase": strings.ToLower(name),
			"searchable_fields":     catalog.SearchableFields(name, normalized),
			"total_papers":          0,
		})
		if err != nil {
			logger.Error("failed to create course", zap.String("course", code), zap.Error(err))
			errors++
			continue
		}

		for _, category := range store.Categories {
			if _, err := courseRef.Collection(category).Doc(store.PlaceholderID).Set(ctx, map[string]interface{}{}); err != nil {
				logger.Error("failed to seed category",
					zap.String("course", code), zap.String("category", category), zap.Error(err))
				errors++
			}
		}

		processed[code] = true
		imported++
		logger.Info("imported course", zap.String("code", code), zap.String("name", name))
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Courses imported: %d\n", imported)
	if errors > 0 {
		fmt.Printf("Errors:           %d\n", errors)
	}
}
