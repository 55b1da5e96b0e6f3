// addcourse - Interactively adds single courses to the catalog.
//
// Prompts for code, name and school; refuses codes that already exist.
// Press Enter on an empty prompt to exit.
//
// Usage:
//   go run ./cmd/addcourse
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/LeeNgari/FirebaseScripts/internal/catalog"
	"github.com/LeeNgari/FirebaseScripts/internal/config"
	"github.com/LeeNgari/FirebaseScripts/internal/store"
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

	ctx := context.Background()
	st, err := store.New(ctx, cfg.ProjectID, cfg.CredentialsFile)
	if err != nil {
		logger.Fatal("firestore connection failed", zap.Error(err))
	}
	defer st.Close()

	in := bufio.NewReader(os.Stdin)
	added := 0

	for {
		fmt.Println("\n=== Add New Course ===")
		fmt.Println("(Press Enter without input to exit)")

		code := prompt(in, "Enter course code: ")
		if code == "" {
			break
		}
		name := prompt(in, "Enter course name: ")
		if name == "" {
			break
		}
		school := prompt(in, "Enter school/department: ")
		if school == "" {
			break
		}

		if err := addCourse(ctx, st, code, name, school); err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		added++
		fmt.Printf("Added course: %s - %s\n", code, name)
	}

	fmt.Printf("\nCourses added: %d\n", added)
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func addCourse(ctx context.Context, st *store.Client, code, name, school string) error {
	ref := st.Courses().Doc(code)

	_, err := ref.Get(ctx)
	if err == nil {
		return fmt.Errorf("course %s already exists", code)
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("checking course %s: %w", code, err)
	}

	normalized := catalog.NormalizeCode(code)
	_, err = ref.Set(ctx, map[string]interface{}{
		"course_name":           name,
		"normalized_code":       normalized,
		"school":                school,
		"course_name_lowercase": strings.ToLower(name),
		"searchable_fields":     catalog.SearchableFields(name, normalized),
		"total_papers":          0,
	})
	if err != nil {
		return fmt.Errorf("creating course %s: %w", code, err)
	}

	for _, category := range store.Categories {
		if _, err := ref.Collection(category).Doc(store.PlaceholderID).Set(ctx, map[string]interface{}{}); err != nil {
			return fmt.Errorf("seeding %s for %s: %w", category, code, err)
		}
	}
	return nil
}
