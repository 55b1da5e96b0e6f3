// coinaudit - Exports recent coin transactions across all users to a JSON
// log, the input for refundcoins.
//
// Usage:
//   go run ./cmd/coinaudit                 # Last 7 days
//   go run ./cmd/coinaudit -days 30
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/LeeNgari/FirebaseScripts/internal/config"
	"github.com/LeeNgari/FirebaseScripts/internal/export"
	"github.com/LeeNgari/FirebaseScripts/internal/store"
)

func main() {
	days := flag.Int("days", 7, "How many days back to audit")
	out := flag.String("out", "coin_transactions_log.json", "Output JSON file")
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

	cutoff := time.Now().UTC().AddDate(0, 0, -*days)
	logger.Info("auditing coin transactions", zap.Time("since", cutoff))

	var entries []store.CoinTransaction
	usersSeen := 0

	users := st.Users().Documents(ctx)
	defer users.Stop()
	for {
		user, err := users.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Fatal("listing users failed", zap.Error(err))
		}
		usersSeen++

		txs := user.Ref.Collection(store.SubCoinTransactions).
			Where("timestamp", ">=", cutoff).
			Documents(ctx)
		for {
			tx, err := txs.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				logger.Error("listing transactions failed",
					zap.String("user", user.Ref.ID), zap.Error(err))
				break
			}

			var entry store.CoinTransaction
			if err := tx.DataTo(&entry); err != nil {
				logger.Warn("undecodable transaction",
					zap.String("user", user.Ref.ID),
					zap.String("tx", tx.Ref.ID),
					zap.Error(err))
				continue
			}
			entry.UserID = user.Ref.ID
			entry.TransactionID = tx.Ref.ID
			entries = append(entries, entry)
		}
		txs.Stop()
	}

	if err := export.WriteJSON(*out, entries); err != nil {
		logger.Fatal("writing audit log failed", zap.Error(err))
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Users checked:       %d\n", usersSeen)
	fmt.Printf("Transactions logged: %d\n", len(entries))
	fmt.Printf("Output file:         %s\n", *out)
}
