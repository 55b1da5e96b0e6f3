// refundcoins - Corrects the coin ledger from a coinaudit log: refunds
// download transactions that deducted a coin but never completed, marking
// each transaction refunded. With -bonus-users it additionally grants a
// goodwill bonus to a list of usernames, one generated bonus transaction
// per user.
//
// Usage:
//   go run ./cmd/refundcoins                             # Dry run
//   go run ./cmd/refundcoins -apply
//   go run ./cmd/refundcoins -apply -bonus-users names.txt -bonus-amount 3
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/LeeNgari/FirebaseScripts/internal/config"
	"github.com/LeeNgari/FirebaseScripts/internal/store"
)

func main() {
	apply := flag.Bool("apply", false, "Apply refunds (default is dry-run)")
	logFile := flag.String("log", "coin_transactions_log.json", "Audit log produced by coinaudit")
	bonusUsers := flag.String("bonus-users", "", "Optional file of usernames to grant a bonus, one per line")
	bonusAmount := flag.Int64("bonus-amount", 3, "Bonus coins per listed user")
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

	raw, err := os.ReadFile(*logFile)
	if err != nil {
		logger.Fatal("could not read audit log", zap.String("file", *logFile), zap.Error(err))
	}
	var transactions []store.CoinTransaction
	if err := json.Unmarshal(raw, &transactions); err != nil {
		logger.Fatal("could not parse audit log", zap.Error(err))
	}

	toRefund := incompleteDownloads(transactions)
	fmt.Printf("Transactions in log:      %d\n", len(transactions))
	fmt.Printf("Incomplete downloads:     %d\n", len(toRefund))
	fmt.Printf("Mode: %s\n", map[bool]string{true: "APPLY", false: "DRY-RUN"}[*apply])
	fmt.Println()

	if !*apply {
		for _, tx := range toRefund {
			fmt.Printf("  Would refund: user=%s tx=%s\n", tx.UserID, tx.TransactionID)
		}
		fmt.Println("\nThis was a DRY RUN. Run with -apply to refund.")
		return
	}

	ctx := context.Background()
	st, err := store.New(ctx, cfg.ProjectID, cfg.CredentialsFile)
	if err != nil {
		logger.Fatal("firestore connection failed", zap.Error(err))
	}
	defer st.Close()

	refunded := 0
	skipped := 0
	for _, tx := range toRefund {
		if tx.UserID == "" || tx.TransactionID == "" {
			logger.Warn("transaction missing user or transaction id")
			skipped++
			continue
		}
		if err := refund(ctx, st, tx); err != nil {
			logger.Error("refund failed",
				zap.String("user", tx.UserID),
				zap.String("tx", tx.TransactionID),
				zap.Error(err))
			skipped++
			continue
		}
		refunded++
		logger.Info("refunded coin",
			zap.String("user", tx.UserID), zap.String("tx", tx.TransactionID))
	}

	bonuses := 0
	if *bonusUsers != "" {
		bonuses = grantBonuses(ctx, st, *bonusUsers, *bonusAmount, logger)
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Refunded: %d\n", refunded)
	fmt.Printf("Skipped:  %d\n", skipped)
	if *bonusUsers != "" {
		fmt.Printf("Bonuses:  %d\n", bonuses)
	}
}

// incompleteDownloads picks out download transactions that deducted a
// coin but were never completed or already refunded.
func incompleteDownloads(transactions []store.CoinTransaction) []store.CoinTransaction {
	var out []store.CoinTransaction
	for _, tx := range transactions {
		if tx.Type == "download" && tx.Amount == -1 &&
			tx.Status != "completed" && tx.Status != "refunded" {
			out = append(out, tx)
		}
	}
	return out
}

// refund returns one coin to the user and marks the transaction refunded.
func refund(ctx context.Context, st *store.Client, tx store.CoinTransaction) error {
	userRef := st.Users().Doc(tx.UserID)
	if _, err := userRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user not found")
		}
		return err
	}

	if _, err := userRef.Update(ctx, []firestore.Update{
		{Path: "coins", Value: firestore.Increment(1)},
	}); err != nil {
		return fmt.Errorf("crediting coin: %w", err)
	}

	now := time.Now().UTC()
	txRef := userRef.Collection(store.SubCoinTransactions).Doc(tx.TransactionID)
	if _, err := txRef.Update(ctx, []firestore.Update{
		{Path: "status", Value: "refunded"},
		{Path: "completedAt", Value: now},
		{Path: "timestamp", Value: now},
	}); err != nil {
		return fmt.Errorf("marking transaction refunded: %w", err)
	}
	return nil
}

// grantBonuses credits each listed username and records a bonus_reward
// transaction for it. Unknown usernames are logged and skipped.
func grantBonuses(ctx context.Context, st *store.Client, file string, amount int64, logger *zap.Logger) int {
	f, err := os.Open(file)
	if err != nil {
		logger.Error("could not open bonus user list", zap.Error(err))
		return 0
	}
	defer f.Close()

	granted := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		username := strings.TrimSpace(scanner.Text())
		if username == "" {
			continue
		}

		users := st.Users().Where("username", "==", username).Documents(ctx)
		found := false
		for {
			user, err := users.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				logger.Error("querying username failed",
					zap.String("username", username), zap.Error(err))
				break
			}
			found = true

			if _, err := user.Ref.Update(ctx, []firestore.Update{
				{Path: "coins", Value: firestore.Increment(amount)},
			}); err != nil {
				logger.Error("crediting bonus failed",
					zap.String("username", username), zap.Error(err))
				continue
			}

			now := time.Now().UTC()
			rewardID := fmt.Sprintf("bonus_%s", uuid.New().String())
			reward := store.CoinTransaction{
				TransactionID: rewardID,
				Type:          "bonus_reward",
				Amount:        amount,
				Status:        "completed",
				Timestamp:     now,
				CompletedAt:   now,
			}
			if _, err := user.Ref.Collection(store.SubCoinTransactions).Doc(rewardID).Set(ctx, reward); err != nil {
				logger.Error("recording bonus transaction failed",
					zap.String("username", username), zap.Error(err))
				continue
			}
			granted++
			logger.Info("granted bonus",
				zap.String("username", username), zap.Int64("amount", amount))
		}
		users.Stop()

		if !found {
			logger.Warn("no user found for username", zap.String("username", username))
		}
	}
	return granted
}
