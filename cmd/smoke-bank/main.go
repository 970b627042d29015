package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"bankist.org/internal/bank/remote"
)

// End-to-end smoke test against a running bankist API: log in as two demo
// accounts, move money between them, and verify the ledger arithmetic from
// the outside.
func main() {
	base := os.Getenv("BANKIST_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	sender := remote.New(base)
	receiver := remote.New(base)

	senderView, err := sender.Login(ctx, "js", "1111")
	if err != nil {
		log.Fatalf("login sender: %v", err)
	}
	receiverView, err := receiver.Login(ctx, "jd", "2222")
	if err != nil {
		log.Fatalf("login receiver: %v", err)
	}
	totalBefore := senderView.Balance.Add(receiverView.Balance)

	amount := decimal.RequireFromString("420")
	senderView, err = sender.Transfer(ctx, "jd", amount)
	if err != nil {
		log.Fatalf("transfer: %v", err)
	}

	receiverView, err = receiver.View(ctx)
	if err != nil {
		log.Fatalf("receiver view: %v", err)
	}
	totalAfter := senderView.Balance.Add(receiverView.Balance)
	if !totalAfter.Equal(totalBefore) {
		log.Fatalf("conservation failed: %s != %s", totalAfter, totalBefore)
	}

	last := receiverView.Rows[len(receiverView.Rows)-1]
	if last.Type != "deposit" || !last.Amount.Equal(amount) {
		log.Fatalf("receiver did not record the inflow: %+v", last)
	}

	sortedView, err := sender.ToggleSort(ctx)
	if err != nil {
		log.Fatalf("toggle sort: %v", err)
	}
	for i := 1; i < len(sortedView.Rows); i++ {
		if sortedView.Rows[i].Amount.LessThan(sortedView.Rows[i-1].Amount) {
			log.Fatalf("sorted view not ascending at row %d", i)
		}
	}

	if _, err := sender.RequestLoan(ctx, decimal.RequireFromString("1000")); err != nil {
		log.Fatalf("loan: %v", err)
	}

	if err := sender.Logout(ctx); err != nil {
		log.Fatalf("logout sender: %v", err)
	}
	if err := receiver.Logout(ctx); err != nil {
		log.Fatalf("logout receiver: %v", err)
	}

	fmt.Println("bankist smoke test passed")
}
