package db

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN not set; skipping postgres test")
	}
	database, err := Connect(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestMigrateIdempotent(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, database); err != nil {
			t.Fatalf("migrate run %d: %v", i+1, err)
		}
	}
}

func TestDeliveryLog(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	if err := Migrate(ctx, database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := database.ExecContext(ctx, `DELETE FROM digest_deliveries WHERE channel_id = 'test-chan'`); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	log := NewDeliveryLog(database)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	first := Delivery{Day: day, ChannelID: "test-chan", MessageID: "m1", Items: 3, TotalPrice: 165000, DeliveredAt: time.Now().Add(time.Hour).UTC()}
	second := first
	second.MessageID = "m2"
	second.DeliveredAt = first.DeliveredAt.Add(time.Minute)

	for _, d := range []Delivery{first, second} {
		if err := log.RecordDelivery(ctx, d); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := log.LastDelivery(ctx)
	if err != nil {
		t.Fatalf("last delivery: %v", err)
	}
	if got == nil || got.MessageID != "m2" {
		t.Fatalf("last delivery = %+v, want m2", got)
	}
	if got.Items != 3 || got.TotalPrice != 165000 {
		t.Errorf("unexpected row: %+v", got)
	}
	if got.Day.Format(time.DateOnly) != "2024-06-01" {
		t.Errorf("day = %v", got.Day)
	}
}

func TestConnectEmptyDSN(t *testing.T) {
	if _, err := Connect(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}
