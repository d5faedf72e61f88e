package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Delivery is one scheduled digest posted to a channel.
type Delivery struct {
	Day         time.Time `json:"day"`
	ChannelID   string    `json:"channel_id"`
	MessageID   string    `json:"message_id"`
	Items       int       `json:"items"`
	TotalPrice  float64   `json:"total_price"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// DeliveryLog stores deliveries in the digest_deliveries table.
type DeliveryLog struct {
	DB *sql.DB
}

// NewDeliveryLog wraps an already migrated database.
func NewDeliveryLog(db *sql.DB) *DeliveryLog {
	return &DeliveryLog{DB: db}
}

// RecordDelivery appends d to the log.
func (l *DeliveryLog) RecordDelivery(ctx context.Context, d Delivery) error {
	if d.DeliveredAt.IsZero() {
		d.DeliveredAt = time.Now().UTC()
	}
	_, err := l.DB.ExecContext(ctx,
		`INSERT INTO digest_deliveries (day, channel_id, message_id, items, total_price, delivered_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		d.Day.Format(time.DateOnly), d.ChannelID, d.MessageID, d.Items, d.TotalPrice, d.DeliveredAt)
	if err != nil {
		return fmt.Errorf("record delivery: %w", err)
	}
	return nil
}

// LastDelivery returns the most recent delivery, or nil when none exists.
func (l *DeliveryLog) LastDelivery(ctx context.Context) (*Delivery, error) {
	var d Delivery
	err := l.DB.QueryRowContext(ctx,
		`SELECT day, channel_id, message_id, items, total_price::float8, delivered_at
		 FROM digest_deliveries ORDER BY delivered_at DESC, id DESC LIMIT 1`).
		Scan(&d.Day, &d.ChannelID, &d.MessageID, &d.Items, &d.TotalPrice, &d.DeliveredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last delivery: %w", err)
	}
	return &d, nil
}

// Ping checks database connectivity.
func (l *DeliveryLog) Ping(ctx context.Context) error {
	return l.DB.PingContext(ctx)
}
