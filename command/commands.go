package command

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

type header struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func newHeader(idempotencyKey string) header {
	return header{
		ID:             watermill.NewUUID(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

type RefundPayment struct {
	Header    header `json:"header"`
	BookingID string `json:"booking_id"`
	Amount    int    `json:"amount"`
}

func NewRefundPayment(idempotencyKey, bookingID string, amount int) RefundPayment {
	return RefundPayment{
		Header:    newHeader(idempotencyKey),
		BookingID: bookingID,
		Amount:    amount,
	}
}
