package message

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jevinjosh/event-management/command"
	"github.com/jevinjosh/event-management/entity"
	"github.com/jevinjosh/event-management/event"
)

type StatsRecorder interface {
	OnBookingPlaced(ctx context.Context, e *event.BookingPlaced) error
	OnBookingCanceled(ctx context.Context, e *event.BookingCanceled) error
}

type ActivityRepo interface {
	Add(ctx context.Context, booking entity.Booking) error
	MarkCancelled(ctx context.Context, bookingID string, at time.Time) error
}

type CommandSender interface {
	Send(ctx context.Context, cmd any) error
}

type PaymentRefunder interface {
	RefundPayment(ctx context.Context, idempotencyKey, bookingID string, amount int) error
}

func handleRecordPlaced(s StatsRecorder) func(context.Context, *event.BookingPlaced) error {
	return func(ctx context.Context, e *event.BookingPlaced) error {
		return s.OnBookingPlaced(ctx, e)
	}
}

func handleRecordCanceled(s StatsRecorder) func(context.Context, *event.BookingCanceled) error {
	return func(ctx context.Context, e *event.BookingCanceled) error {
		return s.OnBookingCanceled(ctx, e)
	}
}

func handleStoreActivity(repo ActivityRepo) func(context.Context, *event.BookingPlaced) error {
	return func(ctx context.Context, e *event.BookingPlaced) error {
		if err := repo.Add(ctx, e.Booking()); err != nil {
			return fmt.Errorf("storing booking activity: %w", err)
		}
		return nil
	}
}

func handleMarkActivityCancelled(repo ActivityRepo) func(context.Context, *event.BookingCanceled) error {
	return func(ctx context.Context, e *event.BookingCanceled) error {
		if err := repo.MarkCancelled(ctx, e.BookingID, e.Header.PublishedAt); err != nil {
			return fmt.Errorf("marking booking activity cancelled: %w", err)
		}
		return nil
	}
}

func handleRequestRefund(c CommandSender) func(context.Context, *event.BookingCanceled) error {
	return func(ctx context.Context, e *event.BookingCanceled) error {
		if e.TotalPrice <= 0 {
			log.FromContext(ctx).Infof("Nothing to refund for booking %s", e.BookingID)
			return nil
		}

		cmd := command.NewRefundPayment(e.Header.IdempotencyKey, e.BookingID, e.TotalPrice)
		if err := c.Send(ctx, cmd); err != nil {
			return fmt.Errorf("sending refund command: %w", err)
		}
		return nil
	}
}

func handleRefundPayment(p PaymentRefunder) func(context.Context, *command.RefundPayment) error {
	return func(ctx context.Context, cmd *command.RefundPayment) error {
		if err := p.RefundPayment(ctx, cmd.Header.IdempotencyKey, cmd.BookingID, cmd.Amount); err != nil {
			return fmt.Errorf("refunding payment: %w", err)
		}
		return nil
	}
}
