package clients

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/lithammer/shortuuid/v3"
)

var (
	ErrPaymentMethodRequired = errors.New("payment method is required")
	ErrIdempotencyKeyReused  = errors.New("idempotency key reused with a different payment")
)

type Charge struct {
	Reference     string
	Amount        int
	PaymentMethod string
}

type Refund struct {
	BookingID string
	Amount    int
}

// SimulatedPayments stands in for a payment provider. Charges and refunds are
// deduplicated by idempotency key. A charge refunded under its own key can be
// charged again with that key.
type SimulatedPayments struct {
	lock    sync.Mutex
	charges map[string]Charge
	refunds map[string]Refund

	charged  []Charge
	refunded []Refund
}

func NewSimulatedPayments() *SimulatedPayments {
	return &SimulatedPayments{
		charges: make(map[string]Charge),
		refunds: make(map[string]Refund),
	}
}

func (p *SimulatedPayments) Charge(ctx context.Context, idempotencyKey string, amount int, paymentMethod string) (string, error) {
	if paymentMethod == "" {
		return "", ErrPaymentMethodRequired
	}
	if amount < 0 {
		return "", fmt.Errorf("invalid charge amount %d", amount)
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	if c, ok := p.charges[idempotencyKey]; ok {
		if _, refunded := p.refunds[idempotencyKey]; !refunded {
			if c.Amount != amount || c.PaymentMethod != paymentMethod {
				return "", ErrIdempotencyKeyReused
			}
			return c.Reference, nil
		}
		delete(p.refunds, idempotencyKey)
	}

	c := Charge{
		Reference:     "pay_" + shortuuid.New(),
		Amount:        amount,
		PaymentMethod: paymentMethod,
	}
	p.charges[idempotencyKey] = c
	p.charged = append(p.charged, c)

	log.FromContext(ctx).WithField("payment_reference", c.Reference).Infof("charged %d via %s", amount, paymentMethod)

	return c.Reference, nil
}

func (p *SimulatedPayments) RefundPayment(ctx context.Context, idempotencyKey, bookingID string, amount int) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if _, ok := p.refunds[idempotencyKey]; ok {
		log.FromContext(ctx).Infof("refund for booking %s already issued", bookingID)
		return nil
	}

	r := Refund{BookingID: bookingID, Amount: amount}
	p.refunds[idempotencyKey] = r
	p.refunded = append(p.refunded, r)
	log.FromContext(ctx).Infof("refunded %d for booking %s", amount, bookingID)

	return nil
}

func (p *SimulatedPayments) Refunds() []Refund {
	p.lock.Lock()
	defer p.lock.Unlock()

	refunds := make([]Refund, len(p.refunded))
	copy(refunds, p.refunded)
	return refunds
}

// NetCharged is everything charged minus everything refunded.
func (p *SimulatedPayments) NetCharged() int {
	p.lock.Lock()
	defer p.lock.Unlock()

	var total int
	for _, c := range p.charged {
		total += c.Amount
	}
	for _, r := range p.refunded {
		total -= r.Amount
	}
	return total
}
