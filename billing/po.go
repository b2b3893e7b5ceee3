package billing

import (
	"context"
	"fmt"

	"github.com/warp/billing-engine/docnum"
)

// =============================================================================
// PO FACTORY - Builds purchase orders
// =============================================================================

// POFactory builds PurchaseOrder records from trainer, training and
// payment inputs. Document numbers come from the injected generator and
// creation timestamps from the injected clock.
type POFactory struct {
	Numbers docnum.Generator
	Clock   Clock
}

func NewPOFactory(numbers docnum.Generator, clock Clock) *POFactory {
	return &POFactory{Numbers: numbers, Clock: clock}
}

// CreatePO assembles a new ACTIVE purchase order with its total amount
// computed from the payment terms. The returned PO is never mutated by
// any later operation in this package.
func (f *POFactory) CreatePO(ctx context.Context, trainer Trainer, training Training, terms PaymentTerms) (*PurchaseOrder, error) {
	number, err := f.Numbers.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PO number: %w", err)
	}

	return &PurchaseOrder{
		PONumber:    number,
		Trainer:     trainer,
		Training:    training,
		Terms:       terms,
		TotalAmount: terms.Amount(),
		CreatedAt:   f.Clock.Now(),
		Status:      POActive,
	}, nil
}
