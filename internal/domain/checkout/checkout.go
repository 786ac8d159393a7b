// Package checkout turns user-entered customer fields plus the current cart
// contents into a validated order submission and reconciles the outcome.
package checkout

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/bondx/storefront/internal/domain/cart"
	"github.com/bondx/storefront/internal/domain/order"
)

// Status is the submission lifecycle state: Idle -> Pending -> Succeeded or
// Failed. Failed permits a retry; Succeeded is terminal until Reset.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Sentinel errors for locally rejected submissions. None of them transition
// the state machine or touch the network.
var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	ErrCompleted      = errors.New("checkout already completed")
)

// genericFailure is shown for transport failures and unexpected statuses,
// where no server message is available.
const genericFailure = "failed to create order"

// Orchestrator drives a single checkout session against the Cart Store and
// the order backend. On success it clears the cart exactly once; on any
// failure the cart is left untouched so the user can correct and resubmit.
type Orchestrator struct {
	cart   *cart.Store
	placer order.Placer
	lg     *zap.Logger

	mu      sync.Mutex
	status  Status
	failure string
}

// New creates an Orchestrator in the Idle state.
func New(cartStore *cart.Store, placer order.Placer, lg *zap.Logger) *Orchestrator {
	return &Orchestrator{
		cart:   cartStore,
		placer: placer,
		lg:     lg,
	}
}

// Status returns the current submission state.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Failure returns the user-visible message of the last failed submission, or
// an empty string when the orchestrator is not in the Failed state.
func (o *Orchestrator) Failure() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.failure
}

// Reset returns the orchestrator to Idle for a fresh checkout session. It has
// no effect while a submission is pending.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status == StatusPending {
		return
	}
	o.status = StatusIdle
	o.failure = ""
}

// Submit validates the form and the cart, builds the order request, and
// drives it through the backend. Local rejections (empty cart, field errors,
// re-entry) return before any I/O and leave the state machine where it was.
func (o *Orchestrator) Submit(ctx context.Context, form Form) (*order.Confirmation, error) {
	req, err := o.begin(form)
	if err != nil {
		return nil, err
	}

	o.lg.Info("Submitting order",
		zap.Int("items", len(req.Items)),
		zap.Int64("total", req.Total),
	)

	conf, err := o.placer.Place(ctx, req)
	if err != nil {
		msg := genericFailure
		var rejected *order.RejectedError
		if errors.As(err, &rejected) {
			msg = rejected.Message
		}
		o.fail(msg)
		o.lg.Warn("Order submission failed", zap.String("reason", msg), zap.Error(err))
		return nil, errors.Wrap(err, "place order")
	}

	// The success state is observable before the cart is cleared; the clear
	// runs exactly once per successful submission and never on failure.
	o.succeed()
	o.cart.Clear()

	o.lg.Info("Order confirmed", zap.Int64("order_id", conf.ID))
	return conf, nil
}

// begin performs the local checks and, when they pass, captures a consistent
// cart snapshot into an order request and transitions to Pending.
func (o *Orchestrator) begin(form Form) (order.Request, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.status {
	case StatusPending:
		return order.Request{}, ErrSubmitInFlight
	case StatusSucceeded:
		return order.Request{}, ErrCompleted
	}

	snap := o.cart.Snapshot()
	if len(snap.Lines) == 0 {
		return order.Request{}, ErrEmptyCart
	}

	if fieldErrs := validateForm(form); fieldErrs != nil {
		return order.Request{}, fieldErrs
	}

	items := make([]order.Item, len(snap.Lines))
	var total int64
	for i, line := range snap.Lines {
		items[i] = order.Item{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
		}
		total += line.Subtotal()
	}

	o.status = StatusPending
	o.failure = ""

	return order.Request{
		Name:    form.Name,
		Email:   form.Email,
		Address: form.Address,
		Total:   total,
		Items:   items,
	}, nil
}

func (o *Orchestrator) fail(msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = StatusFailed
	o.failure = msg
}

func (o *Orchestrator) succeed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = StatusSucceeded
	o.failure = ""
}
