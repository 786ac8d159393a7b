// Package order holds the wire-level order types shared by the checkout flow
// and the backend API client.
package order

import (
	"context"
	"fmt"
)

// Item is a single order line as submitted to the backend.
type Item struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Request is the order-creation payload: validated customer fields plus the
// cart contents. Total is in minor currency units and items keep the cart's
// line order.
type Request struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Total   int64  `json:"total"`
	Items   []Item `json:"items"`
}

// Confirmation is the server-assigned result of a successful submission. The
// client only relies on the order identifier.
type Confirmation struct {
	ID int64 `json:"id"`
}

// RejectedError indicates the backend rejected the payload itself (a 400
// response). Message is the server-supplied text, surfaced to the user
// verbatim.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("order rejected: %s", e.Message)
}

// Placer submits an order-creation request to the backend.
type Placer interface {
	Place(ctx context.Context, req Request) (*Confirmation, error)
}
