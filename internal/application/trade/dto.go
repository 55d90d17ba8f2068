package trade

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/trade"
)

// OrderResponse represents an order in list responses.
// Details are written at the top level of the JSON document next to the fixed fields.
type OrderResponse struct {
	ID          uuid.UUID      `json:"id"`
	Status      string         `json:"status"`
	TotalAmount float64        `json:"totalAmount"`
	CreatedAt   time.Time      `json:"createdAt"`
	Details     map[string]any `json:"-"`
}

// MarshalJSON merges Details into the document. Fixed fields win on key collisions.
func (r OrderResponse) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(r.Details)+4)
	for k, v := range r.Details {
		doc[k] = v
	}
	doc["id"] = r.ID
	doc["status"] = r.Status
	doc["totalAmount"] = r.TotalAmount
	doc["createdAt"] = r.CreatedAt
	return json.Marshal(doc)
}

// OrderStatusResponse is the reduced projection returned for a single order
type OrderStatusResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		Details:     o.Details,
	}
}

// ToOrderResponses converts a slice of domain Orders to OrderResponses
func ToOrderResponses(orders []*trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = ToOrderResponse(o)
	}
	return responses
}
