package customization

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customization"
)

// LogoResponse represents a logo submission in API responses.
// Details are written at the top level of the JSON document next to the fixed fields.
type LogoResponse struct {
	ID        uuid.UUID      `json:"id"`
	Approval  bool           `json:"approval"`
	Price     float64        `json:"price"`
	CreatedAt time.Time      `json:"createdAt"`
	Details   map[string]any `json:"-"`
}

// MarshalJSON merges Details into the document. Fixed fields win on key collisions.
func (r LogoResponse) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(r.Details)+4)
	for k, v := range r.Details {
		doc[k] = v
	}
	doc["id"] = r.ID
	doc["approval"] = r.Approval
	doc["price"] = r.Price
	doc["createdAt"] = r.CreatedAt
	return json.Marshal(doc)
}

// ToLogoResponse converts a domain Logo to LogoResponse
func ToLogoResponse(l *customization.Logo) LogoResponse {
	return LogoResponse{
		ID:        l.ID,
		Approval:  l.Approval,
		Price:     l.Price,
		CreatedAt: l.CreatedAt,
		Details:   l.Details,
	}
}
