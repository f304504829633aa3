package services

import (
	"time"

	"mercado/internal/models"
)

// EventPublisher sends domain events to the message broker. The RabbitMQ
// client satisfies this; tests substitute a recorder.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ProductsExchange is the topic exchange lifecycle events are published to.
const ProductsExchange = "products"

// Routing keys for product lifecycle events.
const (
	EventProductSubmitted   = "product.submitted"
	EventProductApproved    = "product.approved"
	EventProductRejected    = "product.rejected"
	EventProductActivated   = "product.activated"
	EventProductDeactivated = "product.deactivated"
)

var eventRoutingKeys = map[models.LifecycleAction]string{
	models.ActionSubmit:     EventProductSubmitted,
	models.ActionApprove:    EventProductApproved,
	models.ActionReject:     EventProductRejected,
	models.ActionReactivate: EventProductActivated,
	models.ActionDeactivate: EventProductDeactivated,
}

// ProductEvent is the payload published on every lifecycle transition.
type ProductEvent struct {
	ProductID  string                 `json:"product_id"`
	SellerID   string                 `json:"seller_id"`
	Action     models.LifecycleAction `json:"action"`
	FromStatus models.ProductStatus   `json:"from_status"`
	ToStatus   models.ProductStatus   `json:"to_status"`
	Reason     string                 `json:"reason,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
