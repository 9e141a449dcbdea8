package services

import "farmmarket/internal/models"

// EventPublisher delivers order events to whoever reconciles payments out of band.
type EventPublisher interface {
	PublishOrderEvent(event models.OrderEvent) error
}
