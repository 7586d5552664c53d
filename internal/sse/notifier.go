package sse

import (
	"time"

	"github.com/chinaboxmv/chinabox_api/internal/models"
)

// LifecycleNotifier is the interface services use to emit curation events.
type LifecycleNotifier interface {
	NotifyRequestStatusChanged(req *models.ProductRequest)
	NotifyRequestPriced(req *models.ProductRequest)
	NotifyPaymentStatusChanged(rec *models.PaymentRecord)
}

// HubNotifier implements LifecycleNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyRequestStatusChanged(req *models.ProductRequest) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(requestToEvent(EventRequestStatusChanged, req))
}

func (n *HubNotifier) NotifyRequestPriced(req *models.ProductRequest) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(requestToEvent(EventRequestPriced, req))
}

func (n *HubNotifier) NotifyPaymentStatusChanged(rec *models.PaymentRecord) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&LifecycleEvent{
		Event:     EventPaymentStatusChanged,
		ID:        rec.ID,
		Status:    string(rec.Status),
		OwnerID:   rec.OwnerID,
		Timestamp: time.Now(),
	})
}

func requestToEvent(eventType EventType, req *models.ProductRequest) *LifecycleEvent {
	var price *string
	if req.Price != nil {
		s := req.Price.String()
		price = &s
	}
	return &LifecycleEvent{
		Event:     eventType,
		ID:        req.ID,
		Name:      req.Name,
		Status:    string(req.Status),
		Price:     price,
		OwnerID:   req.OwnerID,
		Timestamp: time.Now(),
	}
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifyRequestStatusChanged(req *models.ProductRequest) {}
func (n *NopNotifier) NotifyRequestPriced(req *models.ProductRequest)       {}
func (n *NopNotifier) NotifyPaymentStatusChanged(rec *models.PaymentRecord) {}
