package queue

import (
	"context"
	"fmt"

	"zaiqa-pos/internal/order"
)

const (
	EventsExchange = "zaiqa.events"

	kitchenQueue = "kitchen.tickets"
)

// TicketPublisher pushes kitchen tickets onto the events exchange so the
// kitchen display consumer can pick them up even while no display is
// connected over websocket.
type TicketPublisher struct {
	client *Client
}

func NewTicketPublisher(client *Client) (*TicketPublisher, error) {
	if err := client.EnsureExchange(EventsExchange); err != nil {
		return nil, err
	}
	if _, err := client.EnsureQueue(kitchenQueue); err != nil {
		return nil, err
	}
	if err := client.BindQueue(kitchenQueue, EventsExchange, "kitchen.ticket.*"); err != nil {
		return nil, err
	}
	return &TicketPublisher{client: client}, nil
}

func (p *TicketPublisher) PublishTicket(ctx context.Context, ticket order.KitchenTicket) error {
	key := fmt.Sprintf("kitchen.ticket.%d", ticket.BranchID)
	return p.client.PublishJSON(ctx, EventsExchange, key, ticket)
}
