package order

import "context"

// MultiSink delivers each ticket to every sink, returning the first
// error after all sinks have been attempted.
type MultiSink []TicketSink

func (m MultiSink) PublishTicket(ctx context.Context, ticket KitchenTicket) error {
	var first error
	for _, sink := range m {
		if err := sink.PublishTicket(ctx, ticket); err != nil && first == nil {
			first = err
		}
	}
	return first
}
