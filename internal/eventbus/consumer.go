package eventbus

import "context"

// Consumer handles events of the type it was subscribed to. Returning an error
// makes the bus retry the event; wrap ErrInvalidPayload to give up at once.
type Consumer interface {
	Consume(ctx context.Context, event Event) error
	GetWorkerCount() int
}

// ConsumerFunc adapts a plain function into a single-worker Consumer.
type ConsumerFunc func(ctx context.Context, event Event) error

func (f ConsumerFunc) Consume(ctx context.Context, event Event) error {
	return f(ctx, event)
}

func (f ConsumerFunc) GetWorkerCount() int {
	return 1
}
