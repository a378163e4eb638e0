package serverApp

import (
	"context"
	"fmt"

	"jengamart/internal/pkg/logger"
	"jengamart/internal/pkg/poller"
)

// InitWorker builds the shared polling pool. Push confirmation loops are
// registered per flow by the payment service and torn down when the payment
// is confirmed or the checkout is cancelled.
func InitWorker(ctx context.Context) *poller.Registry {
	registry, err := poller.NewRegistry(100)
	if err != nil {
		panic(fmt.Errorf("failed to create worker pool: %w", err))
	}

	go func() {
		<-ctx.Done()
		logger.Info.Println("Releasing worker pool")
		registry.Release()
	}()

	return registry
}
