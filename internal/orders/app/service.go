package app

import (
	"context"
	"log/slog"

	"github.com/montluxe/storefront/internal/orders/app/commands"
	"github.com/montluxe/storefront/internal/orders/app/queries"
	"github.com/montluxe/storefront/internal/orders/domain"
	"github.com/montluxe/storefront/internal/orders/metrics"
	"github.com/montluxe/storefront/internal/orders/ports"
)

// Service bundles use cases for handling checkout and orders via the API.
type Service struct {
	idemStore         ports.IdempotencyStore
	placeOrderHandler commands.CommandHandler
	getOrderHandler   *queries.GetOrderQueryHandler
	listOrdersHandler *queries.ListOrdersQueryHandler
}

// NewService wires required dependencies.
func NewService(
	repo ports.OrderRepository,
	catalog ports.CatalogReader,
	events ports.EventBus,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Service {
	coreHandler := commands.NewPlaceOrderCommandHandler(repo, catalog, events)
	observableHandler := commands.NewObservableCommandHandler(coreHandler, logger, metrics)

	return &Service{
		idemStore:         idem,
		placeOrderHandler: observableHandler,
		getOrderHandler:   queries.NewGetOrderQueryHandler(repo),
		listOrdersHandler: queries.NewListOrdersQueryHandler(repo),
	}
}

// PlaceOrder validates a checkout submission against the catalog and either
// records an order or reports the refused lines.
func (s *Service) PlaceOrder(ctx context.Context, cmd commands.PlaceOrderCommand) (*domain.Placement, error) {
	return s.placeOrderHandler.Handle(ctx, cmd)
}

// GetOrder retrieves an order by ID.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.getOrderHandler.Handle(ctx, queries.GetOrderQuery{OrderID: id})
}

// ListOrders returns orders using pagination.
func (s *Service) ListOrders(ctx context.Context, query queries.ListOrdersQuery) ([]domain.Order, error) {
	return s.listOrdersHandler.Handle(ctx, query)
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
