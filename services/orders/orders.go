package orders

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/samber/mo"

	"slackproxy/db"
	"slackproxy/models"
	"slackproxy/utils"
)

type OrdersService struct {
	ordersRepo *db.RedisOrdersRepository
}

func NewOrdersService(repo *db.RedisOrdersRepository) *OrdersService {
	return &OrdersService{ordersRepo: repo}
}

// CreateOrder records a registration submitted from Slack. It stays valid until
// the wiki confirms it or the order TTL elapses.
func (s *OrdersService) CreateOrder(ctx context.Context, order *models.RegistrationOrder) error {
	log.Printf("📋 Starting to create registration order for installation %s", order.InstallationID)

	order.WikiURI = utils.NormalizeWikiURI(order.WikiURI)
	if !utils.IsHTTPURL(order.WikiURI) {
		return fmt.Errorf("wiki url must be an http or https url: %q", order.WikiURI)
	}
	if order.TokenPtoG == "" || order.TokenGtoP == "" {
		return fmt.Errorf("registration order requires both tokens")
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	if err := s.ordersRepo.SaveOrder(ctx, order); err != nil {
		return fmt.Errorf("failed to save registration order: %w", err)
	}

	log.Printf("📋 Completed successfully - created registration order for %s", order.WikiURI)
	return nil
}

// GetOrderByTokenGtoP returns the pending order for tokenGtoP. The order stays
// stored until DeleteOrderByTokenGtoP is called or its TTL elapses.
func (s *OrdersService) GetOrderByTokenGtoP(
	ctx context.Context,
	tokenGtoP string,
) (mo.Option[*models.RegistrationOrder], error) {
	if tokenGtoP == "" {
		return mo.None[*models.RegistrationOrder](), nil
	}

	order, err := s.ordersRepo.GetOrderByTokenGtoP(ctx, tokenGtoP)
	if err != nil {
		return mo.None[*models.RegistrationOrder](), fmt.Errorf("failed to get registration order: %w", err)
	}
	return order, nil
}

func (s *OrdersService) DeleteOrderByTokenGtoP(ctx context.Context, tokenGtoP string) error {
	if err := s.ordersRepo.DeleteOrderByTokenGtoP(ctx, tokenGtoP); err != nil {
		return fmt.Errorf("failed to delete registration order: %w", err)
	}
	log.Printf("📋 Deleted confirmed registration order")
	return nil
}
