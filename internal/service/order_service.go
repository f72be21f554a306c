package service

import (
	"context"
	"errors"

	"github.com/netpointcafe/portal-backend/internal/model"
	"github.com/netpointcafe/portal-backend/internal/repository"
	"gorm.io/gorm"
)

type OrderService interface {
	Create(ctx context.Context, userUID string, serviceID *uint64, description *string) (*model.Order, error)
	ListMine(ctx context.Context, userUID string) ([]model.Order, error)
	ListMyPayments(ctx context.Context, userUID string) ([]model.Payment, error)
}

type orderService struct {
	repo    repository.OrderRepository
	catalog repository.CatalogRepository
}

func NewOrderService(repo repository.OrderRepository, catalog repository.CatalogRepository) OrderService {
	return &orderService{repo: repo, catalog: catalog}
}

func (s *orderService) Create(ctx context.Context, userUID string, serviceID *uint64, description *string) (*model.Order, error) {
	if userUID == "" {
		return nil, errors.New("user uid is required")
	}
	var total *uint
	if serviceID != nil {
		svc, err := s.catalog.FindByID(ctx, *serviceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		price := svc.PriceCents
		total = &price
	}
	o := &model.Order{
		UserUID:     userUID,
		ServiceID:   serviceID,
		Description: description,
		Status:      model.OrderPending,
		TotalCents:  total,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *orderService) ListMine(ctx context.Context, userUID string) ([]model.Order, error) {
	return s.repo.ListByUser(ctx, userUID)
}

func (s *orderService) ListMyPayments(ctx context.Context, userUID string) ([]model.Payment, error) {
	return s.repo.ListPaymentsByUser(ctx, userUID)
}
