package service

import (
	"context"

	"github.com/contractpro/contractpro/internal/storage"
)

type HealthService interface {
	Liveness(ctx context.Context) error
	Readiness(ctx context.Context) error
}

type healthService struct {
	contracts storage.ContractStorage
}

func NewHealthService(contracts storage.ContractStorage) HealthService {
	return &healthService{contracts: contracts}
}

func (s *healthService) Liveness(ctx context.Context) error {
	return nil
}

func (s *healthService) Readiness(ctx context.Context) error {
	return s.contracts.Ping(ctx)
}
