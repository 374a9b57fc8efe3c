package usecase

import (
	"context"
	"fmt"
	"time"

	"cinephile/internal/data/entity"
	"cinephile/internal/data/repository"
	"cinephile/internal/dto/request"
	"cinephile/internal/dto/response"

	"go.uber.org/zap"
)

type AddressService interface {
	List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.AddressResponse], error)
	Create(ctx context.Context, req *request.AddressRequest) (*response.AddressResponse, error)
	Get(ctx context.Context, addressID string) (*response.AddressResponse, error)
	Update(ctx context.Context, addressID string, req *request.AddressRequest) (*response.AddressResponse, error)
	Delete(ctx context.Context, addressID string) error
}

type addressService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAddressService(repo *repository.Repository, log *zap.Logger) AddressService {
	return &addressService{
		repo: repo,
		log:  log.With(zap.String("service", "address")),
	}
}

func (s *addressService) List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.AddressResponse], error) {
	addresses, err := s.repo.Address.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get addresses: %w", err)
	}

	total, err := s.repo.Address.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count addresses: %w", err)
	}

	data := response.Map(addresses, func(a *entity.Address) response.AddressResponse {
		return response.AddressToResponse(a)
	})
	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *addressService) Create(ctx context.Context, req *request.AddressRequest) (*response.AddressResponse, error) {
	address := &entity.Address{Base: entity.NewBase(time.Now())}
	req.Apply(address)

	if errs := checkRequest(req, req.Missing(), address); len(errs) > 0 {
		s.log.Warn("Create address validation failed", zap.Any("errors", errs))
		return nil, errs
	}

	if err := s.repo.Address.Create(ctx, address); err != nil {
		return nil, storeError("create address", err)
	}

	s.log.Info("Address created", zap.String("address_id", address.ID.String()))

	resp := response.AddressToResponse(address)
	return &resp, nil
}

func (s *addressService) find(ctx context.Context, addressID string) (*entity.Address, error) {
	id, err := parseID("address", addressID)
	if err != nil {
		return nil, err
	}

	address, err := s.repo.Address.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get address %s: %w", id, err)
	}
	if address == nil {
		return nil, notFound("address", id)
	}
	return address, nil
}

func (s *addressService) Get(ctx context.Context, addressID string) (*response.AddressResponse, error) {
	address, err := s.find(ctx, addressID)
	if err != nil {
		return nil, err
	}

	resp := response.AddressToResponse(address)
	return &resp, nil
}

func (s *addressService) Update(ctx context.Context, addressID string, req *request.AddressRequest) (*response.AddressResponse, error) {
	address, err := s.find(ctx, addressID)
	if err != nil {
		return nil, err
	}

	req.Apply(address)
	if errs := checkRequest(req, nil, address); len(errs) > 0 {
		s.log.Warn("Update address validation failed",
			zap.String("address_id", addressID),
			zap.Any("errors", errs),
		)
		return nil, errs
	}

	address.Touch(time.Now())
	if err := s.repo.Address.Update(ctx, address); err != nil {
		return nil, storeError("update address", err)
	}

	resp := response.AddressToResponse(address)
	return &resp, nil
}

func (s *addressService) Delete(ctx context.Context, addressID string) error {
	id, err := parseID("address", addressID)
	if err != nil {
		return err
	}

	if err := s.repo.Address.Delete(ctx, id); err != nil {
		return storeError("delete address", err)
	}

	s.log.Info("Address deleted", zap.String("address_id", addressID))
	return nil
}
