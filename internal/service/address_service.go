package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cardshop/hotspot-api/internal/dto"
	"github.com/cardshop/hotspot-api/internal/models"
	appErrors "github.com/cardshop/hotspot-api/pkg/errors"
	"github.com/cardshop/hotspot-api/pkg/lookup"
	"github.com/cardshop/hotspot-api/pkg/phone"
)

type addressRepository interface {
	ListByOrganization(ctx context.Context, organization string) ([]models.Address, error)
	FindByID(ctx context.Context, id int64) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, address *models.Address) error
}

// AddressService manages shipping addresses; phones are normalized on every save.
type AddressService struct {
	repo      addressRepository
	countries lookup.Enumeration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAddressService constructs an AddressService.
func NewAddressService(repo addressRepository, countries lookup.Enumeration, validate *validator.Validate, logger *zap.Logger) *AddressService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddressService{repo: repo, countries: countries, validator: validate, logger: logger}
}

// List returns the organization's addresses.
func (s *AddressService) List(ctx context.Context, organization string) ([]dto.AddressResponse, error) {
	addresses, err := s.repo.ListByOrganization(ctx, organization)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list addresses")
	}
	items := make([]dto.AddressResponse, 0, len(addresses))
	for i := range addresses {
		items = append(items, s.toResponse(&addresses[i]))
	}
	return items, nil
}

// Create validates req and stores a new address for organization.
func (s *AddressService) Create(ctx context.Context, organization string, req dto.AddressRequest) (*dto.AddressResponse, error) {
	address := &models.Address{Organization: organization}
	if err := s.apply(address, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, address); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to create address")
	}
	resp := s.toResponse(address)
	return &resp, nil
}

// Update replaces the address fields, normalizing the phone again.
func (s *AddressService) Update(ctx context.Context, organization string, id int64, req dto.AddressRequest) (*dto.AddressResponse, error) {
	address, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "address not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load address")
	}
	if address.Organization != organization {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "address not found")
	}
	if err := s.apply(address, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "address not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to update address")
	}
	resp := s.toResponse(address)
	return &resp, nil
}

func (s *AddressService) apply(address *models.Address, req dto.AddressRequest) error {
	req.Country = strings.ToUpper(strings.TrimSpace(req.Country))
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid address payload")
	}
	if !s.countries.Contains(req.Country) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown country")
	}
	normalized, err := phone.Normalize(req.Phone)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidPhone.Code, appErrors.ErrInvalidPhone.Status, appErrors.ErrInvalidPhone.Message)
	}
	address.Name = req.Name
	address.Recipient = req.Recipient
	address.Email = req.Email
	if address.Email != nil && *address.Email == "" {
		address.Email = nil
	}
	address.Phone = normalized
	address.Address = req.Address
	address.Country = req.Country
	return nil
}

func (s *AddressService) toResponse(address *models.Address) dto.AddressResponse {
	return dto.AddressResponse{
		Address:        *address,
		HumanPhone:     address.HumanPhone(),
		VerboseCountry: s.countries.Name(address.Country),
		Payload:        address.ToPayload(),
	}
}
