package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/contact"
)

// CounterpartyUseCase casos de uso para clientes y proveedores. El saldo solo cambia
// por órdenes y pagos.
type CounterpartyUseCase struct {
	repo        repository.CounterpartyRepository
	phoneRegion string
	now         func() time.Time
}

// NewCounterpartyUseCase construye el caso de uso. phoneRegion es la región por defecto (ej. "CO").
func NewCounterpartyUseCase(repo repository.CounterpartyRepository, phoneRegion string) *CounterpartyUseCase {
	if phoneRegion == "" {
		phoneRegion = "CO"
	}
	return &CounterpartyUseCase{repo: repo, phoneRegion: phoneRegion, now: time.Now}
}

func validKind(kind string) error {
	if kind != entity.CounterpartyCustomer && kind != entity.CounterpartySupplier {
		return domain.NewValidationError("tipo de tercero inválido: %q", kind)
	}
	return nil
}

// Create crea un cliente o proveedor. El teléfono se guarda en E.164 cuando es posible.
func (uc *CounterpartyUseCase) Create(ctx context.Context, kind string, in dto.CreateCounterpartyRequest) (*dto.CounterpartyResponse, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, domain.NewValidationError("nombre requerido")
	}
	if in.CreditLimit.IsNegative() || domain.ExceedsPlaces(in.CreditLimit, domain.MoneyPlaces) {
		return nil, domain.NewValidationError("el límite de crédito no puede ser negativo y admite máximo %d decimales", domain.MoneyPlaces)
	}
	taxID, err := contact.NormalizeTaxID(in.TaxID)
	if err != nil {
		return nil, &domain.ValidationError{Message: err.Error(), Details: map[string]string{"tax_id": "nit"}}
	}
	now := uc.now()
	c := &entity.Counterparty{
		ID:          uuid.New().String(),
		Kind:        kind,
		Name:        in.Name,
		TaxID:       taxID,
		Phone:       contact.NormalizePhone(in.Phone, uc.phoneRegion),
		Email:       in.Email,
		Address:     in.Address,
		CreditLimit: in.CreditLimit,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, domain.Storage("crear tercero", err)
	}
	out := dto.NewCounterpartyResponse(c)
	return &out, nil
}

func (uc *CounterpartyUseCase) get(ctx context.Context, kind, id string) (*entity.Counterparty, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("obtener tercero", err)
	}
	if c == nil || c.Kind != kind {
		return nil, domain.Errorf(domain.ErrNotFound, "%s %s", kind, id)
	}
	return c, nil
}

// GetByID obtiene un tercero del tipo indicado.
func (uc *CounterpartyUseCase) GetByID(ctx context.Context, kind, id string) (*dto.CounterpartyResponse, error) {
	c, err := uc.get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewCounterpartyResponse(c)
	return &out, nil
}

// Update actualiza los campos editables. Nunca toca current_balance.
func (uc *CounterpartyUseCase) Update(ctx context.Context, kind, id string, in dto.UpdateCounterpartyRequest) (*dto.CounterpartyResponse, error) {
	c, err := uc.get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if in.CreditLimit != nil && (in.CreditLimit.IsNegative() || domain.ExceedsPlaces(*in.CreditLimit, domain.MoneyPlaces)) {
		return nil, domain.NewValidationError("el límite de crédito no puede ser negativo y admite máximo %d decimales", domain.MoneyPlaces)
	}
	upd := entity.CounterpartyUpdate{
		Name:        in.Name,
		Email:       in.Email,
		Address:     in.Address,
		CreditLimit: in.CreditLimit,
	}
	if in.TaxID != nil {
		taxID, err := contact.NormalizeTaxID(*in.TaxID)
		if err != nil {
			return nil, &domain.ValidationError{Message: err.Error(), Details: map[string]string{"tax_id": "nit"}}
		}
		upd.TaxID = &taxID
	}
	if in.Phone != nil {
		phone := contact.NormalizePhone(*in.Phone, uc.phoneRegion)
		upd.Phone = &phone
	}
	upd.Apply(c)
	c.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, domain.Storage("actualizar tercero", err)
	}
	return uc.GetByID(ctx, kind, id)
}

// Deactivate marca el tercero como inactivo; ya no se le pueden crear órdenes.
func (uc *CounterpartyUseCase) Deactivate(ctx context.Context, kind, id string) error {
	if _, err := uc.get(ctx, kind, id); err != nil {
		return err
	}
	if err := uc.repo.SetActive(ctx, id, false); err != nil {
		return domain.Storage("desactivar tercero", err)
	}
	return nil
}

// List lista terceros del tipo indicado.
func (uc *CounterpartyUseCase) List(ctx context.Context, kind, search string, page dto.PageRequest) (*dto.CounterpartyListResponse, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.CounterpartyFilter{
		Kind:       kind,
		Search:     search,
		ActiveOnly: true,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, domain.Storage("listar terceros", err)
	}
	out := &dto.CounterpartyListResponse{
		Items: make([]dto.CounterpartyResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, c := range list {
		out.Items = append(out.Items, dto.NewCounterpartyResponse(c))
	}
	return out, nil
}
