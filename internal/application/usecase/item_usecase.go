package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para ítems. El stock y el costo promedio se manejan vía movimientos.
type ItemUseCase struct {
	txRunner repository.TxRunner
	repo     repository.ItemRepository
	adjust   *inventory.AdjustmentUseCase
	now      func() time.Time
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(txRunner repository.TxRunner, repo repository.ItemRepository, adjust *inventory.AdjustmentUseCase) *ItemUseCase {
	return &ItemUseCase{txRunner: txRunner, repo: repo, adjust: adjust, now: time.Now}
}

func validatePrices(cost, price, tax decimal.Decimal) error {
	if cost.IsNegative() || price.IsNegative() {
		return domain.NewValidationError("los precios no pueden ser negativos")
	}
	if tax.IsNegative() || tax.GreaterThan(decimal.NewFromInt(100)) {
		return domain.NewValidationError("la tasa de impuesto debe estar entre 0 y 100")
	}
	if domain.ExceedsPlaces(cost, domain.PricePlaces) || domain.ExceedsPlaces(price, domain.MoneyPlaces) ||
		domain.ExceedsPlaces(tax, domain.RatePlaces) {
		return domain.NewValidationError("cost_price admite %d decimales; selling_price y tax_rate, %d",
			domain.PricePlaces, domain.MoneyPlaces)
	}
	return nil
}

// Create crea un ítem con stock 0. Si InitialStock > 0 se registra en la misma transacción
// como ajuste "increase", de modo que el libro explique todo el stock.
func (uc *ItemUseCase) Create(ctx context.Context, userID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	in.SKU, in.Name, in.Unit = strings.TrimSpace(in.SKU), strings.TrimSpace(in.Name), strings.TrimSpace(in.Unit)
	missing := map[string]string{}
	for field, v := range map[string]string{"sku": in.SKU, "name": in.Name, "unit": in.Unit} {
		if v == "" {
			missing[field] = "required"
		}
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Message: "campos requeridos", Details: missing}
	}
	if in.InitialStock < 0 || in.MinStock < 0 || in.MaxStock < 0 || in.ReorderLevel < 0 {
		return nil, domain.NewValidationError("las cantidades no pueden ser negativas")
	}
	if err := validatePrices(in.CostPrice, in.SellingPrice, in.TaxRate); err != nil {
		return nil, err
	}
	if in.MaxStock > 0 && in.MaxStock < in.MinStock {
		return nil, domain.NewValidationError("max_stock no puede ser menor que min_stock")
	}
	now := uc.now()
	item := &entity.Item{
		ID:           uuid.New().String(),
		Name:         in.Name,
		SKU:          in.SKU,
		Unit:         in.Unit,
		MinStock:     in.MinStock,
		MaxStock:     in.MaxStock,
		ReorderLevel: in.ReorderLevel,
		CostPrice:    in.CostPrice,
		SellingPrice: in.SellingPrice,
		TaxRate:      in.TaxRate,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		existing, err := store.Items.GetBySKU(ctx, in.SKU)
		if err != nil {
			return domain.Storage("buscar sku", err)
		}
		if existing != nil {
			return domain.Errorf(domain.ErrDuplicate, "ya existe un ítem con sku %s", in.SKU)
		}
		if err := store.Items.Create(ctx, item); err != nil {
			return domain.Storage("crear ítem", err)
		}
		if in.InitialStock > 0 {
			adj, err := uc.adjust.AdjustInTx(ctx, store, inventory.AdjustInput{
				ItemID:   item.ID,
				Type:     entity.AdjustmentIncrease,
				Quantity: in.InitialStock,
				Reason:   "stock inicial",
				Actor:    userID,
			})
			if err != nil {
				return err
			}
			item.CurrentStock = adj.QuantityAfter
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewItemResponse(item)
	return &out, nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("obtener ítem", err)
	}
	if item == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "ítem %s", id)
	}
	out := dto.NewItemResponse(item)
	return &out, nil
}

// Update actualiza los campos editables. No permite modificar el stock.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("obtener ítem", err)
	}
	if item == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "ítem %s", id)
	}
	entity.ItemUpdate{
		Name:         in.Name,
		Unit:         in.Unit,
		MinStock:     in.MinStock,
		MaxStock:     in.MaxStock,
		ReorderLevel: in.ReorderLevel,
		CostPrice:    in.CostPrice,
		SellingPrice: in.SellingPrice,
		TaxRate:      in.TaxRate,
	}.Apply(item)
	if err := validatePrices(item.CostPrice, item.SellingPrice, item.TaxRate); err != nil {
		return nil, err
	}
	if item.MaxStock > 0 && item.MaxStock < item.MinStock {
		return nil, domain.NewValidationError("max_stock no puede ser menor que min_stock")
	}
	item.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, domain.Storage("actualizar ítem", err)
	}
	return uc.GetByID(ctx, id)
}

// Deactivate marca el ítem como inactivo. El historial del libro se conserva.
func (uc *ItemUseCase) Deactivate(ctx context.Context, id string) error {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Storage("obtener ítem", err)
	}
	if item == nil {
		return domain.Errorf(domain.ErrNotFound, "ítem %s", id)
	}
	if err := uc.repo.SetActive(ctx, id, false); err != nil {
		return domain.Storage("desactivar ítem", err)
	}
	return nil
}

// List lista ítems con paginación y búsqueda por nombre o SKU.
func (uc *ItemUseCase) List(ctx context.Context, search string, activeOnly bool, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ItemFilter{
		Search:     search,
		ActiveOnly: activeOnly,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, domain.Storage("listar ítems", err)
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, dto.NewItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
