package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/control-equipos-api/internal/application/dto"
	"github.com/jhoicas/control-equipos-api/internal/domain"
	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

// ItemTypeUseCase casos de uso CRUD para el catálogo de tipos de ítem.
type ItemTypeUseCase struct {
	txRunner TxRunner
	repo     repository.ItemTypeRepository
	refs     repository.ReferenceRepository
	log      zerolog.Logger
}

// NewItemTypeUseCase construye el caso de uso.
func NewItemTypeUseCase(txRunner TxRunner, repo repository.ItemTypeRepository, refs repository.ReferenceRepository, log zerolog.Logger) *ItemTypeUseCase {
	return &ItemTypeUseCase{txRunner: txRunner, repo: repo, refs: refs, log: log}
}

// Create crea un tipo de ítem. Nombre, SKU y código de barras son únicos.
func (uc *ItemTypeUseCase) Create(ctx context.Context, in dto.CreateItemTypeRequest) (*dto.ItemTypeResponse, error) {
	now := time.Now().UTC()
	item := &entity.ItemType{
		ID:                   uuid.New().String(),
		Nombre:               strings.TrimSpace(in.Nombre),
		Descripcion:          in.Descripcion,
		Categoria:            in.Categoria,
		UnidadMedida:         in.UnidadMedida,
		Marca:                in.Marca,
		Modelo:               in.Modelo,
		SKU:                  trimmed(in.SKU),
		CodigoBarras:         trimmed(in.CodigoBarras),
		StockMinimo:          in.StockMinimo,
		Perecedero:           in.Perecedero,
		ProveedorPreferidoID: trimmed(in.ProveedorPreferidoID),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if item.UnidadMedida == "" {
		item.UnidadMedida = "Unidad"
	}
	if err := uc.validate(ctx, item); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	uc.log.Info().Str("tipo_item_id", item.ID).Str("nombre", item.Nombre).Msg("tipo de ítem creado")
	resp := toItemTypeResponse(item)
	return &resp, nil
}

// GetByID obtiene un tipo de ítem por ID.
func (uc *ItemTypeUseCase) GetByID(ctx context.Context, id string) (*dto.ItemTypeResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toItemTypeResponse(item)
	return &resp, nil
}

// Update actualiza los campos enviados de un tipo de ítem.
func (uc *ItemTypeUseCase) Update(ctx context.Context, id string, in dto.UpdateItemTypeRequest) (*dto.ItemTypeResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Nombre != nil {
		item.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Descripcion != nil {
		item.Descripcion = in.Descripcion
	}
	if in.Categoria != nil {
		item.Categoria = *in.Categoria
	}
	if in.UnidadMedida != nil {
		item.UnidadMedida = *in.UnidadMedida
	}
	if in.Marca != nil {
		item.Marca = in.Marca
	}
	if in.Modelo != nil {
		item.Modelo = in.Modelo
	}
	if in.SKU != nil {
		item.SKU = trimmed(in.SKU)
	}
	if in.CodigoBarras != nil {
		item.CodigoBarras = trimmed(in.CodigoBarras)
	}
	if in.StockMinimo != nil {
		item.StockMinimo = *in.StockMinimo
	}
	if in.Perecedero != nil {
		item.Perecedero = *in.Perecedero
	}
	if in.ProveedorPreferidoID != nil {
		item.ProveedorPreferidoID = trimmed(in.ProveedorPreferidoID)
	}
	if err := uc.validate(ctx, item); err != nil {
		return nil, err
	}
	item.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	resp := toItemTypeResponse(item)
	return &resp, nil
}

// Delete elimina un tipo de ítem sin stock ni movimientos asociados.
func (uc *ItemTypeUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		_ repository.StockRepository,
		itemRepo repository.ItemTypeRepository,
	) error {
		item, err := itemRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFound("tipo de ítem %s no encontrado", id)
		}
		stock, movs, err := itemRepo.CountReferences(ctx, id)
		if err != nil {
			return err
		}
		if stock > 0 || movs > 0 {
			return domain.Wrap(domain.ErrConflict, domain.ErrInUse,
				"no se puede eliminar '%s': tiene %d registros de stock y %d movimientos asociados", item.Nombre, stock, movs)
		}
		return itemRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("tipo_item_id", id).Msg("tipo de ítem eliminado")
	return nil
}

// List lista tipos de ítem ordenados por nombre.
func (uc *ItemTypeUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ItemTypeListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemTypeResponse, 0, len(list))
	for _, it := range list {
		items = append(items, toItemTypeResponse(it))
	}
	return &dto.ItemTypeListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

func (uc *ItemTypeUseCase) get(ctx context.Context, id string) (*entity.ItemType, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("tipo de ítem %s no encontrado", id)
	}
	return item, nil
}

// validate reglas de negocio y unicidad; item.ID excluye al propio registro en actualizaciones.
func (uc *ItemTypeUseCase) validate(ctx context.Context, item *entity.ItemType) error {
	if item.Nombre == "" {
		return domain.Unprocessable("el nombre es obligatorio")
	}
	if !entity.ValidItemCategory(item.Categoria) {
		return domain.Unprocessable("categoría inválida: %q", item.Categoria)
	}
	if item.StockMinimo < 0 {
		return domain.Unprocessable("stock_minimo no puede ser negativo")
	}

	other, err := uc.repo.GetByNombre(ctx, item.Nombre)
	if err != nil {
		return err
	}
	if other != nil && other.ID != item.ID {
		return domain.Wrap(domain.ErrConflict, domain.ErrDuplicate, "ya existe un tipo de ítem con el nombre '%s'", item.Nombre)
	}
	if item.SKU != nil {
		other, err := uc.repo.GetBySKU(ctx, *item.SKU)
		if err != nil {
			return err
		}
		if other != nil && other.ID != item.ID {
			return domain.Wrap(domain.ErrConflict, domain.ErrDuplicate, "el SKU '%s' ya está en uso", *item.SKU)
		}
	}
	if item.CodigoBarras != nil {
		other, err := uc.repo.GetByCodigoBarras(ctx, *item.CodigoBarras)
		if err != nil {
			return err
		}
		if other != nil && other.ID != item.ID {
			return domain.Wrap(domain.ErrConflict, domain.ErrDuplicate, "el código de barras '%s' ya está en uso", *item.CodigoBarras)
		}
	}
	if item.ProveedorPreferidoID != nil {
		ok, err := uc.refs.VendorExists(ctx, *item.ProveedorPreferidoID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound("proveedor %s no encontrado", *item.ProveedorPreferidoID)
		}
	}
	return nil
}

func toItemTypeResponse(it *entity.ItemType) dto.ItemTypeResponse {
	return dto.ItemTypeResponse{
		ID:                   it.ID,
		Nombre:               it.Nombre,
		Descripcion:          it.Descripcion,
		Categoria:            it.Categoria,
		UnidadMedida:         it.UnidadMedida,
		Marca:                it.Marca,
		Modelo:               it.Modelo,
		SKU:                  it.SKU,
		CodigoBarras:         it.CodigoBarras,
		StockMinimo:          it.StockMinimo,
		Perecedero:           it.Perecedero,
		ProveedorPreferidoID: it.ProveedorPreferidoID,
		CreatedAt:            it.CreatedAt,
		UpdatedAt:            it.UpdatedAt,
	}
}
