package licensing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/control-equipos-api/internal/application/dto"
	"github.com/jhoicas/control-equipos-api/internal/domain"
	"github.com/jhoicas/control-equipos-api/internal/domain/entity"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

// SoftwareUseCase catálogo de software licenciable.
type SoftwareUseCase struct {
	repo repository.SoftwareRepository
}

// NewSoftwareUseCase construye el caso de uso.
func NewSoftwareUseCase(repo repository.SoftwareRepository) *SoftwareUseCase {
	return &SoftwareUseCase{repo: repo}
}

// Create agrega un software al catálogo; (nombre, versión) es único.
func (uc *SoftwareUseCase) Create(ctx context.Context, in dto.CreateSoftwareRequest) (*dto.SoftwareResponse, error) {
	s := &entity.Software{
		ID:                    uuid.New().String(),
		Nombre:                strings.TrimSpace(in.Nombre),
		Version:               in.Version,
		Fabricante:            in.Fabricante,
		Categoria:             in.Categoria,
		TipoLicencia:          in.TipoLicencia,
		MetricaLicenciamiento: in.MetricaLicenciamiento,
		CreatedAt:             time.Now().UTC(),
	}
	if s.Nombre == "" {
		return nil, domain.Unprocessable("el nombre es obligatorio")
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	resp := toSoftwareResponse(s)
	return &resp, nil
}

// GetByID obtiene una entrada del catálogo.
func (uc *SoftwareUseCase) GetByID(ctx context.Context, id string) (*dto.SoftwareResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound("software %s no encontrado", id)
	}
	resp := toSoftwareResponse(s)
	return &resp, nil
}

// List lista el catálogo ordenado por nombre.
func (uc *SoftwareUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.SoftwareResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SoftwareResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSoftwareResponse(s))
	}
	return out, nil
}

func toSoftwareResponse(s *entity.Software) dto.SoftwareResponse {
	return dto.SoftwareResponse{
		ID:                    s.ID,
		Nombre:                s.Nombre,
		Version:               s.Version,
		Fabricante:            s.Fabricante,
		Categoria:             s.Categoria,
		TipoLicencia:          s.TipoLicencia,
		MetricaLicenciamiento: s.MetricaLicenciamiento,
		CreatedAt:             s.CreatedAt,
	}
}
