package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/session"
)

type Catalog interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	ListProfessionals(ctx context.Context) ([]models.Professional, error)
}

// Invalidator is implemented by cached catalogs.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type CatalogHandler struct {
	catalog Catalog
}

func NewCatalogHandler(catalog Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.catalog.ListServices(c.Request.Context())
	if err != nil {
		httperr.Respond(c, catalogError(err))
		return
	}

	httpresp.List(c, services)
}

// ListProfessionals hides inactive professionals unless ?all=true.
func (h *CatalogHandler) ListProfessionals(c *gin.Context) {
	pros, err := h.catalog.ListProfessionals(c.Request.Context())
	if err != nil {
		httperr.Respond(c, catalogError(err))
		return
	}

	if c.Query("all") != "true" {
		active := make([]models.Professional, 0, len(pros))
		for _, p := range pros {
			if p.Active {
				active = append(active, p)
			}
		}
		pros = active
	}

	httpresp.List(c, pros)
}

func (h *CatalogHandler) Refresh(c *gin.Context) {
	inv, ok := h.catalog.(Invalidator)
	if !ok {
		httpresp.NoContent(c)
		return
	}

	if err := inv.Invalidate(c.Request.Context()); err != nil {
		httperr.Internal(c, "cache_invalidate_failed", "Error al refrescar el catálogo.")
		return
	}

	httpresp.NoContent(c)
}

func catalogError(err error) error {
	switch {
	case httperr.Code(err) != "":
		return err
	case errors.Is(err, session.ErrExpired):
		return httperr.Wrap("session_expired", err)
	default:
		return httperr.Wrap("upstream_unavailable", err)
	}
}
