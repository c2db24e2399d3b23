package service

import (
	"github.com/dssolutions-mx/mtto-server/internal/procurement/repository"
	"github.com/dssolutions-mx/mtto-server/internal/storage"
)

// Services procurement service collection
type Services struct {
	Procurement *ProcurementService
	Catalog     *CatalogService
}

func NewServices(repos *repository.Repositories, drafts DraftStore, validator QuoteValidator, store storage.Store, submitCfg SubmitConfig) *Services {
	return &Services{
		Procurement: NewProcurementService(drafts, repos, validator, store, submitCfg),
		Catalog:     NewCatalogService(repos),
	}
}
