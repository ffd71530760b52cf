package dispatch

import (
	"context"
	"errors"
	"fmt"

	"shopopti/internal/importer"
	"shopopti/internal/logger"
	"shopopti/internal/models"
	"shopopti/internal/providers"
	"shopopti/internal/providers/autods"
	"shopopti/internal/providers/bigbuy"
	"shopopti/internal/providers/cdiscount"
	"shopopti/internal/providers/eprolo"
)

type Action string

const (
	ActionTest       Action = "test"
	ActionProducts   Action = "products"
	ActionCategories Action = "categories"
	ActionImport     Action = "import"
)

var (
	ErrUnauthorized      = errors.New("caller identity could not be resolved")
	ErrUnknownProvider   = errors.New("provider not supported")
	ErrUnsupportedAction = errors.New("action not supported")
)

// Request is the normalized dispatch payload. UserID is always the
// resolved caller, never taken from the request body.
type Request struct {
	Kind       models.ProviderKind
	Action     Action
	Supplier   *models.SupplierConnection
	Filters    providers.ListFilters
	ProductIDs []string
	UserID     string
}

// Registry builds the adapter set once and resolves kinds through an
// exhaustive switch: a fifth provider is a compile-visible addition
// here and in models.ProviderKind, not a runtime string lookup.
type Registry struct {
	bigbuy    *bigbuy.Adapter
	eprolo    *eprolo.Adapter
	cdiscount *cdiscount.Adapter
	autods    *autods.Adapter
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		bigbuy:    bigbuy.New(log),
		eprolo:    eprolo.New(log),
		cdiscount: cdiscount.New(log),
		autods:    autods.New(log),
	}
}

func (r *Registry) ForKind(kind models.ProviderKind) (providers.Adapter, error) {
	switch kind {
	case models.ProviderBigBuy:
		return r.bigbuy, nil
	case models.ProviderEPROLO:
		return r.eprolo, nil
	case models.ProviderCdiscount:
		return r.cdiscount, nil
	case models.ProviderAutoDS:
		return r.autods, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, kind)
}

// Dispatcher is the single boundary between callers and adapters: it
// validates identity, kind and action, then forwards. Adapter panics
// are contained and come back as a generic internal error.
type Dispatcher struct {
	registry *Registry
	importer *importer.Orchestrator
	logger   *logger.Logger
}

func New(registry *Registry, orch *importer.Orchestrator, log *logger.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, importer: orch, logger: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (result interface{}, err error) {
	if req.UserID == "" {
		return nil, ErrUnauthorized
	}

	adapter, err := d.registry.ForKind(req.Kind)
	if err != nil {
		return nil, err
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			d.logger.Error("adapter %s/%s panicked: %v", req.Kind, req.Action, recovered)
			result = nil
			err = fmt.Errorf("internal error")
		}
	}()

	switch req.Action {
	case ActionTest:
		return adapter.TestConnection(ctx, req.Supplier), nil
	case ActionProducts:
		return adapter.ListProducts(ctx, req.Supplier, req.Filters), nil
	case ActionCategories:
		return adapter.ListCategories(ctx, req.Supplier), nil
	case ActionImport:
		return d.importer.ImportProducts(ctx, adapter, req.Supplier, req.ProductIDs, req.UserID), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedAction, req.Action)
}
