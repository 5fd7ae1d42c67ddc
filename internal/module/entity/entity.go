// Package entity assembles an HR collection into an app module: the JSON API
// served from the database and the dashboard screen that manages it.
package entity

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/hrdash/internal/apiclient"
	"github.com/simp-lee/hrdash/internal/module/crud"
	"github.com/simp-lee/hrdash/internal/module/screen"
)

// Deps are the collaborators every entity module is built from.
type Deps struct {
	DB *gorm.DB
	// Client points screens at a remote HR API. Nil serves them in-process
	// from DB.
	Client  *apiclient.Client
	Screens screen.Options
}

// Module serves one collection's API and screen.
type Module[T, D any] struct {
	service *crud.Service[T, D]
	backend screen.Backend[T, D]
	api     *crud.Handler[T, D]
	page    *screen.Handler[T, D]
	lookups *screen.Lookups
	listAPI bool
}

// New builds the module for res. define turns the chosen backend into the
// screen definition. Panics if deps.DB is nil.
func New[T, D any](deps Deps, res crud.Resource[T, D], define func(screen.Backend[T, D]) screen.Definition[T, D]) *Module[T, D] {
	if deps.DB == nil {
		panic("entity.New: db must not be nil")
	}
	if define == nil {
		panic("entity.New: define must not be nil")
	}

	svc := crud.NewService(res, crud.NewRepository(deps.DB, res), deps.Screens.Validator)
	backend := NewBackend(deps.Client, svc)
	def := define(backend)

	return &Module[T, D]{
		service: svc,
		backend: backend,
		api:     crud.NewHandler(svc),
		page:    screen.New(def, deps.Screens),
		lookups: deps.Screens.Lookups,
		listAPI: def.ReadOnly,
	}
}

// NewBackend returns the screen backend for svc: the remote API when client is
// set, the service itself otherwise.
func NewBackend[T, D any](client *apiclient.Client, svc *crud.Service[T, D]) screen.Backend[T, D] {
	res := svc.Resource()
	if client != nil {
		return apiclient.NewResource[T, D](client, res.Path, res.Keys)
	}
	return crud.NewLocalSource(svc)
}

// Service returns the database-backed service.
func (m *Module[T, D]) Service() *crud.Service[T, D] { return m.service }

// Backend returns the source the screen reads from.
func (m *Module[T, D]) Backend() screen.Backend[T, D] { return m.backend }

// Screen returns the page handler.
func (m *Module[T, D]) Screen() *screen.Handler[T, D] { return m.page }

// Nav returns the screen's path and title for the navigation menu.
func (m *Module[T, D]) Nav() (path, title string) {
	return "/" + m.page.Name(), m.page.Title()
}

// ProvideLookup publishes every record as the select options called name,
// for other screens' forms.
func (m *Module[T, D]) ProvideLookup(name string, id func(T) uint, label func(T) string) {
	m.ProvideOptions(name, func(v T) string { return strconv.FormatUint(uint64(id(v)), 10) }, label)
}

// ProvideOptions is ProvideLookup for records referred to by a value other
// than their id.
func (m *Module[T, D]) ProvideOptions(name string, value func(T) string, label func(T) string) {
	if m.lookups == nil {
		return
	}
	backend := m.backend
	m.lookups.Register(name, func(ctx context.Context) ([]screen.Option, error) {
		items, err := backend.All(ctx)
		if err != nil {
			return nil, err
		}
		return screen.OptionsFrom(items, value, label), nil
	})
}

// RegisterRoutes registers the API under api and the screen under pages.
// Read-only screens expose only the paginated list on the API.
func (m *Module[T, D]) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	if m.listAPI {
		m.api.RegisterList(api)
	} else {
		m.api.RegisterRoutes(api)
	}
	m.page.RegisterRoutes(pages)
}
