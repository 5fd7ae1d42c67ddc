package crud

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/pkg"
)

// Handler handles REST API requests for one Resource.
type Handler[T, D any] struct {
	svc *Service[T, D]
}

// NewHandler creates a Handler for svc.
func NewHandler[T, D any](svc *Service[T, D]) *Handler[T, D] {
	return &Handler[T, D]{svc: svc}
}

// RegisterRoutes mounts the collection under api:
//
//	GET    /<path>             paginated list
//	GET    /<path>/all         every record, for lookups
//	GET    /<path>/:id
//	POST   /<path>
//	PUT    /<path>/:id
//	DELETE /<path>/:id
//	POST   /<path>/:id/<action> for each declared action
func (h *Handler[T, D]) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/" + h.svc.res.Path)
	g.GET("", h.List)
	g.GET("/all", h.All)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	for name := range h.svc.res.Actions {
		g.POST("/:id/"+name, h.action(name))
	}
}

// RegisterList mounts only the paginated list, for read-only views.
func (h *Handler[T, D]) RegisterList(api *gin.RouterGroup) {
	api.GET("/"+h.svc.res.Path, h.List)
}

// Create handles POST /<path>.
func (h *Handler[T, D]) Create(c *gin.Context) {
	var draft D
	if !pkg.BindAndValidate(c, &draft) {
		return
	}

	rec, err := h.svc.Create(c.Request.Context(), draft)
	if err != nil {
		h.fail(c, "create", err)
		return
	}

	pkg.Mutated(c, http.StatusCreated, h.svc.res.message("created"), rec)
}

// Get handles GET /<path>/:id.
func (h *Handler[T, D]) Get(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	rec, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, rec)
}

// List handles GET /<path>.
func (h *Handler[T, D]) List(c *gin.Context) {
	req := pkg.ParsePageRequest(c)

	result, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "list", err)
		return
	}

	pkg.List(c, h.svc.res.listKeys(), result)
}

// All handles GET /<path>/all.
func (h *Handler[T, D]) All(c *gin.Context) {
	items, err := h.svc.All(c.Request.Context())
	if err != nil {
		h.fail(c, "all", err)
		return
	}

	pkg.Success(c, items)
}

// Update handles PUT /<path>/:id.
func (h *Handler[T, D]) Update(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	var draft D
	if !pkg.BindAndValidate(c, &draft) {
		return
	}

	rec, err := h.svc.Update(c.Request.Context(), id, draft)
	if err != nil {
		h.fail(c, "update", err)
		return
	}

	pkg.Mutated(c, http.StatusOK, h.svc.res.message("updated"), rec)
}

// Delete handles DELETE /<path>/:id.
func (h *Handler[T, D]) Delete(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "delete", err)
		return
	}

	pkg.Mutated(c, http.StatusOK, h.svc.res.message("deleted"), nil)
}

func (h *Handler[T, D]) action(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := ParseID(c)
		if err != nil {
			pkg.Error(c, domain.NewAppError(domain.CodeValidation, err.Error(), nil))
			return
		}

		rec, msg, err := h.svc.Do(c.Request.Context(), id, name)
		if err != nil {
			h.fail(c, name, err)
			return
		}

		pkg.Mutated(c, http.StatusOK, msg, rec)
	}
}

// fail logs unexpected errors before writing the error response.
func (h *Handler[T, D]) fail(c *gin.Context, op string, err error) {
	if domain.HTTPStatusCode(err) >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "hr api request failed",
			"resource", h.svc.lowerName(), "op", op, "error", err)
	}
	pkg.Error(c, err)
}

// ParseID extracts and validates the "id" URL parameter.
func ParseID(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id: %s", idStr)
	}
	if id > uint64(^uint(0)) {
		return 0, fmt.Errorf("invalid id: %s", idStr)
	}
	return uint(id), nil
}
