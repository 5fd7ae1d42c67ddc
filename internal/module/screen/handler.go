package screen

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/listctl"
	"github.com/simp-lee/hrdash/internal/module/crud"
	"github.com/simp-lee/hrdash/internal/pkg"
)

// Options carries the collaborators shared by every screen.
type Options struct {
	Observer  listctl.Observer
	PageSizes listctl.PageSizePolicy
	Validator *validator.Validate
	Lookups   *Lookups
	// Janitor expires idle sessions; nil keeps them for the process lifetime.
	Janitor *Janitor
	Logger  *slog.Logger
}

// Handler serves one dashboard screen.
type Handler[T, D any] struct {
	def     Definition[T, D]
	store   *Store[T, D]
	lookups *Lookups
	ttl     time.Duration
	log     *slog.Logger
}

// New creates the handler for def.
func New[T, D any](def Definition[T, D], opts Options) *Handler[T, D] {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	actions := make(map[listctl.Action]listctl.CustomAction, len(def.Actions))
	for _, a := range def.Actions {
		name := a.Name
		actions[listctl.Action(name)] = func(ctx context.Context, id uint) (listctl.Result, error) {
			return def.Backend.Action(ctx, id, name)
		}
	}

	h := &Handler[T, D]{
		def:     def,
		lookups: opts.Lookups,
		ttl:     30 * time.Minute,
		log:     log,
	}
	h.store = NewStore(func(n listctl.Notifier) *listctl.Controller[T, D] {
		return listctl.New(listctl.Config[T, D]{
			Name:      def.Name,
			Entity:    def.Entity,
			Source:    def.Backend,
			Notifier:  n,
			Observer:  opts.Observer,
			Logger:    log,
			PageSizes: opts.PageSizes,
			Validator: opts.Validator,
			Actions:   actions,
		})
	})
	if opts.Janitor != nil {
		opts.Janitor.Add(h.store)
		h.ttl = opts.Janitor.TTL()
	}
	return h
}

// Name returns the screen's URL segment.
func (h *Handler[T, D]) Name() string { return h.def.Name }

// Title returns the screen's heading.
func (h *Handler[T, D]) Title() string { return h.def.Title }

// RegisterRoutes mounts the screen under /<name>.
func (h *Handler[T, D]) RegisterRoutes(pages *gin.RouterGroup) {
	g := pages.Group(h.def.base())
	g.GET("", h.List)
	g.GET("/lookups/:name", h.Lookup)
	if h.def.ReadOnly {
		return
	}
	g.GET("/new", h.NewForm)
	g.POST("", h.Create)
	g.POST("/draft/hide", h.HideForm)
	g.POST("/draft/cancel", h.CancelDraft)
	g.POST("/confirm", h.Confirm)
	g.POST("/cancel", h.Cancel)
	g.GET("/:id/edit", h.Edit)
	g.POST("/:id", h.Update)
	g.POST("/:id/delete", h.RequestDelete)
	g.POST("/:id/actions/:action", h.RequestAction)
}

// session returns the caller's controller. A GET without a session cookie
// renders from a throwaway controller, so clients that never return the
// cookie do not accumulate state.
func (h *Handler[T, D]) session(c *gin.Context) (*listctl.Controller[T, D], *Flash) {
	id, known := SessionID(c, h.ttl)
	if !known && (c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead) {
		return h.store.Transient()
	}
	return h.store.Get(id)
}

// List renders the screen, applying any page, per_page and searching
// parameters present on the URL.
// GET /<name>
func (h *Handler[T, D]) List(c *gin.Context) {
	ctrl, flash := h.session(c)
	ctx := c.Request.Context()
	fetched := h.ensureLoaded(c, ctrl)

	// Absent parameters keep the session's current query.
	search := ctrl.View().Query.Search
	if s, ok := c.GetQuery("searching"); ok {
		search = s
	}
	size, page := 0, 0
	if v, ok := firstQuery(c, "per_page", "page_size"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			size = n
		}
	}
	if v, ok := c.GetQuery("page"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	// Fetch failures are already reported through the flash queue.
	changed, _ := ctrl.Apply(ctx, search, size, page)
	if !changed && !fetched {
		// A reload or retry of the same query still shows current data.
		_ = ctrl.Refresh(ctx)
	}

	h.render(c, ctrl, flash)
}

// NewForm opens the add panel.
// GET /<name>/new
func (h *Handler[T, D]) NewForm(c *gin.Context) {
	ctrl, flash := h.session(c)
	h.ensureLoaded(c, ctrl)
	ctrl.OpenAddPanel()
	h.render(c, ctrl, flash)
}

// HideForm closes the add panel and keeps its contents for later.
// POST /<name>/draft/hide
func (h *Handler[T, D]) HideForm(c *gin.Context) {
	ctrl, _ := h.session(c)
	ctrl.CloseAddPanel()
	h.redirect(c, ctrl)
}

// CancelDraft discards the add or edit form.
// POST /<name>/draft/cancel
func (h *Handler[T, D]) CancelDraft(c *gin.Context) {
	ctrl, _ := h.session(c)
	ctrl.CancelDraft()
	h.redirect(c, ctrl)
}

// Create submits the add form.
// POST /<name>
func (h *Handler[T, D]) Create(c *gin.Context) {
	ctrl, flash := h.session(c)
	h.ensureLoaded(c, ctrl)

	var draft D
	if err := c.ShouldBind(&draft); err != nil {
		slog.DebugContext(c.Request.Context(), "create: bind error",
			slog.String("screen", h.def.Name), slog.Any("error", err))
		ctrl.OpenAddPanel()
		ctrl.SetDraft(draft)
		flash.Notify(listctl.KindError, "Please check the form input")
		h.render(c, ctrl, flash)
		return
	}

	if err := ctrl.Create(c.Request.Context(), draft); err != nil {
		h.notifyBusy(flash, err)
		h.render(c, ctrl, flash)
		return
	}
	h.redirect(c, ctrl)
}

// Edit opens the edit form for a record.
// GET /<name>/:id/edit
func (h *Handler[T, D]) Edit(c *gin.Context) {
	id, err := crud.ParseID(c)
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{})
		return
	}
	ctrl, flash := h.session(c)

	rec, err := h.def.Backend.Get(c.Request.Context(), id)
	if err != nil {
		if isMissing(err) {
			c.HTML(http.StatusNotFound, "errors/404.html", gin.H{})
			return
		}
		h.log.ErrorContext(c.Request.Context(), "load record for edit failed",
			slog.String("screen", h.def.Name), slog.Uint64("id", uint64(id)), slog.Any("error", err))
		flash.Notify(listctl.KindError, domain.UserMessage(err, "Failed to load record"))
		h.redirect(c, ctrl)
		return
	}

	h.ensureLoaded(c, ctrl)
	ctrl.StartEdit(id, h.def.ToDraft(rec))
	h.render(c, ctrl, flash)
}

// Update submits the edit form.
// POST /<name>/:id
func (h *Handler[T, D]) Update(c *gin.Context) {
	id, err := crud.ParseID(c)
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{})
		return
	}
	ctrl, flash := h.session(c)
	h.ensureLoaded(c, ctrl)

	var draft D
	if err := c.ShouldBind(&draft); err != nil {
		slog.DebugContext(c.Request.Context(), "update: bind error",
			slog.String("screen", h.def.Name), slog.Any("error", err), slog.Uint64("id", uint64(id)))
		ctrl.StartEdit(id, draft)
		flash.Notify(listctl.KindError, "Please check the form input")
		h.render(c, ctrl, flash)
		return
	}

	if err := ctrl.Update(c.Request.Context(), id, draft); err != nil {
		h.notifyBusy(flash, err)
		h.render(c, ctrl, flash)
		return
	}
	h.redirect(c, ctrl)
}

// RequestDelete asks for confirmation before deleting a record.
// POST /<name>/:id/delete
func (h *Handler[T, D]) RequestDelete(c *gin.Context) {
	id, err := crud.ParseID(c)
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{})
		return
	}
	ctrl, _ := h.session(c)
	_ = ctrl.RequestDelete(id)
	h.redirect(c, ctrl)
}

// RequestAction asks for confirmation before running a row action.
// POST /<name>/:id/actions/:action
func (h *Handler[T, D]) RequestAction(c *gin.Context) {
	id, err := crud.ParseID(c)
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{})
		return
	}
	name := c.Param("action")
	if _, ok := h.def.action(name); !ok {
		c.HTML(http.StatusNotFound, "errors/404.html", gin.H{})
		return
	}
	ctrl, _ := h.session(c)
	if err := ctrl.Request(id, listctl.Action(name)); err != nil {
		c.HTML(http.StatusNotFound, "errors/404.html", gin.H{})
		return
	}
	h.redirect(c, ctrl)
}

// Confirm runs the pending action.
// POST /<name>/confirm
func (h *Handler[T, D]) Confirm(c *gin.Context) {
	ctrl, flash := h.session(c)
	if err := ctrl.Confirm(c.Request.Context()); err != nil && !listctl.IsNothingPending(err) {
		h.notifyBusy(flash, err)
	}
	h.redirect(c, ctrl)
}

// Cancel dismisses the pending action.
// POST /<name>/cancel
func (h *Handler[T, D]) Cancel(c *gin.Context) {
	ctrl, _ := h.session(c)
	ctrl.Cancel()
	h.redirect(c, ctrl)
}

// Lookup returns the options of a form lookup, filtered by q.
// GET /<name>/lookups/:name?q=
func (h *Handler[T, D]) Lookup(c *gin.Context) {
	name := c.Param("name")
	known := false
	for _, n := range h.def.lookupNames() {
		if n == name {
			known = true
			break
		}
	}
	if !known || h.lookups == nil {
		pkg.Error(c, domain.NewAppError(domain.CodeNotFound, "lookup not found", nil))
		return
	}

	opts, err := h.lookups.Load(c.Request.Context(), name)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "load lookup failed",
			slog.String("lookup", name), slog.Any("error", err))
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, FilterOptions(opts, c.Query("q")))
}

// ensureLoaded issues the first fetch for a fresh session and reports
// whether it did.
func (h *Handler[T, D]) ensureLoaded(c *gin.Context, ctrl *listctl.Controller[T, D]) bool {
	if ctrl.View().Status != listctl.StatusIdle {
		return false
	}
	_ = ctrl.Refresh(c.Request.Context())
	return true
}

// notifyBusy reports a busy guard rejection, which the controller keeps quiet.
func (h *Handler[T, D]) notifyBusy(flash *Flash, err error) {
	if domain.IsBusy(err) {
		flash.Notify(listctl.KindError, domain.UserMessage(err, "Please wait for the current request to finish"))
	}
}

// render draws the screen. htmx requests receive queued notifications as a
// showToast trigger; full page loads render them inline.
func (h *Handler[T, D]) render(c *gin.Context, ctrl *listctl.Controller[T, D], flash *Flash) {
	data := h.page(c.Request.Context(), ctrl.View())
	msgs := flash.Drain()
	if isHTMX(c) {
		if m, ok := toastMessage(msgs); ok {
			setShowToastHeader(c, m.Text, toastType(m.Kind))
		}
	} else {
		data.Flashes = msgs
	}
	c.HTML(http.StatusOK, TemplateName, data)
}

// redirect sends the browser back to the list at its current query.
func (h *Handler[T, D]) redirect(c *gin.Context, ctrl *listctl.Controller[T, D]) {
	target := h.def.base() + "?" + queryString(ctrl.View().Query)
	if isHTMX(c) {
		c.Header("HX-Redirect", target)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, target)
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

func firstQuery(c *gin.Context, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := c.GetQuery(k); ok {
			return v, true
		}
	}
	return "", false
}

func isMissing(err error) bool {
	if domain.IsNotFound(err) {
		return true
	}
	var re *domain.RequestError
	return errors.As(err, &re) && re.Status == http.StatusNotFound
}

// toastMessage picks the message to show: the latest error, else the latest
// message.
func toastMessage(msgs []Message) (Message, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Kind == listctl.KindError {
			return msgs[i], true
		}
	}
	if len(msgs) == 0 {
		return Message{}, false
	}
	return msgs[len(msgs)-1], true
}

func toastType(k listctl.Kind) string {
	if k == listctl.KindError {
		return "error"
	}
	return "success"
}

// setShowToastHeader sets the HX-Trigger response header with a showToast event.
func setShowToastHeader(c *gin.Context, message, kind string) {
	trigger, _ := json.Marshal(map[string]any{
		"showToast": map[string]string{
			"message": message,
			"type":    kind,
		},
	})
	c.Header("HX-Trigger", string(trigger))
}

func lower(s string) string {
	if s == "" {
		return "record"
	}
	return strings.ToLower(s)
}
