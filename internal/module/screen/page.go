package screen

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/simp-lee/hrdash/internal/listctl"
)

// TemplateName is the page template every screen renders.
const TemplateName = "screen/list.html"

type rowView struct {
	ID      uint
	Cells   []string
	Actions []actionView
}

type actionView struct {
	Name  string
	Label string
}

type fieldView struct {
	Field
	Value   string
	Checked bool
}

type formView struct {
	Editing bool
	ID      uint
	Action  string
	Busy    bool
	Fields  []fieldView
	Error   string
}

type pendingView struct {
	ID     uint
	Label  string
	Prompt string
}

type pagerView struct {
	Page       int
	PageCount  int
	PageSize   int
	PageSizes  []int
	Search     string
	RangeLabel string
	HasPrev    bool
	HasNext    bool
	Pages      []int
}

// pageData is the template model of a screen.
type pageData struct {
	Title    string
	Entity   string
	Base     string
	ReadOnly bool
	Loading  bool
	LoadErr  string
	Headers  []string
	Rows     []rowView
	Pager    pagerView
	Form     *formView
	Pending  *pendingView
	Flashes  []Message
}

// queryString encodes q the way list links and redirects carry it.
func queryString(q listctl.ListQuery) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("per_page", strconv.Itoa(q.PageSize))
	if q.Search != "" {
		v.Set("searching", q.Search)
	}
	return v.Encode()
}

func (h *Handler[T, D]) page(ctx context.Context, v listctl.View[T, D]) pageData {
	def := h.def
	data := pageData{
		Title:    def.Title,
		Entity:   def.Entity,
		Base:     def.base(),
		ReadOnly: def.ReadOnly,
		Loading:  v.Loading(),
		Pager: pagerView{
			Page:       v.Query.Page,
			PageCount:  v.PageCount,
			PageSize:   v.Query.PageSize,
			PageSizes:  v.PageSizes,
			Search:     v.Query.Search,
			RangeLabel: v.RangeLabel,
			HasPrev:    v.HasPrev(),
			HasNext:    v.HasNext(),
			Pages:      v.Pages(),
		},
	}
	if v.Failed() {
		data.LoadErr = "Failed to load records"
	}

	for _, col := range def.Columns {
		data.Headers = append(data.Headers, col.Header)
	}
	data.Rows = make([]rowView, 0, len(v.Rows))
	for _, rec := range v.Rows {
		row := rowView{ID: def.ID(rec)}
		for _, col := range def.Columns {
			row.Cells = append(row.Cells, col.Value(rec))
		}
		if !def.ReadOnly {
			for _, a := range def.Actions {
				if a.Show == nil || a.Show(rec) {
					row.Actions = append(row.Actions, actionView{Name: a.Name, Label: a.Label})
				}
			}
		}
		data.Rows = append(data.Rows, row)
	}

	if p := v.Pending; p != nil {
		data.Pending = h.pending(*p)
	}
	if d := v.Draft; d != nil && (v.AddPanelOpen || d.Editing()) {
		data.Form = h.form(ctx, *d, v.Creating)
	}
	return data
}

func (h *Handler[T, D]) pending(p listctl.Pending) *pendingView {
	pv := &pendingView{ID: p.ID}
	if p.Action == listctl.ActionDelete {
		pv.Label = "Delete"
		pv.Prompt = "Are you sure you want to delete this " + lower(h.def.Entity) + "?"
		return pv
	}
	pv.Label = string(p.Action)
	pv.Prompt = "Are you sure?"
	if a, ok := h.def.action(string(p.Action)); ok {
		pv.Label = a.Label
		if a.Prompt != "" {
			pv.Prompt = a.Prompt
		}
	}
	return pv
}

func (h *Handler[T, D]) form(ctx context.Context, d listctl.Draft[D], creating bool) *formView {
	fv := &formView{Editing: d.Editing(), ID: d.ID, Action: h.def.base(), Busy: creating && !d.Editing()}
	if d.Editing() {
		fv.Action = h.def.base() + "/" + strconv.FormatUint(uint64(d.ID), 10)
	}

	var options map[string][]Option
	if names := h.def.lookupNames(); len(names) > 0 && h.lookups != nil {
		var err error
		options, err = h.lookups.LoadAll(ctx, names)
		if err != nil {
			h.log.WarnContext(ctx, "load form lookups failed",
				slog.String("screen", h.def.Name), slog.Any("error", err))
			fv.Error = "Some choices could not be loaded"
		}
	}

	values := formValues(d.Value)
	for _, f := range h.def.Fields {
		if f.CreateOnly && d.Editing() {
			continue
		}
		item := fieldView{Field: f, Value: values[f.Name]}
		switch f.Type {
		case FieldCheckbox:
			item.Checked = item.Value == "true"
		case FieldPassword:
			item.Value = ""
		}
		if f.Lookup != "" {
			item.Options = options[f.Lookup]
		}
		fv.Fields = append(fv.Fields, item)
	}
	return fv
}
