package app

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hrdash/internal/module/client"
	"github.com/simp-lee/hrdash/internal/module/employee"
	"github.com/simp-lee/hrdash/internal/module/entity"
	"github.com/simp-lee/hrdash/internal/module/leave"
	"github.com/simp-lee/hrdash/internal/module/leavetype"
	"github.com/simp-lee/hrdash/internal/module/loan"
	"github.com/simp-lee/hrdash/internal/module/payroll"
	"github.com/simp-lee/hrdash/internal/module/training"
)

// Module defines the contract for a self-registering business module.
// Each module registers its own API and page routes.
type Module interface {
	RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup)
}

// navigable modules contribute a link to the dashboard menu.
type navigable interface {
	Nav() (path, title string)
}

// NavItem is one entry of the dashboard menu.
type NavItem struct {
	Path  string
	Title string
}

// buildModules wires every HR collection in menu order. The employee module
// comes first because the others pick employees from its lookup; leave types
// likewise precede leave requests.
func buildModules(deps entity.Deps) []Module {
	return []Module{
		employee.NewModule(deps),
		payroll.NewModule(deps),
		payroll.NewHistoryModule(deps),
		loan.NewModule(deps),
		loan.NewAdvanceModule(deps),
		training.NewModule(deps),
		leavetype.NewModule(deps),
		leave.NewModule(deps),
		client.NewModule(deps),
	}
}

// navItems collects the menu entries of modules that have a screen.
func navItems(modules []Module) []NavItem {
	items := make([]NavItem, 0, len(modules))
	for _, m := range modules {
		if n, ok := m.(navigable); ok {
			path, title := n.Nav()
			items = append(items, NavItem{Path: path, Title: title})
		}
	}
	return items
}
