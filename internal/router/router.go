package router

import (
	"errors"
	"fmt"
	"strings"
)

// DashboardComponent names the placeholder view every route currently renders.
const DashboardComponent = "dashboard"

// Route maps a URL path to the view component that renders it.
type Route struct {
	Name      string
	Path      string
	Title     string
	Component string
}

// Router resolves paths and names against an immutable route table.
type Router struct {
	routes []Route
	byPath map[string]int
	byName map[string]int
}

var (
	ErrEmptyPath      = errors.New("route path is empty")
	ErrEmptyName      = errors.New("route name is empty")
	ErrEmptyComponent = errors.New("route component is empty")
)

// DefaultRoutes returns the application route table in declaration order.
func DefaultRoutes() []Route {
	return []Route{
		{Name: "dashboard", Path: "/", Title: "Dashboard", Component: DashboardComponent},
		{Name: "documents", Path: "/documents", Title: "Documents", Component: DashboardComponent},
		{Name: "solar-activities", Path: "/solar-activities", Title: "Solar Activities", Component: DashboardComponent},
		{Name: "guided-planning", Path: "/guided-planning", Title: "Guided Planning", Component: DashboardComponent},
		{Name: "solar-projects", Path: "/solar-projects", Title: "Solar Projects", Component: DashboardComponent},
		{Name: "tax-calculators", Path: "/tax-calculators", Title: "Tax Calculators", Component: DashboardComponent},
		{Name: "settings", Path: "/settings", Title: "Settings", Component: DashboardComponent},
		{Name: "support", Path: "/support", Title: "Support", Component: DashboardComponent},
	}
}

// Default builds a router over DefaultRoutes. The table is static, so a
// construction failure is a programming error.
func Default() *Router {
	r, err := New(DefaultRoutes())
	if err != nil {
		panic(err)
	}
	return r
}

// New validates the route table and builds the lookup indexes.
func New(routes []Route) (*Router, error) {
	r := &Router{
		routes: make([]Route, 0, len(routes)),
		byPath: make(map[string]int, len(routes)),
		byName: make(map[string]int, len(routes)),
	}
	for i, route := range routes {
		if strings.TrimSpace(route.Path) == "" {
			return nil, fmt.Errorf("route %d: %w", i, ErrEmptyPath)
		}
		if strings.TrimSpace(route.Name) == "" {
			return nil, fmt.Errorf("route %s: %w", route.Path, ErrEmptyName)
		}
		if strings.TrimSpace(route.Component) == "" {
			return nil, fmt.Errorf("route %s: %w", route.Path, ErrEmptyComponent)
		}
		route.Path = Normalize(route.Path)
		key := pathKey(route.Path)
		if _, dup := r.byPath[key]; dup {
			return nil, fmt.Errorf("duplicate route path %q", route.Path)
		}
		if _, dup := r.byName[route.Name]; dup {
			return nil, fmt.Errorf("duplicate route name %q", route.Name)
		}
		if route.Title == "" {
			route.Title = route.Name
		}
		r.byPath[key] = len(r.routes)
		r.byName[route.Name] = len(r.routes)
		r.routes = append(r.routes, route)
	}
	return r, nil
}

// Routes returns a copy of the table in declaration order.
func (r *Router) Routes() []Route {
	dup := make([]Route, len(r.routes))
	copy(dup, r.routes)
	return dup
}

// Resolve looks up the route for a path after normalisation. Matching is
// case-insensitive.
func (r *Router) Resolve(path string) (Route, bool) {
	idx, ok := r.byPath[pathKey(Normalize(path))]
	if !ok {
		return Route{}, false
	}
	return r.routes[idx], true
}

// ByName looks up a route by its name.
func (r *Router) ByName(name string) (Route, bool) {
	idx, ok := r.byName[strings.TrimSpace(name)]
	if !ok {
		return Route{}, false
	}
	return r.routes[idx], true
}

// Root returns the route mounted at "/", or the first declared route.
func (r *Router) Root() Route {
	if route, ok := r.Resolve("/"); ok {
		return route
	}
	if len(r.routes) == 0 {
		return Route{}
	}
	return r.routes[0]
}

// Normalize trims whitespace, drops query and fragment, collapses repeated
// slashes, forces a leading slash and strips the trailing one from everything
// but the root.
func Normalize(path string) string {
	p := strings.TrimSpace(path)
	if idx := strings.IndexAny(p, "?#"); idx >= 0 {
		p = p[:idx]
	}
	var b strings.Builder
	b.Grow(len(p) + 1)
	b.WriteByte('/')
	for _, seg := range strings.Split(p, "/") {
		if seg == "" {
			continue
		}
		if b.Len() > 1 {
			b.WriteByte('/')
		}
		b.WriteString(seg)
	}
	return b.String()
}

func pathKey(normalized string) string {
	return strings.ToLower(normalized)
}
