package ui

// Route paths of the dashboard
const (
	RouteProjects       = "/"
	RouteConfigurations = "/configurations"
	RouteReports        = "/reports"
)

// Routes lists every route path in tab order
var Routes = []string{RouteProjects, RouteConfigurations, RouteReports}

// ResolveRoute maps a path to a known route. Unknown paths fall back to
// the index route.
func ResolveRoute(path string) string {
	for _, r := range Routes {
		if r == path {
			return r
		}
	}
	return RouteProjects
}

func routeIndex(path string) int {
	path = ResolveRoute(path)
	for i, r := range Routes {
		if r == path {
			return i
		}
	}
	return 0
}
