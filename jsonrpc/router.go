package jsonrpc

// Route pairs a registered handler with the middlewares that wrap it. The
// middleware slice already includes the server's global middlewares at the
// front; Middlewares[0] is the outermost interceptor.
type Route[M any] struct {
	Handler     RawHandler[M]
	Middlewares []Middleware[M]
}

// Router maps method names to routes. Implementations are populated at build
// time and must not be mutated once the server is finished; the dispatch read
// path takes no locks.
type Router[M any] interface {
	// Get returns the route registered under name.
	Get(name string) (*Route[M], bool)
	// Insert registers a route, overwriting any previous registration under
	// the same name and returning the displaced route if there was one.
	Insert(name string, route *Route[M]) *Route[M]
}

// MapRouter is the default map-backed Router.
type MapRouter[M any] struct {
	routes map[string]*Route[M]
}

// NewMapRouter creates an empty MapRouter.
func NewMapRouter[M any]() *MapRouter[M] {
	return &MapRouter[M]{routes: make(map[string]*Route[M])}
}

func (r *MapRouter[M]) Get(name string) (*Route[M], bool) {
	route, ok := r.routes[name]
	return route, ok
}

func (r *MapRouter[M]) Insert(name string, route *Route[M]) *Route[M] {
	prev := r.routes[name]
	r.routes[name] = route
	return prev
}

// Names returns the registered method names, in no particular order.
func (r *MapRouter[M]) Names() []string {
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	return names
}
