package connector

import "errors"

var ErrConnectorNotSupported = errors.New("connector is not supported")

// Registry holds the connectors this deployment can route to. Connector
// invocation itself lives in a separate subsystem; confirmation only needs to
// pick a name that subsystem will understand.
type Registry struct {
	names map[string]struct{}
}

func NewRegistry(names ...string) *Registry {
	items := make(map[string]struct{}, len(names))
	for _, name := range names {
		items[name] = struct{}{}
	}
	return &Registry{names: items}
}

func (r *Registry) Get(name string) (string, error) {
	if _, ok := r.names[name]; !ok {
		return "", ErrConnectorNotSupported
	}
	return name, nil
}

func (r *Registry) Supported(name string) bool {
	_, ok := r.names[name]
	return ok
}
