package types

// EntityID is the host engine's identifier for a single entity.
type EntityID uint64

// Component is the interface a user-defined component type must implement to
// be attached to an entity. Component values are plain structs with exported,
// JSON-serializable fields.
type Component interface {
	// Name returns the name of the component.
	Name() string
}

// ComponentNames maps a list of components to their registered names.
func ComponentNames(components []Component) []string {
	names := make([]string, 0, len(components))
	for _, c := range components {
		names = append(names, c.Name())
	}
	return names
}
