package kinds

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry holds the resource kinds loaded from the embedded YAML file,
// in declaration order.
type Registry struct {
	kinds []Kind
	byName map[string]*Kind
}

// NewRegistry loads the embedded kind definitions.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/kinds.yaml")
	if err != nil {
		return nil, fmt.Errorf("read kinds config: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal kinds config: %w", err)
	}
	if len(file.Kinds) == 0 {
		return nil, fmt.Errorf("kinds config defines no kinds")
	}

	r := &Registry{
		kinds:  file.Kinds,
		byName: make(map[string]*Kind, len(file.Kinds)),
	}
	for i := range r.kinds {
		k := &r.kinds[i]
		if k.Name == "" || k.FolderTable == "" || k.ResourceTable == "" {
			return nil, fmt.Errorf("kind %d is missing name or table names", i)
		}
		if _, dup := r.byName[k.Name]; dup {
			return nil, fmt.Errorf("duplicate kind %q", k.Name)
		}
		r.byName[k.Name] = k
	}

	return r, nil
}

// All returns the kinds in declaration order.
func (r *Registry) All() []Kind {
	return r.kinds
}

// Get returns the kind with the given name, or false.
func (r *Registry) Get(name string) (*Kind, bool) {
	k, ok := r.byName[name]
	return k, ok
}
