package auth

import (
	"agent-lab/domain"
	"agent-lab/errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type groupsFile struct {
	Groups []GroupDefinition `yaml:"groups"`
}

// LoadFile reads a YAML groups file.
//
//	groups:
//	  - name: Wizards
//	    uuid: 6f1c...
//	    password: s3cret
//	    permissions: [movement, talk]
//	    notifications: [crossing]
func LoadFile(path string) ([]domain.Group, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open groups file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates group definitions. Ids and names must be unique.
func Load(r io.Reader) ([]domain.Group, error) {
	var file groupsFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode groups: %w", err)
	}

	groups := make([]domain.Group, 0, len(file.Groups))
	ids := make(map[string]struct{})
	names := make(map[string]struct{})
	for _, def := range file.Groups {
		group, err := def.ToGroup()
		if err != nil {
			return nil, err
		}
		if _, dup := ids[group.ID.String()]; dup {
			return nil, fmt.Errorf("%w: uuid %s", errors.ErrDuplicateGroup, group.ID)
		}
		if _, dup := names[group.Name]; dup {
			return nil, fmt.Errorf("%w: name %q", errors.ErrDuplicateGroup, group.Name)
		}
		ids[group.ID.String()] = struct{}{}
		names[group.Name] = struct{}{}
		groups = append(groups, group)
	}
	return groups, nil
}
