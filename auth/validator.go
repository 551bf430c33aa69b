package auth

import (
	"agent-lab/domain"
	"agent-lab/errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// GroupDefinition is one entry of the groups file.
type GroupDefinition struct {
	Name          string   `yaml:"name" validate:"required"`
	UUID          string   `yaml:"uuid" validate:"required,uuid"`
	Password      string   `yaml:"password" validate:"required"`
	Permissions   []string `yaml:"permissions" validate:"dive,required"`
	Notifications []string `yaml:"notifications" validate:"dive,required"`
}

// ToGroup validates the definition and translates grant names to bitmasks.
func (d GroupDefinition) ToGroup() (domain.Group, error) {
	if err := validate.Struct(d); err != nil {
		return domain.Group{}, err
	}
	id, err := uuid.Parse(d.UUID)
	if err != nil {
		return domain.Group{}, err
	}

	group := domain.Group{ID: id, Name: d.Name, Secret: d.Password}
	for _, name := range d.Permissions {
		bit, ok := domain.ParsePermission(name)
		if !ok {
			return domain.Group{}, fmt.Errorf("%w: permission %q in group %q", errors.ErrUnknownGrant, name, d.Name)
		}
		group.Permissions |= bit
	}
	for _, name := range d.Notifications {
		bit, ok := domain.ParseNotification(name)
		if !ok {
			return domain.Group{}, fmt.Errorf("%w: notification %q in group %q", errors.ErrUnknownGrant, name, d.Name)
		}
		group.Notifications |= bit
	}
	return group, nil
}
