package runtime

import (
	"agent-lab/contract"
	"agent-lab/domain"
	"fmt"
	"sort"

	"github.com/samber/lo"
)

type Set map[string]struct{}

// Command binds a verb to its handler, the permission it requires and the
// request keys it reads. PermissionNone means anyone authenticated may run it.
type Command struct {
	Verb       string
	Permission domain.Permission
	Arguments  []string
	Handler    contract.Handler
}

// Registry is built once at startup and only read afterwards.
type Registry struct {
	commands map[string]Command
}

func NewRegistry(commands ...Command) *Registry {
	r := &Registry{commands: make(map[string]Command)}
	for _, cmd := range commands {
		r.Register(cmd)
	}
	return r
}

// Register panics on a duplicated verb: two handlers for one verb is a wiring bug.
func (r *Registry) Register(cmd Command) *Registry {
	if _, exists := r.commands[cmd.Verb]; exists {
		panic(fmt.Sprintf("command %q registered twice", cmd.Verb))
	}
	r.commands[cmd.Verb] = cmd
	return r
}

func (r *Registry) Lookup(verb string) (Command, bool) {
	cmd, ok := r.commands[verb]
	return cmd, ok
}

func (r *Registry) Verbs() []string {
	verbs := lo.Keys(r.commands)
	sort.Strings(verbs)
	return verbs
}

// ArgumentKeys is the union of every registered command's argument keys.
func (r *Registry) ArgumentKeys() Set {
	keys := make(Set)
	for _, cmd := range r.commands {
		for _, arg := range cmd.Arguments {
			keys[arg] = struct{}{}
		}
	}
	return keys
}
