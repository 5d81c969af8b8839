package identity

import (
	"errors"
	"fmt"
)

// Role é o papel fechado de uma sessão. A claim vinda do provedor de
// autenticação é texto livre; aqui ela vira enum e todo uso posterior
// faz switch exaustivo.
type Role int

const (
	RoleUser Role = iota
	RoleSuperAdmin
)

var ErrUnknownRole = errors.New("unknown role claim")

// ParseRole mapeia a claim textual para o enum. Claim vazia vale como
// usuário comum (default do provedor para contas recém criadas).
func ParseRole(claim string) (Role, error) {
	switch claim {
	case "", "user":
		return RoleUser, nil
	case "super_admin":
		return RoleSuperAdmin, nil
	default:
		return RoleUser, fmt.Errorf("%w: %q", ErrUnknownRole, claim)
	}
}

func (r Role) String() string {
	switch r {
	case RoleSuperAdmin:
		return "super_admin"
	default:
		return "user"
	}
}
