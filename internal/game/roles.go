package game

import "slices"

type Role string

const (
	RoleNone       Role = ""
	RoleUnknown    Role = "unknown"
	RoleDuke       Role = "duke"
	RoleCaptain    Role = "captain"
	RoleAssassin   Role = "assassin"
	RoleAmbassador Role = "ambassador"
	RoleContessa   Role = "contessa"
	RoleInquisitor Role = "inquisitor"
)

var knownRoles = []Role{RoleDuke, RoleCaptain, RoleAssassin, RoleAmbassador, RoleContessa, RoleInquisitor}

func (r Role) Known() bool {
	return slices.Contains(knownRoles, r)
}

const (
	RoleSetOriginal    = "original"
	RoleSetInquisitors = "inquisitors"
)

// RoleSet is the fixed list of roles dealt in one match.
type RoleSet struct {
	Name  string
	roles []Role
}

var roleSets = map[string]RoleSet{
	RoleSetOriginal: {
		Name:  RoleSetOriginal,
		roles: []Role{RoleDuke, RoleCaptain, RoleAssassin, RoleAmbassador, RoleContessa},
	},
	RoleSetInquisitors: {
		Name:  RoleSetInquisitors,
		roles: []Role{RoleDuke, RoleCaptain, RoleAssassin, RoleInquisitor, RoleContessa},
	},
}

func RoleSetByName(name string) (RoleSet, error) {
	if name == "" {
		name = RoleSetOriginal
	}
	rs, ok := roleSets[name]
	if !ok {
		return RoleSet{}, violation(CodeUnknownRoleSet, name)
	}
	return rs, nil
}

func (rs RoleSet) Roles() []Role {
	return slices.Clone(rs.roles)
}

func (rs RoleSet) Contains(r Role) bool {
	return slices.Contains(rs.roles, r)
}

// HasInterrogate reports whether the interrogate action is playable.
func (rs RoleSet) HasInterrogate() bool {
	return rs.Contains(RoleInquisitor)
}

func (rs RoleSet) exchangeRole() Role {
	if rs.Contains(RoleAmbassador) {
		return RoleAmbassador
	}
	return RoleInquisitor
}

func (rs RoleSet) exchangeDraw() int {
	if rs.exchangeRole() == RoleAmbassador {
		return 2
	}
	return 1
}

// checkRole validates a role token submitted by a seat.
func (rs RoleSet) checkRole(r Role) error {
	if !r.Known() {
		return violation(CodeUnknownRole, string(r))
	}
	if !rs.Contains(r) {
		return violation(CodeRoleNotInGame, string(r))
	}
	return nil
}
