package game

import "slices"

type ActionName string

const (
	ActionIncome      ActionName = "income"
	ActionForeignAid  ActionName = "foreign-aid"
	ActionCoup        ActionName = "coup"
	ActionTax         ActionName = "tax"
	ActionAssassinate ActionName = "assassinate"
	ActionSteal       ActionName = "steal"
	ActionExchange    ActionName = "exchange"
	ActionInterrogate ActionName = "interrogate"
)

const (
	StartingCash       = 2
	CoupCost           = 7
	AssassinateCost    = 3
	MandatoryCoupCash  = 10
	StealAmount        = 2
	CopiesPerRole      = 3
	InfluencePerPlayer = 2
	MinPlayers         = 2
	MaxPlayers         = 6
)

// ActionSpec describes one playable action as resolved for a role set.
type ActionSpec struct {
	Name      ActionName
	Role      Role
	Cost      int
	Gain      int
	Targeted  bool
	BlockedBy []Role
}

var actionTable = map[ActionName]ActionSpec{
	ActionIncome:      {Name: ActionIncome, Gain: 1},
	ActionForeignAid:  {Name: ActionForeignAid, Gain: 2, BlockedBy: []Role{RoleDuke}},
	ActionCoup:        {Name: ActionCoup, Cost: CoupCost, Targeted: true},
	ActionTax:         {Name: ActionTax, Role: RoleDuke, Gain: 3},
	ActionAssassinate: {Name: ActionAssassinate, Role: RoleAssassin, Cost: AssassinateCost, Targeted: true, BlockedBy: []Role{RoleContessa}},
	ActionSteal:       {Name: ActionSteal, Role: RoleCaptain, Targeted: true, BlockedBy: []Role{RoleCaptain, RoleAmbassador, RoleInquisitor}},
	ActionExchange:    {Name: ActionExchange},
	ActionInterrogate: {Name: ActionInterrogate, Role: RoleInquisitor, Targeted: true},
}

// Action returns the spec of a named action for this role set. The exchange
// role depends on the set, blockers are limited to roles in play, and
// interrogate only exists when the set has an inquisitor.
func (rs RoleSet) Action(name ActionName) (ActionSpec, bool) {
	spec, ok := actionTable[name]
	if !ok {
		return ActionSpec{}, false
	}
	if name == ActionInterrogate && !rs.HasInterrogate() {
		return ActionSpec{}, false
	}
	if name == ActionExchange {
		spec.Role = rs.exchangeRole()
	}
	blockers := make([]Role, 0, len(spec.BlockedBy))
	for _, r := range spec.BlockedBy {
		if rs.Contains(r) {
			blockers = append(blockers, r)
		}
	}
	spec.BlockedBy = blockers
	return spec, true
}

// Claimable reports whether playing the action claims a role, making it challengeable.
func (a ActionSpec) Claimable() bool {
	return a.Role != RoleNone
}

func (a ActionSpec) Blockable() bool {
	return len(a.BlockedBy) > 0
}

func (a ActionSpec) CanBlockWith(r Role) bool {
	return slices.Contains(a.BlockedBy, r)
}
