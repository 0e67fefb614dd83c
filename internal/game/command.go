package game

type CommandName string

const (
	CommandStart       CommandName = "start"
	CommandPlayAction  CommandName = "play-action"
	CommandChallenge   CommandName = "challenge"
	CommandBlock       CommandName = "block"
	CommandAllow       CommandName = "allow"
	CommandReveal      CommandName = "reveal"
	CommandExchange    CommandName = "exchange"
	CommandInterrogate CommandName = "interrogate"
)

// Command is the payload a seat submits. Version must equal the game's
// current version or the command is rejected unprocessed.
type Command struct {
	Command       CommandName `json:"command"`
	Version       int         `json:"stateId"`
	Action        ActionName  `json:"action,omitempty"`
	Target        *int        `json:"target,omitempty"`
	BlockingRole  Role        `json:"blockingRole,omitempty"`
	Role          Role        `json:"role,omitempty"`
	Roles         []Role      `json:"roles,omitempty"`
	ForceExchange bool        `json:"forceExchange,omitempty"`
}

func (c CommandName) requiresLife() bool {
	switch c {
	case CommandStart, CommandReveal:
		return false
	default:
		return true
	}
}
