package game

import "errors"

type ViolationCode string

const (
	CodeStaleVersion      ViolationCode = "stale_version"
	CodeInvalidSeat       ViolationCode = "invalid_seat"
	CodeObserver          ViolationCode = "observer"
	CodeNotAlive          ViolationCode = "not_alive"
	CodeWrongPhase        ViolationCode = "wrong_phase"
	CodeGameOver          ViolationCode = "game_over"
	CodeNotYourTurn       ViolationCode = "not_your_turn"
	CodeAlreadyResponded  ViolationCode = "already_responded"
	CodeInsufficientFunds ViolationCode = "insufficient_funds"
	CodeCoupRequired      ViolationCode = "coup_required"
	CodeTargetRequired    ViolationCode = "target_required"
	CodeInvalidTarget     ViolationCode = "invalid_target"
	CodeUnknownCommand    ViolationCode = "unknown_command"
	CodeUnknownAction     ViolationCode = "unknown_action"
	CodeUnknownRole       ViolationCode = "unknown_role"
	CodeUnknownRoleSet    ViolationCode = "unknown_role_set"
	CodeRoleNotInGame     ViolationCode = "role_not_in_game"
	CodeCannotChallenge   ViolationCode = "cannot_challenge"
	CodeNotBlockable      ViolationCode = "not_blockable"
	CodeCannotBlock       ViolationCode = "cannot_block"
	CodeRoleNotHeld       ViolationCode = "role_not_held"
	CodeInvalidExchange   ViolationCode = "invalid_exchange"
	CodeGameFull          ViolationCode = "game_full"
	CodeGameStarted       ViolationCode = "game_started"
	CodeNotEnoughPlayers  ViolationCode = "not_enough_players"
	CodeAlreadyLeft       ViolationCode = "already_left"
)

// RuleViolation is the only error kind returned for rejected commands.
// A rejected command never mutates the game it was applied to.
type RuleViolation struct {
	Code   ViolationCode
	Detail string
}

func (v *RuleViolation) Error() string {
	if v.Detail == "" {
		return string(v.Code)
	}
	return string(v.Code) + ": " + v.Detail
}

// Is matches any violation with the same code, so a detailed violation
// still satisfies errors.Is against the bare sentinel.
func (v *RuleViolation) Is(target error) bool {
	t, ok := target.(*RuleViolation)
	return ok && t.Code == v.Code
}

var (
	ErrStaleVersion      = &RuleViolation{Code: CodeStaleVersion}
	ErrInvalidSeat       = &RuleViolation{Code: CodeInvalidSeat}
	ErrObserver          = &RuleViolation{Code: CodeObserver}
	ErrNotAlive          = &RuleViolation{Code: CodeNotAlive}
	ErrWrongPhase        = &RuleViolation{Code: CodeWrongPhase}
	ErrGameOver          = &RuleViolation{Code: CodeGameOver}
	ErrNotYourTurn       = &RuleViolation{Code: CodeNotYourTurn}
	ErrAlreadyResponded  = &RuleViolation{Code: CodeAlreadyResponded}
	ErrInsufficientFunds = &RuleViolation{Code: CodeInsufficientFunds}
	ErrCoupRequired      = &RuleViolation{Code: CodeCoupRequired}
	ErrTargetRequired    = &RuleViolation{Code: CodeTargetRequired}
	ErrInvalidTarget     = &RuleViolation{Code: CodeInvalidTarget}
	ErrUnknownCommand    = &RuleViolation{Code: CodeUnknownCommand}
	ErrUnknownAction     = &RuleViolation{Code: CodeUnknownAction}
	ErrUnknownRole       = &RuleViolation{Code: CodeUnknownRole}
	ErrUnknownRoleSet    = &RuleViolation{Code: CodeUnknownRoleSet}
	ErrRoleNotInGame     = &RuleViolation{Code: CodeRoleNotInGame}
	ErrCannotChallenge   = &RuleViolation{Code: CodeCannotChallenge}
	ErrNotBlockable      = &RuleViolation{Code: CodeNotBlockable}
	ErrCannotBlock       = &RuleViolation{Code: CodeCannotBlock}
	ErrRoleNotHeld       = &RuleViolation{Code: CodeRoleNotHeld}
	ErrInvalidExchange   = &RuleViolation{Code: CodeInvalidExchange}
	ErrGameFull          = &RuleViolation{Code: CodeGameFull}
	ErrGameStarted       = &RuleViolation{Code: CodeGameStarted}
	ErrNotEnoughPlayers  = &RuleViolation{Code: CodeNotEnoughPlayers}
	ErrAlreadyLeft       = &RuleViolation{Code: CodeAlreadyLeft}
)

func violation(code ViolationCode, detail string) error {
	return &RuleViolation{Code: code, Detail: detail}
}

// ViolationCodeOf returns the code of a rule violation, or "" for any other error.
func ViolationCodeOf(err error) ViolationCode {
	var v *RuleViolation
	if errors.As(err, &v) {
		return v.Code
	}
	return ""
}
