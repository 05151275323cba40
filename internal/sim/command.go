package sim

import (
	"time"

	"github.com/35niavlys/speedfng/internal/protocol"
)

// CommandType enumerates the supported simulation commands.
type CommandType string

const (
	CommandJoin       CommandType = "Join"
	CommandLeave      CommandType = "Leave"
	CommandInput      CommandType = "Input"
	CommandPause      CommandType = "Pause"
	CommandSpec       CommandType = "Spec"
	CommandForcePause CommandType = "ForcePause"
	CommandTeam       CommandType = "Team"
	CommandEmoticon   CommandType = "Emoticon"
	CommandKill       CommandType = "Kill"
)

// JoinCommand claims the actor's player slot.
type JoinCommand struct {
	Name         string `json:"name"`
	CustomClient bool   `json:"customClient"`
	Authed       bool   `json:"authed"`
}

// LeaveCommand frees the actor's player slot.
type LeaveCommand struct {
	Reason string `json:"reason"`
}

// ForcePauseCommand pauses another player. Only authed actors may issue it.
type ForcePauseCommand struct {
	TargetID int `json:"targetId"`
	Seconds  int `json:"seconds"`
}

// TeamCommand moves the actor to another team.
type TeamCommand struct {
	Team protocol.Team `json:"team"`
}

// EmoticonCommand shows an emoticon above the actor.
type EmoticonCommand struct {
	Emoticon protocol.Emoticon `json:"emoticon"`
}

// Command represents an intent captured for processing on the next tick.
// ActorID is the client id of the issuing player.
type Command struct {
	OriginTick uint64                `json:"originTick"`
	ActorID    int                   `json:"actorId"`
	Type       CommandType           `json:"type"`
	IssuedAt   time.Time             `json:"issuedAt"`
	Join       *JoinCommand          `json:"join,omitempty"`
	Leave      *LeaveCommand         `json:"leave,omitempty"`
	Input      *protocol.PlayerInput `json:"input,omitempty"`
	ForcePause *ForcePauseCommand    `json:"forcePause,omitempty"`
	Team       *TeamCommand          `json:"team,omitempty"`
	Emoticon   *EmoticonCommand      `json:"emoticon,omitempty"`
}

// Throttled reports whether the command counts against the per-actor queue
// limit. Joins and leaves always go through so a slot cannot get stuck.
func (c Command) Throttled() bool {
	return c.Type != CommandJoin && c.Type != CommandLeave
}
