package eventlog

import "encoding/json"

// Tool names as emitted by the game agents.
const (
	ToolSendChat          = "sendChat"
	ToolThink             = "think"
	ToolKillChip          = "killChip"
	ToolRespondToDonation = "respondToDonation"
	ToolPlayChip          = "playChip"
	ToolSelectPile        = "selectPile"
	ToolChooseNextPlayer  = "chooseNextPlayer"
	ToolGivePrisoner      = "givePrisoner"
)

// ToolCall is one function call made by a model inside a decision. The
// concrete type is one of the structs below; OpaqueCall covers every name
// that is not modeled.
type ToolCall interface {
	Name() string
	toolCall()
}

// SendChat is a public table message.
type SendChat struct {
	Message string `json:"message"`
}

// Think is private reasoning, never shown to other players.
type Think struct {
	Thought string `json:"thought"`
}

// KillChip removes a chip of the given color from a captured pile.
type KillChip struct {
	Color PlayerID `json:"color"`
}

// RespondToDonation answers a chipless player's request for a prisoner.
// ToPlayer is only set when the recorder put it in the arguments; the
// requester is normally carried on the Decision.
type RespondToDonation struct {
	Accept   bool     `json:"accept"`
	Color    PlayerID `json:"color,omitempty"`
	ToPlayer PlayerID `json:"to_player,omitempty"`
}

// PlayChip selects the chip to place this turn.
type PlayChip struct {
	Color PlayerID `json:"color"`
}

// SelectPile places the selected chip. PileID is the raw id, "new" for a
// fresh pile.
type SelectPile struct {
	PileID string `json:"pile_id"`
}

// ChooseNextPlayer passes the move.
type ChooseNextPlayer struct {
	Player PlayerID `json:"player"`
}

// GivePrisoner hands a prisoner chip to another player.
type GivePrisoner struct {
	ToPlayer PlayerID `json:"to_player"`
	Color    PlayerID `json:"color"`
}

// OpaqueCall is a tool call with an unmodeled name, kept verbatim.
type OpaqueCall struct {
	CallName  string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

func (SendChat) Name() string          { return ToolSendChat }
func (Think) Name() string             { return ToolThink }
func (KillChip) Name() string          { return ToolKillChip }
func (RespondToDonation) Name() string { return ToolRespondToDonation }
func (PlayChip) Name() string          { return ToolPlayChip }
func (SelectPile) Name() string        { return ToolSelectPile }
func (ChooseNextPlayer) Name() string  { return ToolChooseNextPlayer }
func (GivePrisoner) Name() string      { return ToolGivePrisoner }
func (c OpaqueCall) Name() string      { return c.CallName }

func (SendChat) toolCall()          {}
func (Think) toolCall()             {}
func (KillChip) toolCall()          {}
func (RespondToDonation) toolCall() {}
func (PlayChip) toolCall()          {}
func (SelectPile) toolCall()        {}
func (ChooseNextPlayer) toolCall()  {}
func (GivePrisoner) toolCall()      {}
func (OpaqueCall) toolCall()        {}

// UnmarshalToolCall decodes a tool call previously encoded with
// encoding/json, as stored by reports and exports. name selects the
// concrete type; unmodeled names come back as OpaqueCall.
func UnmarshalToolCall(name string, data json.RawMessage) (ToolCall, error) {
	var err error
	unmarshal := func(v any) {
		if len(data) > 0 {
			err = json.Unmarshal(data, v)
		}
	}

	switch name {
	case ToolSendChat:
		var tc SendChat
		unmarshal(&tc)
		return tc, err
	case ToolThink:
		var tc Think
		unmarshal(&tc)
		return tc, err
	case ToolKillChip:
		var tc KillChip
		unmarshal(&tc)
		return tc, err
	case ToolRespondToDonation:
		var tc RespondToDonation
		unmarshal(&tc)
		return tc, err
	case ToolPlayChip:
		var tc PlayChip
		unmarshal(&tc)
		return tc, err
	case ToolSelectPile:
		var tc SelectPile
		unmarshal(&tc)
		return tc, err
	case ToolChooseNextPlayer:
		var tc ChooseNextPlayer
		unmarshal(&tc)
		return tc, err
	case ToolGivePrisoner:
		var tc GivePrisoner
		unmarshal(&tc)
		return tc, err
	default:
		tc := OpaqueCall{CallName: name}
		unmarshal(&tc)
		tc.CallName = name
		return tc, err
	}
}
