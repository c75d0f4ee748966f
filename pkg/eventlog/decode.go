package eventlog

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// fields is a JSON object decoded one level deep. Its accessors never fail:
// a missing, null or mistyped value reads as the zero value.
type fields map[string]json.RawMessage

func asFields(raw json.RawMessage) fields {
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return f
}

func (f fields) raw(key string) (json.RawMessage, bool) {
	v, ok := f[key]
	if !ok || len(v) == 0 || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil, false
	}
	return v, true
}

// text reads a string, or the literal text of a number.
func (f fields) text(key string) string {
	v, ok := f.raw(key)
	if !ok {
		return ""
	}
	return scalarText(v)
}

func (f fields) integer(key string) (int, bool) {
	v, ok := f.raw(key)
	if !ok {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(v, &n); err == nil {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func (f fields) boolean(key string) bool {
	v, ok := f.raw(key)
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		parsed, _ := strconv.ParseBool(strings.TrimSpace(s))
		return parsed
	}
	return false
}

func (f fields) object(key string) fields {
	v, ok := f.raw(key)
	if !ok {
		return nil
	}
	return asFields(v)
}

func (f fields) array(key string) []json.RawMessage {
	v, ok := f.raw(key)
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		return nil
	}
	return items
}

// player reads a color string or a table index.
func (f fields) player(key string) PlayerID {
	v, ok := f.raw(key)
	if !ok {
		return UnknownPlayer
	}
	return playerFromRaw(v)
}

func (f fields) players(key string) []PlayerID {
	items := f.array(key)
	if len(items) == 0 {
		return nil
	}
	out := make([]PlayerID, 0, len(items))
	for _, item := range items {
		out = append(out, playerFromRaw(item))
	}
	return out
}

func (f fields) millis(key string) time.Time {
	ms, ok := f.integer(key)
	if !ok || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms)).UTC()
}

func playerFromRaw(v json.RawMessage) PlayerID {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return PlayerAt(i)
		}
		return ParsePlayerID(s)
	}
	var n float64
	if err := json.Unmarshal(v, &n); err == nil {
		return PlayerAt(int(n))
	}
	return UnknownPlayer
}

func scalarText(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	if err := dec.Decode(&n); err == nil {
		return n.String()
	}
	return ""
}

func gameFromFields(f fields) GameID {
	g := strings.TrimSpace(f.text("game"))
	if g == "" {
		return UnknownGame
	}
	return GameID(g)
}

// decodeEvent turns one snapshot into its typed event. Records that are not
// JSON objects decode as Other with an empty type.
func decodeEvent(raw json.RawMessage) Event {
	f := asFields(raw)
	if f == nil {
		return Other{}
	}

	typ := f.text("type")
	switch Kind(typ) {
	case KindGameStart:
		return decodeGameStart(f)
	case KindGameEnd:
		return decodeGameEnd(f)
	case KindDecision:
		return decodeDecision(f)
	default:
		return Other{Type: typ}
	}
}

func decodeGameStart(f fields) GameStart {
	gs := GameStart{
		Game:   gameFromFields(f),
		Silent: f.boolean("silent"),
	}
	for _, item := range f.array("models") {
		m := asFields(item)
		if m == nil {
			continue
		}
		if gs.Models == nil {
			gs.Models = make(map[PlayerID]string)
		}
		gs.Models[m.player("player")] = m.text("model")
	}
	return gs
}

func decodeGameEnd(f fields) GameEnd {
	turns, _ := f.integer("turns")
	duration, _ := f.integer("duration")
	return GameEnd{
		Game:             gameFromFields(f),
		Winner:           f.player("winner"),
		Turns:            turns,
		EliminationOrder: f.players("eliminationOrder"),
		Duration:         time.Duration(duration) * time.Millisecond,
	}
}

func decodeDecision(f fields) Decision {
	turn, _ := f.integer("turn")
	d := Decision{
		Game:              gameFromFields(f),
		Player:            f.player("player"),
		Turn:              turn,
		Model:             f.text("model"),
		DonationRequester: f.player("donationRequester"),
	}

	if resp := f.object("llmResponse"); resp != nil {
		responseTime, _ := resp.integer("responseTime")
		d.Usage.ResponseTime = time.Duration(responseTime) * time.Millisecond
		d.Usage.PromptTokens, _ = resp.integer("promptTokens")
		d.Usage.CompletionTokens, _ = resp.integer("completionTokens")

		calls := resp.array("toolCalls")
		if len(calls) > 0 {
			d.ToolCalls = make([]ToolCall, 0, len(calls))
		}
		for _, raw := range calls {
			if tc, ok := decodeToolCall(raw); ok {
				d.ToolCalls = append(d.ToolCalls, tc)
			}
		}
	}

	if state := f.object("state"); state != nil {
		d.State = decodeState(state)
	}

	return d
}

// toolArguments returns the arguments object. Some providers deliver the
// arguments as a JSON-encoded string; those are unwrapped once.
func toolArguments(call fields) (fields, json.RawMessage) {
	raw, ok := call.raw("arguments")
	if !ok {
		return fields{}, nil
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil && json.Valid([]byte(encoded)) {
		raw = json.RawMessage(encoded)
	}
	args := asFields(raw)
	if args == nil {
		return fields{}, raw
	}
	return args, raw
}

func decodeToolCall(raw json.RawMessage) (ToolCall, bool) {
	call := asFields(raw)
	if call == nil {
		return nil, false
	}
	name := call.text("name")
	args, rawArgs := toolArguments(call)

	switch name {
	case ToolSendChat:
		return SendChat{Message: args.text("message")}, true
	case ToolThink:
		return Think{Thought: args.text("thought")}, true
	case ToolKillChip:
		color := args.player("color")
		if color == UnknownPlayer {
			color = args.player("chipColor")
		}
		return KillChip{Color: color}, true
	case ToolRespondToDonation:
		to := args.player("toPlayer")
		if to == UnknownPlayer {
			to = args.player("toPlayerId")
		}
		color := args.player("color")
		if color == UnknownPlayer {
			color = args.player("chipColor")
		}
		return RespondToDonation{Accept: args.boolean("accept"), Color: color, ToPlayer: to}, true
	case ToolPlayChip:
		return PlayChip{Color: args.player("color")}, true
	case ToolSelectPile:
		return SelectPile{PileID: args.text("pileId")}, true
	case ToolChooseNextPlayer:
		return ChooseNextPlayer{Player: args.player("playerId")}, true
	case ToolGivePrisoner:
		return GivePrisoner{ToPlayer: args.player("toPlayerId"), Color: args.player("color")}, true
	default:
		return OpaqueCall{CallName: name, Arguments: rawArgs}, true
	}
}

func decodeState(f fields) *GameState {
	s := &GameState{
		Phase:         f.text("phase"),
		CurrentPlayer: f.player("currentPlayer"),
		DeadBox:       f.players("deadBox"),
	}

	for i, raw := range f.array("piles") {
		p := asFields(raw)
		pile := Pile{ID: i}
		if p != nil {
			if id, ok := p.integer("id"); ok {
				pile.ID = id
			}
			pile.Chips = p.players("chips")
		}
		s.Piles = append(s.Piles, pile)
	}

	s.Players = decodePlayers(f)
	return s
}

// decodePlayers accepts both the recorder's array of {color, ...} objects
// and an object keyed by color.
func decodePlayers(f fields) map[PlayerID]PlayerState {
	raw, ok := f.raw("players")
	if !ok {
		return nil
	}

	out := make(map[PlayerID]PlayerState)
	if items := f.array("players"); items != nil {
		for i, item := range items {
			p := asFields(item)
			if p == nil {
				continue
			}
			color := p.player("color")
			if color == UnknownPlayer {
				color = PlayerAt(i)
			}
			out[color] = decodePlayerState(p)
		}
		return out
	}

	for key, item := range asFields(raw) {
		p := asFields(item)
		if p == nil {
			continue
		}
		out[ParsePlayerID(key)] = decodePlayerState(p)
	}
	return out
}

func decodePlayerState(p fields) PlayerState {
	supply, _ := p.integer("supply")
	total, _ := p.integer("totalChips")
	return PlayerState{
		Supply:     supply,
		Prisoners:  p.players("prisoners"),
		TotalChips: total,
		Alive:      p.boolean("alive"),
	}
}

func decodeSession(raw json.RawMessage) Session {
	f := asFields(raw)
	if f == nil {
		return Session{}
	}

	s := Session{
		ID:        f.text("id"),
		Provider:  f.text("provider"),
		StartTime: f.millis("startTime"),
		EndTime:   f.millis("endTime"),
	}
	s.TotalGames, _ = f.integer("totalGames")
	s.CompletedGames, _ = f.integer("completedGames")
	s.ActiveGames, _ = f.integer("activeGames")
	s.Chips, _ = f.integer("chips")

	if model := f.text("model"); model != "" {
		s.Models = []string{model}
	} else {
		for _, item := range f.array("model") {
			s.Models = append(s.Models, scalarText(item))
		}
	}

	for key, item := range f.object("playerModels") {
		if s.PlayerModels == nil {
			s.PlayerModels = make(map[PlayerID]string)
		}
		s.PlayerModels[ParsePlayerID(key)] = scalarText(item)
	}

	return s
}
