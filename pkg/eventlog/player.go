package eventlog

import (
	"slices"
	"strings"
)

// PlayerID identifies a seat at the table by chip color.
type PlayerID string

const (
	Red    PlayerID = "red"
	Blue   PlayerID = "blue"
	Green  PlayerID = "green"
	Yellow PlayerID = "yellow"

	// UnknownPlayer marks a missing or unattributable player.
	UnknownPlayer PlayerID = "unknown"
)

// Players lists the seats in table order. The index matches the integer
// player ids used by tool arguments such as chooseNextPlayer.
var Players = []PlayerID{Red, Blue, Green, Yellow}

// ParsePlayerID normalizes a wire color. Empty input yields UnknownPlayer;
// unrecognized colors are kept as-is so callers can report them.
func ParsePlayerID(s string) PlayerID {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return UnknownPlayer
	}
	return PlayerID(s)
}

// PlayerAt maps a table index to its color.
func PlayerAt(i int) PlayerID {
	if i < 0 || i >= len(Players) {
		return UnknownPlayer
	}
	return Players[i]
}

// Known reports whether p is one of the four table colors.
func (p PlayerID) Known() bool {
	return slices.Contains(Players, p)
}

func (p PlayerID) String() string {
	if p == "" {
		return string(UnknownPlayer)
	}
	return string(p)
}

// GameID is the opaque identifier of one playthrough. Recorders write the
// game slot as a JSON number; it is kept as its decimal text.
type GameID string

// UnknownGame marks facts that could not be attributed to a started game.
const UnknownGame GameID = "unknown"

// Known reports whether g names an actual game.
func (g GameID) Known() bool {
	return g != "" && g != UnknownGame
}

func (g GameID) String() string {
	if g == "" {
		return string(UnknownGame)
	}
	return string(g)
}
