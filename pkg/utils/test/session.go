package testutils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GameStartEvent is a game_start snapshot for game.
func GameStartEvent(game string) string {
	return fmt.Sprintf(`{"type": "game_start", "game": %q}`, game)
}

// GameEndEvent is a game_end snapshot.
func GameEndEvent(game, winner string, turns int) string {
	return fmt.Sprintf(`{"type": "game_end", "game": %q, "winner": %q, "turns": %d}`, game, winner, turns)
}

// DecisionEvent is a decision snapshot carrying the given tool calls.
func DecisionEvent(game, player string, turn int, calls ...string) string {
	return fmt.Sprintf(`{"type": "decision", "game": %q, "player": %q, "turn": %d, "llmResponse": {"toolCalls": [%s]}}`,
		game, player, turn, strings.Join(calls, ", "))
}

// ChatCall is a sendChat tool call.
func ChatCall(message string) string {
	return toolCall("sendChat", map[string]any{"message": message})
}

// ThinkCall is a think tool call.
func ThinkCall(thought string) string {
	return toolCall("think", map[string]any{"thought": thought})
}

// KillCall is a killChip tool call.
func KillCall(color string) string {
	return toolCall("killChip", map[string]any{"color": color})
}

// DonationCall is a respondToDonation tool call.
func DonationCall(accept bool) string {
	return toolCall("respondToDonation", map[string]any{"accept": accept})
}

func toolCall(name string, args map[string]any) string {
	data, err := json.Marshal(map[string]any{"name": name, "arguments": args})
	if err != nil {
		panic(err)
	}
	return string(data)
}

// SessionJSON wraps snapshots in a session document.
func SessionJSON(snapshots ...string) string {
	return `{"session": {"id": "test-session"}, "snapshots": [` + strings.Join(snapshots, ",\n") + `]}`
}

// WriteSession writes a session document to dir/name and returns its path.
func WriteSession(dir, name string, snapshots ...string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(SessionJSON(snapshots...)), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// BetrayalGame is a finished ten-turn game in which red promises blue
// safety, refuses blue a donation, then kills a blue chip.
func BetrayalGame(game string) []string {
	return []string{
		GameStartEvent(game),
		DecisionEvent(game, "red", 1, ThinkCall("blue trusts me"), ChatCall("blue, I promise we are allies")),
		DecisionEvent(game, "blue", 2, ChatCall("deal, red")),
		DecisionEvent(game, "red", 4, ThinkCall("I will refuse"), ChatCall("blue I will donate next turn"), DonationCall(false)),
		DecisionEvent(game, "red", 7, KillCall("blue")),
		DecisionEvent(game, "green", 8, ChatCall("red is winning")),
		GameEndEvent(game, "red", 10),
	}
}
