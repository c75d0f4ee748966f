package analysis

import (
	"strings"

	"github.com/papercomputeco/sucker/pkg/eventlog"
)

// Lexicon is a named list of lowercase phrases matched by substring.
type Lexicon struct {
	Name  string
	Words []string
}

// Match reports whether any phrase occurs in text, ignoring case.
func (l Lexicon) Match(text string) bool {
	text = strings.ToLower(text)
	for _, w := range l.Words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// Hits is the number of distinct phrases that occur in text.
func (l Lexicon) Hits(text string) int {
	text = strings.ToLower(text)
	n := 0
	for _, w := range l.Words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

var (
	Alliance = Lexicon{Name: "alliance", Words: []string{
		"alliance", "ally", "team up", "work together", "partner", "deal", "coordinate", "cooperate", "join", "together",
	}}
	Promise = Lexicon{Name: "promise", Words: []string{
		"promise", "swear", "guarantee", "word", "commit", "trust me", "i will", "won't betray", "loyal",
	}}
	Betrayal = Lexicon{Name: "betrayal", Words: []string{
		"betray", "backstab", "lied", "broke", "deceive", "trick", "fooled", "played", "traitor",
	}}
	Threat = Lexicon{Name: "threat", Words: []string{
		"eliminate", "kill", "destroy", "target", "attack", "crush", "end you",
	}}
	Gaslighting = Lexicon{Name: "gaslighting", Words: []string{
		"look at the board", "obviously", "clearly", "you know", "everyone sees", "face it",
	}}
	Gloating = Lexicon{Name: "gloating", Words: []string{
		"game over", "you lose", "so long", "goodbye", "finished", "over for you",
	}}
	DonationOffer = Lexicon{Name: "donation", Words: []string{
		"donate", "give you", "help you", "spare", "lend", "share",
	}}
	Refusal = Lexicon{Name: "refusal", Words: []string{
		"refuse", "won't donate", "can't spare", "need my", "keep my", "not donating",
	}}
)

// Lexicons are the lexicons counted in reports, in report order.
var Lexicons = []Lexicon{Alliance, Promise, Betrayal, Threat, Gaslighting, Gloating, DonationOffer, Refusal}

// CountKeywords counts, per lexicon name, the texts matching it.
func CountKeywords(texts []string, lexicons ...Lexicon) map[string]int {
	if len(lexicons) == 0 {
		lexicons = Lexicons
	}
	counts := make(map[string]int, len(lexicons))
	for _, l := range lexicons {
		counts[l.Name] = 0
	}
	for _, t := range texts {
		for _, l := range lexicons {
			if l.Match(t) {
				counts[l.Name]++
			}
		}
	}
	return counts
}

// Mentions lists the table colors named in text other than speaker, in
// table order.
func Mentions(text string, speaker eventlog.PlayerID) []eventlog.PlayerID {
	text = strings.ToLower(text)
	var out []eventlog.PlayerID
	for _, p := range eventlog.Players {
		if p != speaker && strings.Contains(text, string(p)) {
			out = append(out, p)
		}
	}
	return out
}
