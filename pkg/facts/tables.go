package facts

import (
	"slices"

	"github.com/papercomputeco/sucker/pkg/eventlog"
)

// Tables is the full output of one walk. Each slice is in encounter order.
type Tables struct {
	Messages  []Message       `json:"messages"`
	Kills     []KillEvent     `json:"kills"`
	Donations []DonationEvent `json:"donations"`
	Outcomes  []GameOutcome   `json:"outcomes"`
	Turns     []ThinkChatTurn `json:"turns"`
	Snapshots []StateSnapshot `json:"snapshots"`
}

// Counts summarizes table sizes.
type Counts struct {
	Messages  int `json:"messages"`
	Kills     int `json:"kills"`
	Donations int `json:"donations"`
	Outcomes  int `json:"outcomes"`
	Turns     int `json:"turns"`
	Snapshots int `json:"snapshots"`
}

func (t *Tables) Counts() Counts {
	return Counts{
		Messages:  len(t.Messages),
		Kills:     len(t.Kills),
		Donations: len(t.Donations),
		Outcomes:  len(t.Outcomes),
		Turns:     len(t.Turns),
		Snapshots: len(t.Snapshots),
	}
}

// Winners maps each finished game to its winner. Games that ended without a
// winner map to UnknownPlayer.
func (t *Tables) Winners() map[eventlog.GameID]eventlog.PlayerID {
	winners := make(map[eventlog.GameID]eventlog.PlayerID, len(t.Outcomes))
	for _, o := range t.Outcomes {
		winners[o.GameID] = o.Winner
	}
	return winners
}

// Games lists every game id referenced by any table, in first-seen order
// across outcomes, messages, turns, kills and donations.
func (t *Tables) Games() []eventlog.GameID {
	var order []eventlog.GameID
	seen := map[eventlog.GameID]bool{}
	add := func(g eventlog.GameID) {
		if !seen[g] {
			seen[g] = true
			order = append(order, g)
		}
	}
	for _, o := range t.Outcomes {
		add(o.GameID)
	}
	for _, m := range t.Messages {
		add(m.GameID)
	}
	for _, tc := range t.Turns {
		add(tc.GameID)
	}
	for _, k := range t.Kills {
		add(k.GameID)
	}
	for _, d := range t.Donations {
		add(d.GameID)
	}
	return order
}

// Qualify returns a copy whose known game ids are prefixed "prefix/".
// Recorders reuse slot numbers across sessions, so merged tables need it.
func (t *Tables) Qualify(prefix string) *Tables {
	q := func(g eventlog.GameID) eventlog.GameID {
		if prefix == "" || !g.Known() {
			return g
		}
		return eventlog.GameID(prefix + "/" + string(g))
	}

	out := t.Clone()
	for i := range out.Messages {
		out.Messages[i].GameID = q(out.Messages[i].GameID)
	}
	for i := range out.Kills {
		out.Kills[i].GameID = q(out.Kills[i].GameID)
	}
	for i := range out.Donations {
		out.Donations[i].GameID = q(out.Donations[i].GameID)
	}
	for i := range out.Outcomes {
		out.Outcomes[i].GameID = q(out.Outcomes[i].GameID)
	}
	for i := range out.Turns {
		out.Turns[i].GameID = q(out.Turns[i].GameID)
	}
	for i := range out.Snapshots {
		out.Snapshots[i].GameID = q(out.Snapshots[i].GameID)
	}
	return out
}

// Clone copies the table slices. Records are values, so the copy shares
// nothing mutable with t except the inner slices of each record, which are
// never written after the walk.
func (t *Tables) Clone() *Tables {
	return &Tables{
		Messages:  slices.Clone(t.Messages),
		Kills:     slices.Clone(t.Kills),
		Donations: slices.Clone(t.Donations),
		Outcomes:  slices.Clone(t.Outcomes),
		Turns:     slices.Clone(t.Turns),
		Snapshots: slices.Clone(t.Snapshots),
	}
}

// Merge concatenates tables in argument order.
func Merge(all ...*Tables) *Tables {
	out := &Tables{}
	for _, t := range all {
		if t == nil {
			continue
		}
		out.Messages = append(out.Messages, t.Messages...)
		out.Kills = append(out.Kills, t.Kills...)
		out.Donations = append(out.Donations, t.Donations...)
		out.Outcomes = append(out.Outcomes, t.Outcomes...)
		out.Turns = append(out.Turns, t.Turns...)
		out.Snapshots = append(out.Snapshots, t.Snapshots...)
	}
	return out
}
