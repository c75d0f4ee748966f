package report

import (
	"fmt"
	"strconv"

	"github.com/papercomputeco/sucker/pkg/analysis"
	"github.com/papercomputeco/sucker/pkg/eventlog"
	"github.com/papercomputeco/sucker/pkg/facts"
)

const title = "So Long Sucker: deception analysis"

// section is one titled block of a report: a few summary lines and an
// optional table.
type section struct {
	title   string
	lines   []string
	headers []string
	rows    [][]string
}

func sections(rep *analysis.Report, limit int) []section {
	return []section{
		summarySection(rep),
		playersSection(rep),
		keywordsSection(rep),
		phasesSection(rep),
		promisesSection(rep, limit),
		honestySection(rep, limit),
		chatWinSection(rep),
	}
}

func summarySection(rep *analysis.Report) section {
	c := rep.Counts
	s := section{title: "Summary"}
	for _, src := range rep.Sources {
		s.lines = append(s.lines, "source: "+src)
	}
	s.lines = append(s.lines,
		fmt.Sprintf("games: %d (%d finished)", rep.Games, rep.Finished),
		fmt.Sprintf("messages: %d, turns: %d, kills: %d, donations: %d",
			c.Messages, c.Turns, c.Kills, c.Donations),
	)
	return s
}

func playersSection(rep *analysis.Report) section {
	s := section{
		title:   "Player statistics",
		headers: []string{"player", "model", "msgs", "thoughts", "kills", "killed", "donated", "refused", "wins", "win rate", "avg words"},
	}
	for _, p := range rep.Players {
		s.rows = append(s.rows, []string{
			string(p.Player),
			orDash(p.Model),
			itoa(p.Messages),
			itoa(p.Thoughts),
			itoa(p.Kills),
			itoa(p.TimesKilled),
			itoa(p.DonationsAccepted),
			itoa(p.DonationsRefused),
			fmt.Sprintf("%d/%d", p.Wins, p.Games),
			percent(p.WinRate),
			fmt.Sprintf("%.1f", p.AvgWords),
		})
	}
	return s
}

func keywordsSection(rep *analysis.Report) section {
	s := section{title: "Keywords", headers: []string{"player"}}
	for _, l := range analysis.Lexicons {
		s.headers = append(s.headers, l.Name)
	}
	for _, p := range rep.Players {
		row := []string{string(p.Player)}
		for _, l := range analysis.Lexicons {
			row = append(row, itoa(p.Keywords[l.Name]))
		}
		s.rows = append(s.rows, row)
	}
	return s
}

func phasesSection(rep *analysis.Report) section {
	s := section{
		title:   "Message timing by phase",
		headers: []string{"", "early", "mid", "late", "unknown", "total"},
	}
	row := func(name string, c analysis.PhaseCounts) []string {
		return []string{
			name,
			phaseCell(c, facts.PhaseEarly),
			phaseCell(c, facts.PhaseMid),
			phaseCell(c, facts.PhaseLate),
			itoa(c.Unknown),
			itoa(c.Total()),
		}
	}
	for _, p := range rep.Phases.Players {
		s.rows = append(s.rows, row(string(p.Player), p.Counts))
	}
	s.rows = append(s.rows,
		row("winners", rep.Phases.Winners),
		row("losers", rep.Phases.Losers),
	)
	return s
}

func promisesSection(rep *analysis.Report, limit int) section {
	s := section{
		title:   "Broken promises",
		lines:   []string{fmt.Sprintf("%d promises followed by a kill of the promised player", len(rep.BrokenPromises))},
		headers: []string{"game", "betrayer", "victim", "promised", "killed", "promise"},
	}
	for _, bp := range clip(rep.BrokenPromises, limit) {
		s.rows = append(s.rows, []string{
			string(bp.GameID),
			string(bp.Betrayer),
			string(bp.Victim),
			itoa(bp.PromiseTurn),
			itoa(bp.KillTurn),
			bp.Promise,
		})
	}
	if len(s.rows) == 0 {
		s.headers = nil
	}
	return s
}

func honestySection(rep *analysis.Report, limit int) section {
	s := section{
		title:   "Lying vs bullshitting",
		headers: []string{"player", "responses", "promises", "kept", "broken", "lying", "bullshitting", "planned refuse", "planned donate"},
	}
	var lying, bs int
	for _, h := range rep.Honesty.Players {
		lying += h.Lying
		bs += h.Bullshitting
		s.rows = append(s.rows, []string{
			string(h.Player),
			itoa(h.Responses),
			itoa(h.Promises),
			itoa(h.Kept),
			itoa(h.Broken),
			itoa(h.Lying),
			itoa(h.Bullshitting),
			itoa(h.PlannedRefuse),
			itoa(h.PlannedDonate),
		})
	}
	s.lines = append(s.lines, fmt.Sprintf("%d lying, %d bullshitting", lying, bs))

	var broken []analysis.DonationCase
	for _, c := range rep.Honesty.Cases {
		if c.Verdict != analysis.VerdictKept {
			broken = append(broken, c)
		}
	}
	for _, c := range clip(broken, limit) {
		s.lines = append(s.lines, fmt.Sprintf("%s %s turn %d (%s): said %q, thought %q",
			c.GameID, c.Player, c.Turn, c.Verdict, c.Chat, orDash(c.Thought)))
	}
	return s
}

func chatWinSection(rep *analysis.Report) section {
	cw := rep.ChatWin
	return section{
		title: "Chat volume vs winning",
		lines: []string{
			fmt.Sprintf("winners: %.1f messages per game (n=%d)", cw.WinnerMean, len(cw.WinnerChats)),
			fmt.Sprintf("losers: %.1f messages per game (n=%d)", cw.LoserMean, len(cw.LoserChats)),
			fmt.Sprintf("effect size d=%.2f, correlation r=%.2f", cw.EffectSize, cw.Correlation),
			fmt.Sprintf("promise keywords vs win rate r=%.2f", rep.PromiseWin),
		},
	}
}

func phaseCell(c analysis.PhaseCounts, p facts.Phase) string {
	var n int
	switch p {
	case facts.PhaseEarly:
		n = c.Early
	case facts.PhaseMid:
		n = c.Mid
	case facts.PhaseLate:
		n = c.Late
	}
	return fmt.Sprintf("%d (%s)", n, percent(c.Share(p)))
}

func clip[T any](items []T, limit int) []T {
	if limit < 0 || len(items) <= limit {
		return items
	}
	return items[:limit]
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func percent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

func orDash(s string) string {
	if s == "" || s == string(eventlog.UnknownPlayer) {
		return "-"
	}
	return s
}
