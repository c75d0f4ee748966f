package eventlog_test

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sucker/pkg/eventlog"
)

func parseSnapshots(snapshots string) []eventlog.Event {
	log, err := eventlog.Parse(strings.NewReader(`{"session": {}, "snapshots": [` + snapshots + `]}`))
	Expect(err).NotTo(HaveOccurred())
	return log.Events()
}

var _ = Describe("Event decoding", func() {
	It("decodes game_start with numeric slot ids", func() {
		events := parseSnapshots(`{"type": "game_start", "game": 3, "silent": true,
			"models": [{"player": "red", "model": "gemini-3-flash"}]}`)
		Expect(events).To(HaveLen(1))

		gs, ok := events[0].(eventlog.GameStart)
		Expect(ok).To(BeTrue())
		Expect(gs.Game).To(Equal(eventlog.GameID("3")))
		Expect(gs.Silent).To(BeTrue())
		Expect(gs.Models).To(HaveKeyWithValue(eventlog.Red, "gemini-3-flash"))
	})

	It("decodes game_end", func() {
		events := parseSnapshots(`{"type": "game_end", "game": "g1", "winner": "blue", "turns": 42,
			"duration": 1500, "eliminationOrder": ["red", "green", "yellow"]}`)

		ge, ok := events[0].(eventlog.GameEnd)
		Expect(ok).To(BeTrue())
		Expect(ge.Game).To(Equal(eventlog.GameID("g1")))
		Expect(ge.Winner).To(Equal(eventlog.Blue))
		Expect(ge.Turns).To(Equal(42))
		Expect(ge.Duration).To(Equal(1500 * time.Millisecond))
		Expect(ge.EliminationOrder).To(Equal([]eventlog.PlayerID{eventlog.Red, eventlog.Green, eventlog.Yellow}))
	})

	It("treats a missing winner as unknown", func() {
		ge := parseSnapshots(`{"type": "game_end", "game": 1, "winner": null, "turns": 5}`)[0].(eventlog.GameEnd)
		Expect(ge.Winner).To(Equal(eventlog.UnknownPlayer))
		Expect(ge.EliminationOrder).To(BeEmpty())
	})

	It("decodes decision tool calls in order", func() {
		events := parseSnapshots(`{
			"type": "decision", "game": 0, "turn": 7, "player": "green", "model": "qwen3-32b",
			"donationRequester": "red",
			"llmResponse": {
				"responseTime": 250, "promptTokens": 900, "completionTokens": 120,
				"toolCalls": [
					{"name": "think", "arguments": {"thought": "red is weak"}},
					{"name": "sendChat", "arguments": {"message": "red, I'll help you"}},
					{"name": "respondToDonation", "arguments": {"accept": false}},
					{"name": "killChip", "arguments": {"color": "red"}},
					{"name": "playChip", "arguments": {"color": "green"}},
					{"name": "selectPile", "arguments": {"pileId": "new"}},
					{"name": "chooseNextPlayer", "arguments": {"playerId": 1}},
					{"name": "givePrisoner", "arguments": {"toPlayerId": 3, "color": "blue"}},
					{"name": "wait", "arguments": {}}
				]
			}
		}`)

		d, ok := events[0].(eventlog.Decision)
		Expect(ok).To(BeTrue())
		Expect(d.Game).To(Equal(eventlog.GameID("0")))
		Expect(d.Turn).To(Equal(7))
		Expect(d.Player).To(Equal(eventlog.Green))
		Expect(d.Model).To(Equal("qwen3-32b"))
		Expect(d.DonationRequester).To(Equal(eventlog.Red))
		Expect(d.Usage.ResponseTime).To(Equal(250 * time.Millisecond))
		Expect(d.Usage.PromptTokens).To(Equal(900))
		Expect(d.Usage.CompletionTokens).To(Equal(120))

		Expect(d.ToolCalls).To(Equal([]eventlog.ToolCall{
			eventlog.Think{Thought: "red is weak"},
			eventlog.SendChat{Message: "red, I'll help you"},
			eventlog.RespondToDonation{Accept: false, Color: eventlog.UnknownPlayer, ToPlayer: eventlog.UnknownPlayer},
			eventlog.KillChip{Color: eventlog.Red},
			eventlog.PlayChip{Color: eventlog.Green},
			eventlog.SelectPile{PileID: "new"},
			eventlog.ChooseNextPlayer{Player: eventlog.Blue},
			eventlog.GivePrisoner{ToPlayer: eventlog.Yellow, Color: eventlog.Blue},
			eventlog.OpaqueCall{CallName: "wait", Arguments: []byte(`{}`)},
		}))
	})

	It("reads the legacy chipColor kill argument", func() {
		d := parseSnapshots(`{"type": "decision", "llmResponse": {"toolCalls": [
			{"name": "killChip", "arguments": {"chipColor": "yellow"}}]}}`)[0].(eventlog.Decision)
		Expect(d.ToolCalls).To(ConsistOf(eventlog.KillChip{Color: eventlog.Yellow}))
	})

	It("unwraps string-encoded arguments", func() {
		d := parseSnapshots(`{"type": "decision", "llmResponse": {"toolCalls": [
			{"name": "sendChat", "arguments": "{\"message\": \"hello\"}"}]}}`)[0].(eventlog.Decision)
		Expect(d.ToolCalls).To(ConsistOf(eventlog.SendChat{Message: "hello"}))
	})

	It("degrades missing fields to unknown and empty values", func() {
		d := parseSnapshots(`{"type": "decision"}`)[0].(eventlog.Decision)
		Expect(d.Game).To(Equal(eventlog.UnknownGame))
		Expect(d.Player).To(Equal(eventlog.UnknownPlayer))
		Expect(d.Turn).To(Equal(0))
		Expect(d.ToolCalls).To(BeEmpty())
		Expect(d.State).To(BeNil())
	})

	It("tolerates mistyped fields", func() {
		d := parseSnapshots(`{"type": "decision", "turn": "12", "player": 2,
			"llmResponse": {"toolCalls": [7, {"name": "sendChat", "arguments": {"message": 5}}]}}`)[0].(eventlog.Decision)
		Expect(d.Turn).To(Equal(12))
		Expect(d.Player).To(Equal(eventlog.Green))
		Expect(d.ToolCalls).To(ConsistOf(eventlog.SendChat{Message: "5"}))
	})

	It("keeps unknown event types as Other", func() {
		events := parseSnapshots(`{"type": "elimination", "player": "red"}, 42, {"no_type": true}`)
		Expect(events).To(Equal([]eventlog.Event{
			eventlog.Other{Type: "elimination"},
			eventlog.Other{},
			eventlog.Other{},
		}))
		for _, e := range events {
			Expect(e.Kind()).To(Equal(eventlog.KindOther))
		}
	})

	It("decodes the state snapshot", func() {
		d := parseSnapshots(`{"type": "decision", "state": {
			"phase": "selectChip",
			"currentPlayer": "red",
			"deadBox": ["blue"],
			"piles": [{"id": 0, "chips": ["red", "blue"]}, {"id": 1, "chips": []}],
			"players": [
				{"color": "red", "supply": 2, "prisoners": ["green"], "totalChips": 3, "alive": true},
				{"color": "blue", "supply": 0, "prisoners": [], "totalChips": 0, "alive": false}
			]
		}}`)[0].(eventlog.Decision)

		Expect(d.State).NotTo(BeNil())
		Expect(d.State.PileCount()).To(Equal(2))
		Expect(d.State.Piles[0].Chips).To(Equal([]eventlog.PlayerID{eventlog.Red, eventlog.Blue}))
		Expect(d.State.Phase).To(Equal("selectChip"))
		Expect(d.State.CurrentPlayer).To(Equal(eventlog.Red))
		Expect(d.State.DeadBox).To(Equal([]eventlog.PlayerID{eventlog.Blue}))
		Expect(d.State.Players).To(HaveLen(2))
		Expect(d.State.Players[eventlog.Red].Supply).To(Equal(2))
		Expect(d.State.Players[eventlog.Red].Prisoners).To(Equal([]eventlog.PlayerID{eventlog.Green}))
		Expect(d.State.Players[eventlog.Blue].Alive).To(BeFalse())
	})

	It("accepts players keyed by color", func() {
		d := parseSnapshots(`{"type": "decision", "state": {"piles": [],
			"players": {"yellow": {"supply": 4, "prisoners": ["red"]}}}}`)[0].(eventlog.Decision)
		Expect(d.State.PileCount()).To(Equal(0))
		Expect(d.State.Players[eventlog.Yellow].Supply).To(Equal(4))
	})
})

var _ = Describe("PlayerID", func() {
	DescribeTable("ParsePlayerID",
		func(in string, want eventlog.PlayerID, known bool) {
			got := eventlog.ParsePlayerID(in)
			Expect(got).To(Equal(want))
			Expect(got.Known()).To(Equal(known))
		},
		Entry("lowercase color", "red", eventlog.Red, true),
		Entry("mixed case", " Blue ", eventlog.Blue, true),
		Entry("empty", "", eventlog.UnknownPlayer, false),
		Entry("unrecognized", "purple", eventlog.PlayerID("purple"), false),
	)

	It("maps table indexes to colors", func() {
		Expect(eventlog.PlayerAt(0)).To(Equal(eventlog.Red))
		Expect(eventlog.PlayerAt(3)).To(Equal(eventlog.Yellow))
		Expect(eventlog.PlayerAt(4)).To(Equal(eventlog.UnknownPlayer))
		Expect(eventlog.PlayerAt(-1)).To(Equal(eventlog.UnknownPlayer))
	})

	It("never reports the unknown game as known", func() {
		Expect(eventlog.UnknownGame.Known()).To(BeFalse())
		Expect(eventlog.GameID("").Known()).To(BeFalse())
		Expect(eventlog.GameID("0").Known()).To(BeTrue())
	})
})
