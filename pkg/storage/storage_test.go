package storage_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sucker/pkg/eventlog"
	"github.com/papercomputeco/sucker/pkg/facts"
	"github.com/papercomputeco/sucker/pkg/storage"
)

var _ = Describe("MessageFilter", func() {
	m := facts.Message{GameID: "1", Player: eventlog.Red, Turn: 3, Phase: facts.PhaseMid}

	DescribeTable("Match",
		func(f storage.MessageFilter, want bool) {
			Expect(f.Match("run-a", m)).To(Equal(want))
		},
		Entry("empty filter", storage.MessageFilter{}, true),
		Entry("same run", storage.MessageFilter{RunID: "run-a"}, true),
		Entry("other run", storage.MessageFilter{RunID: "run-b"}, false),
		Entry("game", storage.MessageFilter{Game: "1"}, true),
		Entry("other game", storage.MessageFilter{Game: "2"}, false),
		Entry("player", storage.MessageFilter{Player: eventlog.Red}, true),
		Entry("other player", storage.MessageFilter{Player: eventlog.Blue}, false),
		Entry("phase", storage.MessageFilter{Phase: facts.PhaseMid}, true),
		Entry("other phase", storage.MessageFilter{Phase: facts.PhaseLate}, false),
	)
})

var _ = Describe("NotFoundError", func() {
	It("names the run", func() {
		Expect(storage.NotFoundError{RunID: "abc"}.Error()).To(Equal("run not found: abc"))
		Expect(storage.NotFoundError{}.Error()).To(Equal("run not found"))
	})
})

var _ = Describe("NewRunID", func() {
	It("returns distinct ids", func() {
		Expect(storage.NewRunID()).NotTo(Equal(storage.NewRunID()))
		Expect(storage.NewRunID()).To(HaveLen(36))
	})
})
