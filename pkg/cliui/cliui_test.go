package cliui_test

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sucker/pkg/cliui"
)

var _ = Describe("cliui", func() {
	DescribeTable("FormatDuration",
		func(d time.Duration, want string) {
			Expect(cliui.FormatDuration(d)).To(Equal(want))
		},
		Entry("milliseconds", 12*time.Millisecond, "12ms"),
		Entry("seconds", 3200*time.Millisecond, "3.2s"),
	)

	It("marks success and failure", func() {
		Expect(cliui.Mark(nil)).To(Equal(cliui.SuccessMark))
		Expect(cliui.Mark(errors.New("boom"))).To(Equal(cliui.FailMark))
	})

	Describe("Step", func() {
		It("runs fn and reports the final line", func() {
			var buf bytes.Buffer
			ran := false
			err := cliui.Step(&buf, "loading sessions", func() error {
				ran = true
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(ran).To(BeTrue())
			Expect(buf.String()).To(ContainSubstring("loading sessions"))
			Expect(buf.String()).To(HaveSuffix("\n"))
		})

		It("returns the error from fn", func() {
			var buf bytes.Buffer
			err := cliui.Step(&buf, "walking", func() error { return errors.New("bad log") })
			Expect(err).To(MatchError("bad log"))
		})
	})

	It("renders plain text without escape codes on an ascii renderer", func() {
		var buf bytes.Buffer
		r := cliui.NewRenderer(&buf, false)
		out := r.NewStyle().Bold(true).Render("winner")
		Expect(out).To(Equal("winner"))
	})

	It("renders markdown", func() {
		out, err := cliui.RenderMarkdown("# Report\n\nred won", 60)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Report"))
		Expect(out).To(ContainSubstring("red won"))
	})
})

var _ = Describe("IsTerminal", func() {
	It("is false for buffers", func() {
		Expect(cliui.IsTerminal(&bytes.Buffer{})).To(BeFalse())
	})
})
