package inmemory_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sucker/pkg/eventlog"
	"github.com/papercomputeco/sucker/pkg/storage"
	"github.com/papercomputeco/sucker/pkg/storage/inmemory"
	testutils "github.com/papercomputeco/sucker/pkg/utils/test"
)

var _ = Describe("Driver", func() {
	var (
		driver *inmemory.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = inmemory.NewDriver()
	})

	It("stores a copy of the tables", func() {
		in := testutils.NewTestTables("1")
		_, err := driver.SaveTables(ctx, "run-1", "a.json", in)
		Expect(err).NotTo(HaveOccurred())

		in.Messages[0].Text = "changed"

		out, err := driver.Tables(ctx, "run-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Messages[0].Text).To(Equal("blue, I promise we are allies"))
		Expect(out.Counts()).To(Equal(in.Counts()))
	})

	It("rejects a duplicate run id", func() {
		_, err := driver.SaveTables(ctx, "run-1", "a.json", testutils.NewTestTables("1"))
		Expect(err).NotTo(HaveOccurred())
		_, err = driver.SaveTables(ctx, "run-1", "a.json", testutils.NewTestTables("1"))
		Expect(errors.Is(err, storage.ErrRunExists)).To(BeTrue())
	})

	It("filters messages and applies the limit", func() {
		_, err := driver.SaveTables(ctx, "run-1", "a.json", testutils.NewTestTables("1"))
		Expect(err).NotTo(HaveOccurred())
		_, err = driver.SaveTables(ctx, "run-2", "b.json", testutils.NewTestTables("2"))
		Expect(err).NotTo(HaveOccurred())

		msgs, err := driver.Messages(ctx, storage.MessageFilter{Player: eventlog.Red})
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(HaveLen(2))
		Expect(msgs[1].GameID).To(Equal(eventlog.GameID("2")))

		msgs, err = driver.Messages(ctx, storage.MessageFilter{Limit: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(HaveLen(1))
	})

	It("lists runs in save order", func() {
		_, err := driver.SaveTables(ctx, "b", "b.json", testutils.NewTestTables("1"))
		Expect(err).NotTo(HaveOccurred())
		_, err = driver.SaveTables(ctx, "a", "a.json", testutils.NewTestTables("1"))
		Expect(err).NotTo(HaveOccurred())

		runs, err := driver.Runs(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(2))
		Expect(runs[0].ID).To(Equal("b"))
		Expect(runs[1].ID).To(Equal("a"))
	})

	It("returns NotFoundError for unknown runs", func() {
		_, err := driver.Run(ctx, "missing")
		Expect(err).To(MatchError(storage.NotFoundError{RunID: "missing"}))
		_, err = driver.Tables(ctx, "missing")
		Expect(err).To(MatchError(storage.NotFoundError{RunID: "missing"}))
	})
})
