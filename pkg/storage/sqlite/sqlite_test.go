package sqlite_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sucker/pkg/eventlog"
	"github.com/papercomputeco/sucker/pkg/facts"
	"github.com/papercomputeco/sucker/pkg/storage"
	"github.com/papercomputeco/sucker/pkg/storage/sqlite"
	testutils "github.com/papercomputeco/sucker/pkg/utils/test"
)

var _ = Describe("Driver", func() {
	var (
		driver *sqlite.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		driver, err = sqlite.NewDriver(":memory:")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if driver != nil {
			driver.Close()
		}
	})

	Describe("NewDriver", func() {
		It("creates a driver with file database", func() {
			dbPath := filepath.Join(GinkgoT().TempDir(), "test.db")

			s, err := sqlite.NewDriver(dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			_, err = os.Stat(dbPath)
			Expect(err).NotTo(HaveOccurred())
		})

		It("reopens an existing database", func() {
			dbPath := filepath.Join(GinkgoT().TempDir(), "test.db")

			s, err := sqlite.NewDriver(dbPath)
			Expect(err).NotTo(HaveOccurred())
			_, err = s.SaveTables(ctx, "run-1", "a.json", testutils.NewTestTables("1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Close()).To(Succeed())

			s, err = sqlite.NewDriver(dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			runs, err := s.Runs(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
		})
	})

	Describe("SaveTables and Tables", func() {
		It("round trips every table", func() {
			in := testutils.NewTestTables("1")

			run, err := driver.SaveTables(ctx, "run-1", "session-1.json", in)
			Expect(err).NotTo(HaveOccurred())
			Expect(run.ID).To(Equal("run-1"))
			Expect(run.Source).To(Equal("session-1.json"))
			Expect(run.Counts).To(Equal(in.Counts()))

			out, err := driver.Tables(ctx, "run-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Messages).To(Equal(in.Messages))
			Expect(out.Kills).To(Equal(in.Kills))
			Expect(out.Donations).To(Equal(in.Donations))
			Expect(out.Outcomes).To(Equal(in.Outcomes))
			Expect(out.Turns).To(Equal(in.Turns))
			Expect(out.Snapshots).To(Equal(in.Snapshots))
		})

		It("stores empty tables", func() {
			_, err := driver.SaveTables(ctx, "empty", "none.json", &facts.Tables{})
			Expect(err).NotTo(HaveOccurred())

			out, err := driver.Tables(ctx, "empty")
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Counts()).To(Equal(facts.Counts{}))
		})

		It("rejects a duplicate run id", func() {
			_, err := driver.SaveTables(ctx, "run-1", "a.json", testutils.NewTestTables("1"))
			Expect(err).NotTo(HaveOccurred())

			_, err = driver.SaveTables(ctx, "run-1", "b.json", testutils.NewTestTables("2"))
			Expect(errors.Is(err, storage.ErrRunExists)).To(BeTrue())

			runs, err := driver.Runs(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
			Expect(runs[0].Source).To(Equal("a.json"))
		})

		It("rejects nil tables", func() {
			_, err := driver.SaveTables(ctx, "run-1", "a.json", nil)
			Expect(err).To(HaveOccurred())
		})

		It("returns NotFoundError for an unknown run", func() {
			_, err := driver.Tables(ctx, "missing")
			Expect(err).To(MatchError(storage.NotFoundError{RunID: "missing"}))
		})
	})

	Describe("Messages", func() {
		BeforeEach(func() {
			_, err := driver.SaveTables(ctx, "run-1", "a.json", testutils.NewTestTables("1"))
			Expect(err).NotTo(HaveOccurred())
			_, err = driver.SaveTables(ctx, "run-2", "b.json", testutils.NewTestTables("2"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns every message in run then encounter order", func() {
			msgs, err := driver.Messages(ctx, storage.MessageFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(msgs).To(HaveLen(4))
			Expect(msgs[0].GameID).To(Equal(eventlog.GameID("1")))
			Expect(msgs[1].Turn).To(Equal(5))
			Expect(msgs[3].GameID).To(Equal(eventlog.GameID("2")))
		})

		It("filters by run, game, player and phase", func() {
			msgs, err := driver.Messages(ctx, storage.MessageFilter{RunID: "run-2"})
			Expect(err).NotTo(HaveOccurred())
			Expect(msgs).To(HaveLen(2))

			msgs, err = driver.Messages(ctx, storage.MessageFilter{Game: "1", Player: eventlog.Blue})
			Expect(err).NotTo(HaveOccurred())
			Expect(msgs).To(HaveLen(1))
			Expect(msgs[0].Text).To(Equal("deal"))

			msgs, err = driver.Messages(ctx, storage.MessageFilter{Phase: facts.PhaseEarly})
			Expect(err).NotTo(HaveOccurred())
			Expect(msgs).To(HaveLen(2))
		})

		It("applies the limit", func() {
			msgs, err := driver.Messages(ctx, storage.MessageFilter{Limit: 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(msgs).To(HaveLen(3))
		})
	})

	Describe("Run and Runs", func() {
		It("lists runs oldest first", func() {
			_, err := driver.SaveTables(ctx, "first", "a.json", testutils.NewTestTables("1"))
			Expect(err).NotTo(HaveOccurred())
			_, err = driver.SaveTables(ctx, "second", "b.json", &facts.Tables{})
			Expect(err).NotTo(HaveOccurred())

			runs, err := driver.Runs(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(2))
			Expect(runs[0].ID).To(Equal("first"))
			Expect(runs[1].ID).To(Equal("second"))
			Expect(runs[1].Counts.Messages).To(Equal(0))

			run, err := driver.Run(ctx, "first")
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Counts.Messages).To(Equal(2))
			Expect(run.CreatedAt).NotTo(BeZero())
		})

		It("returns NotFoundError for an unknown run", func() {
			_, err := driver.Run(ctx, "missing")
			var notFound storage.NotFoundError
			Expect(errors.As(err, &notFound)).To(BeTrue())
			Expect(notFound.RunID).To(Equal("missing"))
		})
	})
})
