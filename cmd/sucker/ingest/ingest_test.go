package ingest_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sucker/cmd/sucker/ingest"
	"github.com/papercomputeco/sucker/pkg/eventlog"
	"github.com/papercomputeco/sucker/pkg/logger"
	"github.com/papercomputeco/sucker/pkg/storage/inmemory"
	testutils "github.com/papercomputeco/sucker/pkg/utils/test"
)

var _ = Describe("Load", func() {
	var (
		ctx context.Context
		dir string
	)

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
	})

	It("walks a single file without qualifying game ids", func() {
		path, err := testutils.WriteSession(dir, "session-1.json", testutils.BetrayalGame("0")...)
		Expect(err).NotTo(HaveOccurred())

		res, err := ingest.Load(ctx, []string{path}, "", "", logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Sources).To(Equal([]string{path}))
		Expect(res.Tables.Messages).To(HaveLen(4))
		Expect(res.Tables.Games()).To(Equal([]eventlog.GameID{"0"}))
		Expect(res.Stats.GamesEnded).To(Equal(1))
	})

	It("scans the data dir and qualifies ids across sessions", func() {
		_, err := testutils.WriteSession(dir, "session-a.json", testutils.BetrayalGame("0")...)
		Expect(err).NotTo(HaveOccurred())
		_, err = testutils.WriteSession(dir, "session-b.json", testutils.BetrayalGame("0")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o600)).To(Succeed())

		res, err := ingest.Load(ctx, nil, dir, "", logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Sources).To(HaveLen(2))
		Expect(res.Tables.Games()).To(Equal([]eventlog.GameID{"session-a/0", "session-b/0"}))
		Expect(res.Stats.Events).To(Equal(14))
	})

	It("keeps games apart when sessions share a file name", func() {
		for _, sub := range []string{"left", "right"} {
			Expect(os.Mkdir(filepath.Join(dir, sub), 0o755)).To(Succeed())
			_, err := testutils.WriteSession(filepath.Join(dir, sub), "session-1.json", testutils.BetrayalGame("0")...)
			Expect(err).NotTo(HaveOccurred())
		}

		res, err := ingest.Load(ctx, []string{filepath.Join(dir, "left"), filepath.Join(dir, "right")}, "", "", logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		games := res.Tables.Games()
		Expect(games).To(HaveLen(2))
		Expect(games[0]).NotTo(Equal(games[1]))
		Expect(string(games[0])).To(HaveSuffix("left/session-1/0"))
		Expect(string(games[1])).To(HaveSuffix("right/session-1/0"))
	})

	It("walks a file named twice only once", func() {
		path, err := testutils.WriteSession(dir, "session-1.json", testutils.BetrayalGame("0")...)
		Expect(err).NotTo(HaveOccurred())

		res, err := ingest.Load(ctx, []string{path, dir}, "", "", logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Sources).To(HaveLen(1))
		Expect(res.Tables.Games()).To(Equal([]eventlog.GameID{"0"}))
	})

	It("fails when nothing matches", func() {
		_, err := ingest.Load(ctx, []string{dir}, "", "", logger.Nop())
		Expect(err).To(MatchError(ContainSubstring("no session files")))
	})

	It("reports unusable documents", func() {
		path := filepath.Join(dir, "session-bad.json")
		Expect(os.WriteFile(path, []byte(`{"snapshots": []}`), 0o600)).To(Succeed())

		_, err := ingest.Load(ctx, []string{path}, "", "", logger.Nop())
		Expect(errors.Is(err, eventlog.ErrMissingSession)).To(BeTrue())
	})

	It("stops when the context is done", func() {
		_, err := testutils.WriteSession(dir, "session-1.json", testutils.BetrayalGame("0")...)
		Expect(err).NotTo(HaveOccurred())

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err = ingest.Load(cancelled, []string{dir}, "", "", logger.Nop())
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("LoadRun", func() {
	It("reads a stored run", func() {
		ctx := context.Background()
		driver := inmemory.NewDriver()
		_, err := driver.SaveTables(ctx, "run-1", "session-1.json", testutils.NewTestTables("1"))
		Expect(err).NotTo(HaveOccurred())

		res, err := ingest.LoadRun(ctx, driver, "run-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Sources).To(Equal([]string{"session-1.json"}))
		Expect(res.Tables.Messages).To(HaveLen(2))
	})
})

var _ = Describe("SourceName", func() {
	It("strips directory and extension", func() {
		Expect(ingest.SourceName("/logs/session-2026.json")).To(Equal("session-2026"))
	})
})

var _ = Describe("SourceNames", func() {
	It("uses base names when they are distinct", func() {
		Expect(ingest.SourceNames([]string{"/a/session-1.json", "/b/session-2.json"})).
			To(Equal([]string{"session-1", "session-2"}))
	})

	It("falls back to the path for colliding base names", func() {
		Expect(ingest.SourceNames([]string{"/a/session-1.json", "/b/session-1.json", "/c/session-2.json"})).
			To(Equal([]string{"/a/session-1", "/b/session-1", "session-2"}))
	})
})
