package eventlog_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sucker/pkg/eventlog"
)

func writeSession(dir, name, content string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

var _ = Describe("Parse", func() {
	It("rejects a document that is not JSON", func() {
		_, err := eventlog.Parse(strings.NewReader("{not json"))
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, eventlog.ErrInvalidJSON)).To(BeTrue())

		var le *eventlog.LoadError
		Expect(errors.As(err, &le)).To(BeTrue())
	})

	DescribeTable("rejects input that is not exactly one JSON object",
		func(input string) {
			_, err := eventlog.Parse(strings.NewReader(input))
			Expect(errors.Is(err, eventlog.ErrInvalidJSON)).To(BeTrue())
		},
		Entry("trailing garbage", `{"session":{},"snapshots":[{"type":"game_start","game":1}]} this is not json`),
		Entry("two documents", `{"session":{},"snapshots":[]} {"session":{},"snapshots":[]}`),
		Entry("top-level list", `[{"session":{}}]`),
		Entry("null", `null`),
		Entry("empty input", ``),
	)

	It("accepts trailing whitespace", func() {
		log, err := eventlog.Parse(strings.NewReader("{\"session\": {}, \"snapshots\": []}\n\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(log.Len()).To(Equal(0))
	})

	It("names the missing session key", func() {
		_, err := eventlog.Parse(strings.NewReader(`{"snapshots": []}`))
		Expect(errors.Is(err, eventlog.ErrMissingSession)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring(`"session"`))
	})

	It("names the missing snapshots key", func() {
		_, err := eventlog.Parse(strings.NewReader(`{"session": {}}`))
		Expect(errors.Is(err, eventlog.ErrMissingSnapshots)).To(BeTrue())

		var le *eventlog.LoadError
		Expect(errors.As(err, &le)).To(BeTrue())
		Expect(le.Key).To(Equal("snapshots"))
	})

	It("rejects snapshots that are not a list", func() {
		_, err := eventlog.Parse(strings.NewReader(`{"session": {}, "snapshots": {"a": 1}}`))
		Expect(errors.Is(err, eventlog.ErrSnapshotsNotList)).To(BeTrue())
	})

	It("accepts an empty log", func() {
		log, err := eventlog.Parse(strings.NewReader(`{"session": {}, "snapshots": []}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(log.Len()).To(Equal(0))
	})

	It("decodes session metadata", func() {
		doc := `{
			"session": {
				"id": "session-1767700000000",
				"provider": "mixed",
				"model": ["gemini-3-flash", "kimi-k2", "qwen3-32b", "gpt-oss-120b"],
				"playerModels": {"red": "gemini-3-flash", "blue": "kimi-k2"},
				"startTime": 1767700000000,
				"totalGames": 10,
				"completedGames": 9,
				"activeGames": 1,
				"chips": 3
			},
			"snapshots": []
		}`
		log, err := eventlog.Parse(strings.NewReader(doc))
		Expect(err).NotTo(HaveOccurred())
		Expect(log.Session.ID).To(Equal("session-1767700000000"))
		Expect(log.Session.Provider).To(Equal("mixed"))
		Expect(log.Session.Models).To(HaveLen(4))
		Expect(log.Session.Chips).To(Equal(3))
		Expect(log.Session.CompletedGames).To(Equal(9))
		Expect(log.Session.StartTime.IsZero()).To(BeFalse())
		Expect(log.Session.ModelFor(eventlog.Red)).To(Equal("gemini-3-flash"))
		Expect(log.Session.ModelFor(eventlog.Green)).To(Equal("qwen3-32b"))
	})

	It("uses a single session model for every seat", func() {
		log, err := eventlog.Parse(strings.NewReader(`{"session": {"model": "llama"}, "snapshots": []}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(log.Session.ModelFor(eventlog.Yellow)).To(Equal("llama"))
	})
})

var _ = Describe("LoadFile", func() {
	It("reports the file path for a missing file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "nope.json")
		_, err := eventlog.LoadFile(path)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring(path))
	})

	It("reports the file path for a missing key", func() {
		path := writeSession(GinkgoT().TempDir(), "session-a.json", `{"session": {}}`)
		_, err := eventlog.LoadFile(path)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring(path))
		Expect(err.Error()).To(ContainSubstring("snapshots"))
	})

	It("records the source path", func() {
		path := writeSession(GinkgoT().TempDir(), "session-a.json", `{"session": {}, "snapshots": [{"type": "game_start", "game": 0}]}`)
		log, err := eventlog.LoadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(log.Source).To(Equal(path))
		Expect(log.Len()).To(Equal(1))
	})
})

var _ = Describe("ScanSessionDir", func() {
	It("finds session files sorted by name", func() {
		dir := GinkgoT().TempDir()
		writeSession(dir, "session-2026-01-07.json", "{}")
		writeSession(dir, "session-2026-01-06.json", "{}")
		writeSession(dir, "notes.json", "{}")
		writeSession(dir, "session-2026-01-08.txt", "{}")
		Expect(os.MkdirAll(filepath.Join(dir, "session-dir.json"), 0o755)).To(Succeed())

		files, err := eventlog.ScanSessionDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(Equal([]string{
			filepath.Join(dir, "session-2026-01-06.json"),
			filepath.Join(dir, "session-2026-01-07.json"),
		}))
	})

	It("expands directories in ResolvePaths", func() {
		dir := GinkgoT().TempDir()
		a := writeSession(dir, "session-a.json", "{}")
		other := writeSession(GinkgoT().TempDir(), "talking.json", "{}")

		paths, err := eventlog.ResolvePaths([]string{other, dir})
		Expect(err).NotTo(HaveOccurred())
		Expect(paths).To(Equal([]string{other, a}))
	})

	It("scans with a custom pattern", func() {
		dir := GinkgoT().TempDir()
		writeSession(dir, "session-a.json", "{}")
		talking := writeSession(dir, "talking.json", "{}")

		files, err := eventlog.ScanDir(dir, "talk*.json")
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(Equal([]string{talking}))

		_, err = eventlog.ScanDir(dir, "[")
		Expect(err).To(HaveOccurred())
	})

	It("fails ResolvePaths on a missing path", func() {
		_, err := eventlog.ResolvePaths([]string{"/does/not/exist.json"})
		Expect(err).To(HaveOccurred())
	})
})
