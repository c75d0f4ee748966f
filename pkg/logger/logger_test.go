package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/sucker/pkg/logger"
)

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func decodeLines(buf *bytes.Buffer) []map[string]any {
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		Expect(json.Unmarshal([]byte(line), &rec)).To(Succeed())
		out = append(out, rec)
	}
	return out
}

var _ = Describe("Logger", func() {
	Describe("New", func() {
		It("writes text records by default", func() {
			var buf bytes.Buffer
			logger.New(logger.WithWriter(&buf)).Info("exporting sessions", "files", 2)

			Expect(buf.String()).To(ContainSubstring("exporting sessions"))
			Expect(buf.String()).To(ContainSubstring("files=2"))
		})

		It("drops walk stats unless debug is on", func() {
			var quiet, loud bytes.Buffer
			logger.New(logger.WithWriter(&quiet)).Debug("walked session", "events", 14)
			logger.New(logger.WithWriter(&loud), logger.WithDebug(true)).Debug("walked session", "events", 14)

			Expect(quiet.String()).To(BeEmpty())
			Expect(loud.String()).To(ContainSubstring("walked session"))
		})

		It("writes one JSON object per record", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
			l.Warn("session has unattributed records", "path", "session-1.json", "unknown_players", 3)
			l.Info("exporting sessions")

			recs := decodeLines(&buf)
			Expect(recs).To(HaveLen(2))
			Expect(recs[0]["level"]).To(Equal("WARN"))
			Expect(recs[0]["path"]).To(Equal("session-1.json"))
			Expect(recs[0]["unknown_players"]).To(BeNumerically("==", 3))
			Expect(recs[1]["msg"]).To(Equal("exporting sessions"))
		})

		It("filters pretty debug output unless enabled", func() {
			var quiet, loud bytes.Buffer
			logger.New(logger.WithWriter(&quiet), logger.WithPretty(true)).Debug("walk stats")
			logger.New(logger.WithWriter(&loud), logger.WithPretty(true), logger.WithDebug(true)).Debug("walk stats")

			Expect(quiet.String()).To(BeEmpty())
			Expect(loud.String()).To(ContainSubstring("walk stats"))
		})

		It("prefers pretty over JSON", func() {
			var buf bytes.Buffer
			logger.New(logger.WithWriter(&buf), logger.WithPretty(true), logger.WithJSON(true)).Info("report ready")

			Expect(buf.String()).To(ContainSubstring("report ready"))
			Expect(json.Valid(buf.Bytes())).To(BeFalse())
		})
	})

	Describe("Nop", func() {
		It("accepts records and discards them", func() {
			l := logger.Nop()
			Expect(func() {
				l.Debug("walked session")
				l.With("path", "x").WithGroup("stats").Warn("anomalies")
			}).NotTo(Panic())
			Expect(l.Handler().Enabled(context.Background(), slog.LevelError)).To(BeFalse())
		})
	})

	Describe("Multi", func() {
		It("keeps the console at info while the log file takes debug", func() {
			var console, file bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(&console)),
				logger.New(logger.WithWriter(&file), logger.WithJSON(true), logger.WithDebug(true)),
			)
			multi.Debug("walked session", "events", 12)
			multi.Info("exporting sessions")

			Expect(console.String()).NotTo(ContainSubstring("walked session"))
			Expect(console.String()).To(ContainSubstring("exporting sessions"))

			recs := decodeLines(&file)
			Expect(recs).To(HaveLen(2))
			Expect(recs[0]["events"]).To(BeNumerically("==", 12))
		})

		It("carries attributes and groups to every handler", func() {
			var a, b bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(&a), logger.WithJSON(true)),
				logger.New(logger.WithWriter(&b), logger.WithJSON(true)),
			)
			multi.With("command", "analyze").WithGroup("stats").Info("walked session", "games", 3)

			for _, buf := range []*bytes.Buffer{&a, &b} {
				rec := decodeLines(buf)[0]
				Expect(rec["command"]).To(Equal("analyze"))
				Expect(rec["stats"]).To(HaveKeyWithValue("games", BeNumerically("==", 3)))
			}
		})

		It("still writes the console when the log file fails", func() {
			var console bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(brokenWriter{}), logger.WithJSON(true)),
				logger.New(logger.WithWriter(&console)),
			)

			rec := slog.NewRecord(time.Now(), slog.LevelInfo, "exporting sessions", 0)
			err := multi.Handler().Handle(context.Background(), rec)

			Expect(err).To(MatchError(ContainSubstring("disk full")))
			Expect(console.String()).To(ContainSubstring("exporting sessions"))
		})

		It("is disabled only when every handler is", func() {
			multi := logger.Multi(logger.Nop(), logger.New(logger.WithWriter(&bytes.Buffer{})))
			Expect(multi.Handler().Enabled(context.Background(), slog.LevelInfo)).To(BeTrue())
			Expect(multi.Handler().Enabled(context.Background(), slog.LevelDebug)).To(BeFalse())
		})
	})
})
