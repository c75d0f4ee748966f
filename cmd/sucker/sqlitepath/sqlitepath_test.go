package sqlitepath

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ResolveSQLitePath", func() {
	var (
		homeDir string
		cwd     string
	)

	BeforeEach(func() {
		homeDir = GinkgoT().TempDir()
		cwd = GinkgoT().TempDir()

		GinkgoT().Setenv("HOME", homeDir)
		GinkgoT().Setenv("XDG_DATA_HOME", "")
		GinkgoT().Setenv("SUCKER_DB", "")
		GinkgoT().Setenv("SUCKER_SQLITE", "")

		origCwd, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(cwd)).To(Succeed())
		DeferCleanup(func() { Expect(os.Chdir(origCwd)).To(Succeed()) })
	})

	It("returns the override", func() {
		path, err := ResolveSQLitePath("/tmp/x.db")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/x.db"))
	})

	It("prefers SUCKER_SQLITE when set", func() {
		GinkgoT().Setenv("SUCKER_SQLITE", "/tmp/custom.db")

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/custom.db"))
	})

	It("resolves ~/.sucker/sucker.db when present", func() {
		dbPath := filepath.Join(homeDir, ".sucker", DBName)
		Expect(os.MkdirAll(filepath.Dir(dbPath), 0o755)).To(Succeed())
		Expect(os.WriteFile(dbPath, []byte("test"), 0o644)).To(Succeed())

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(dbPath))
	})

	It("prefers a database in the working directory", func() {
		Expect(os.WriteFile(filepath.Join(cwd, DBName), []byte("test"), 0o644)).To(Succeed())
		dbPath := filepath.Join(homeDir, ".sucker", DBName)
		Expect(os.MkdirAll(filepath.Dir(dbPath), 0o755)).To(Succeed())
		Expect(os.WriteFile(dbPath, []byte("test"), 0o644)).To(Succeed())

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(DBName))
	})

	It("fails when nothing is found", func() {
		_, err := ResolveSQLitePath("")
		Expect(err).To(MatchError(ContainSubstring("could not find sucker SQLite database")))
	})

	Describe("WritePath", func() {
		It("falls back to the .sucker dir", func() {
			configDir := filepath.Join(cwd, "conf")
			path, err := WritePath("", configDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(configDir, DBName)))
		})

		It("keeps the config dir over an existing database", func() {
			Expect(os.WriteFile(filepath.Join(cwd, DBName), []byte("test"), 0o644)).To(Succeed())
			configDir := filepath.Join(cwd, "conf")

			path, err := WritePath("", configDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(configDir, DBName)))
		})

		It("reuses an existing database without a config dir", func() {
			Expect(os.WriteFile(filepath.Join(cwd, DBName), []byte("test"), 0o644)).To(Succeed())

			path, err := WritePath("", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(DBName))
		})

		It("returns the override", func() {
			path, err := WritePath("/tmp/out.db", filepath.Join(cwd, "conf"))
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal("/tmp/out.db"))
		})
	})
})
