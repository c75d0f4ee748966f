package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dagger/sucker/internal/dagger"
)

// Build returns a directory holding the sucker binary for linux on the
// runner's architecture. The SQLite driver needs cgo, so there is no
// cross-compile matrix.
func (s *Sucker) Build(
	ctx context.Context,

	// Linker flags for go build
	// +optional
	// +default="-s -w"
	ldflags string,
) *dagger.Directory {
	const out = "/out/"

	build := s.goContainer().
		WithExec([]string{"go", "build", "-ldflags", ldflags, "-o", out, "./cli/sucker"})

	return dag.Directory().WithDirectory("linux", build.Directory(out))
}

// BuildRelease compiles a versioned binary with embedded version info
func (s *Sucker) BuildRelease(
	ctx context.Context,

	// Version string of build
	version string,

	// Git commit SHA of build
	commit string,
) *dagger.Directory {
	ldflags := []string{
		"-s",
		"-w",
		fmt.Sprintf("-X 'github.com/papercomputeco/sucker/pkg/utils.Version=%s'", version),
		fmt.Sprintf("-X 'github.com/papercomputeco/sucker/pkg/utils.Sha=%s'", commit),
		fmt.Sprintf("-X 'github.com/papercomputeco/sucker/pkg/utils.Buildtime=%s'", time.Now().UTC().Format(time.RFC3339)),
	}

	return s.Build(ctx, strings.Join(ldflags, " "))
}
