package cmd

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/gophertribe/devtool/build"
	"github.com/spf13/cobra"
)

const (
	binary        = "dist/sen5x"
	mainPackage   = "./cmd/sen5x"
	configPackage = "github.com/mklimuk/sen5x/pkg/config"
	builderImage  = "gophertribe/gobuild:1.25-bookworm"
)

type buildTarget struct {
	OS   string
	Arch string
}

func (t buildTarget) native() bool {
	return t.OS == runtime.GOOS && t.Arch == runtime.GOARCH
}

// dockerDir is the builder context directory for non-native targets.
func (t buildTarget) dockerDir() string {
	return fmt.Sprintf("./dev-%s-%s", t.OS, t.Arch)
}

func BuildCmd() *cobra.Command {
	var (
		target  buildTarget
		cross   buildTarget
		version string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "build the sen5x cli",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !target.native() {
				slog.Info("building in docker", "os", target.OS, "arch", target.Arch)
				return build.Docker(cmd.Context(), target.dockerDir(),
					[]string{"build", "--version", version, "--cross-os", cross.OS, "--cross-arch", cross.Arch},
					build.DockerBuildOpts{NoCache: noCache, Image: builderImage})
			}
			out := target
			if cross.OS != "" && cross.Arch != "" {
				out = cross
			}
			slog.Info("building", "binary", binary, "os", out.OS, "arch", out.Arch, "version", version)
			// periph host drivers and the hid adapter need cgo
			return build.GoBuild(binary, mainPackage, build.GoBuildOpts{
				Version:       version,
				InjectVersion: true,
				ConfigPackage: configPackage,
				EnableCgo:     true,
				Arch:          out.Arch,
				OS:            out.OS,
			})
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not use cache when building in docker")
	cmd.Flags().StringVar(&version, "version", "latest", "version of the cli")
	cmd.Flags().StringVar(&target.OS, "os", runtime.GOOS, "os to build for")
	cmd.Flags().StringVar(&target.Arch, "arch", runtime.GOARCH, "arch to build for")
	cmd.Flags().StringVar(&cross.OS, "cross-os", "", "os to cross-compile for")
	cmd.Flags().StringVar(&cross.Arch, "cross-arch", "", "arch to cross-compile for")
	return cmd
}
