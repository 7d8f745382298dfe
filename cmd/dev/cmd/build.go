package cmd

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/gophertribe/devtool/build"
	"github.com/spf13/cobra"
)

const (
	binary        = "imu"
	mainPackage   = "./cmd/imu"
	configPackage = "github.com/mklimuk/imu/config"
	builderImage  = "gophertribe/gobuild:1.25-bookworm"
)

// boards maps adapter names to the platforms they run on.
var boards = map[string]string{
	"raspi":  "linux/arm64",
	"nanopi": "linux/arm",
}

func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the imu cli",
		Long: `Build the imu cli into dist/.

Native builds run go build directly. Any other target is built inside the
builder image by running this tool there with --target. Use --board to
pick the platform of a supported single board computer.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, _ := cmd.Flags().GetString("version")
			target, _ := cmd.Flags().GetString("target")
			board, _ := cmd.Flags().GetString("board")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			inContainer, _ := cmd.Flags().GetBool("in-container")

			if board != "" {
				t, ok := boards[board]
				if !ok {
					return fmt.Errorf("unknown board %q", board)
				}
				target = t
			}
			goos, goarch, err := parseTarget(target)
			if err != nil {
				return err
			}
			out := fmt.Sprintf("dist/%s-%s-%s", binary, goos, goarch)

			// hid needs cgo so foreign targets go through the builder image
			if inContainer || (goos == runtime.GOOS && goarch == runtime.GOARCH) {
				slog.Info("building", "output", out, "version", version)
				return build.GoBuild(out, mainPackage, build.GoBuildOpts{
					Version:       version,
					InjectVersion: true,
					ConfigPackage: configPackage,
					EnableCgo:     true,
					OS:            goos,
					Arch:          goarch,
				})
			}
			slog.Info("building in container", "image", builderImage, "target", target)
			return build.Docker(cmd.Context(), fmt.Sprintf("./dev-%s-%s", goos, goarch),
				[]string{"build", "--in-container", "--version", version, "--target", target},
				build.DockerBuildOpts{
					NoCache: noCache,
					Image:   builderImage,
				})
		},
	}
	cmd.Flags().String("version", "latest", "version injected into the binary")
	cmd.Flags().String("target", runtime.GOOS+"/"+runtime.GOARCH, "os/arch to build for")
	cmd.Flags().String("board", "", "build for a board: raspi or nanopi")
	cmd.Flags().Bool("no-cache", false, "do not use the docker build cache")
	cmd.Flags().Bool("in-container", false, "build natively even for a foreign target")
	_ = cmd.Flags().MarkHidden("in-container")
	return cmd
}

func parseTarget(target string) (string, string, error) {
	goos, goarch, ok := strings.Cut(target, "/")
	if !ok || goos == "" || goarch == "" {
		return "", "", fmt.Errorf("invalid target %q, expected os/arch", target)
	}
	return goos, goarch, nil
}
