package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/go-frost/frost/cmd/frost/internal/demo"
	"github.com/go-frost/frost/pkg/frost"
	"github.com/go-frost/frost/pkg/render"
	"github.com/go-frost/frost/pkg/render/term"
)

// DemoOptions holds flags for the demo command.
type DemoOptions struct {
	*RootOptions
	Width  int
	Height int
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DemoOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "demo <name>",
		Short: "Run a built-in demo world",
		Long: `Run one of the built-in demo worlds in the terminal. Press Ctrl-C
to exit.

Available demos: ` + strings.Join(demo.Names(), ", ") + `

Example:
  frost demo clock
  frost demo login --width 100 --height 30`,
		Args:          cobra.ExactArgs(1),
		ValidArgs:     demo.Names(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.Width, "width", 0, "viewport width (default: autodetect)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "viewport height (default: autodetect)")

	return cmd
}

func runDemo(opts *DemoOptions, name string) error {
	builder, ok := demo.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown demo %q: available demos are %s", name, strings.Join(demo.Names(), ", "))
	}

	config, err := frost.LoadWorldConfig(opts.ConfigDir)
	if err != nil {
		return err
	}
	config.Viewport = term.DetectViewport(config.Viewport)
	if opts.Width > 0 {
		config.Viewport.Width = opts.Width
	}
	if opts.Height > 0 {
		config.Viewport.Height = opts.Height
	}
	if config.Viewport.Width <= 0 || config.Viewport.Height <= 0 {
		config.Viewport = render.Viewport{Width: 80, Height: 24}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return frost.Run(ctx, builder(config), frost.WithBackend(term.New(os.Stdout)))
}
