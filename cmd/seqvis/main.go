// Command seqvis renders the true and predicted series of a random sample
// from a result directory into a single PNG.
//
// Usage:
//
//	seqvis visualize --mode test --path /abs/result/dir
//	seqvis visualize --interactive
//	seqvis visualize --mode train --path /abs/result/dir --watch
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Noofbiz/seqvis"
	"github.com/Noofbiz/seqvis/config"
	"github.com/Noofbiz/seqvis/datasets"
	"github.com/Noofbiz/seqvis/render"
	"github.com/Noofbiz/seqvis/sampling"
	"github.com/spf13/cobra"
)

const usageHint = "Please provide plot type (train/test) and path"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// exitCode ends the command with a status and no further message.
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

type options struct {
	configPath string
	logLevel   string

	interactive bool
	mode        string
	path        string
	seed        int64
	workers     int
	watch       bool
	printConfig bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &options{stdin: stdin, stdout: stdout, stderr: stderr}
	return execute(ctx, newRootCmd(opts), args, stderr)
}

func execute(ctx context.Context, root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	var code exitCode
	switch {
	case err == nil:
		return 0
	case errors.As(err, &code):
		return int(code)
	default:
		fmt.Fprintln(stderr, errorStyle.Render("Error: "+err.Error()))
		return 1
	}
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "seqvis",
		Short:         "Plot true vs predicted series from a sequence-prediction result directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(opts.logLevel, opts.stderr)
		},
	}
	root.SetIn(opts.stdin)
	root.SetOut(opts.stdout)
	root.SetErr(opts.stderr)
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")

	visualize := &cobra.Command{
		Use:   "visualize",
		Short: "Render one random sample, one chart per channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVisualize(cmd, opts)
		},
	}
	f := visualize.Flags()
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for the plot type and directory, repeatedly")
	f.StringVar(&opts.mode, "mode", "", "plot type: train or test")
	f.StringVar(&opts.path, "path", "", "result directory holding the .npy arrays")
	f.Int64Var(&opts.seed, "seed", 0, "random seed for the sample choice (default: time based)")
	f.IntVar(&opts.workers, "workers", 0, "number of charts rendered concurrently (overrides the config file)")
	f.BoolVar(&opts.watch, "watch", false, "re-render whenever the arrays or the name list change")
	f.BoolVar(&opts.printConfig, "print-config", false, "print the effective configuration and exit")
	root.AddCommand(visualize)

	return root
}

func setupLogging(level string, w io.Writer) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("%w: log level %q", seqvis.ErrInvalidInput, level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func runVisualize(cmd *cobra.Command, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Render.Workers = opts.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if opts.printConfig {
		data, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = opts.stdout.Write(data)
		return err
	}

	var sel *sampling.Selector
	if cmd.Flags().Changed("seed") {
		sel = sampling.NewSeededSelector(opts.seed)
	}
	driver := newDriver(cfg, sel)
	ctx := cmd.Context()

	if opts.interactive {
		p := newPrompter(opts.stdin, opts.stdout)
		if code := runInteractive(ctx, p, driver, opts.stdout, opts.stderr); code != 0 {
			return exitCode(code)
		}
		return nil
	}

	if opts.mode == "" || opts.path == "" {
		fmt.Fprintln(opts.stdout, usageHint)
		return exitCode(1)
	}
	v, err := datasets.ParseVariant(strings.TrimSpace(opts.mode))
	if err != nil {
		return err
	}
	dir, err := resultDir(opts.path, false)
	if err != nil {
		return err
	}

	if opts.watch {
		w := &render.Watcher{
			Driver:  driver,
			Dir:     dir,
			Variant: v,
			OnRender: func(path string, err error) {
				if err == nil {
					fmt.Fprintln(opts.stdout, successStyle.Render("Plot saved to "+path))
				}
			},
		}
		return w.Run(ctx)
	}

	out, err := driver.Visualize(ctx, dir, v)
	if err != nil {
		return err
	}
	fmt.Fprintln(opts.stdout, successStyle.Render("Plot saved to "+out))
	return nil
}

func newDriver(cfg config.Config, sel *sampling.Selector) *render.Driver {
	return &render.Driver{
		Selector:    sel,
		Fonts:       cfg.FontRegistry(),
		Preferences: cfg.Fonts.Preferences,
		Resolutions: cfg.Resolutions(),
		DPI:         cfg.Render.DPI,
		Workers:     cfg.Render.Workers,
		Logger:      slog.Default(),
	}
}
