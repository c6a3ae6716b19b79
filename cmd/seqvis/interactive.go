package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Noofbiz/seqvis"
	"github.com/Noofbiz/seqvis/datasets"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// Prompter asks the user for one interactive round.
type Prompter interface {
	Variant() (string, error)
	Path() (string, error)
	Action() (string, error)
}

// Visualizer is satisfied by *render.Driver.
type Visualizer interface {
	Visualize(ctx context.Context, dir string, v datasets.Variant) (string, error)
}

// newPrompter uses huh forms on a terminal and plain line prompts otherwise.
func newPrompter(in io.Reader, out io.Writer) Prompter {
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return formPrompter{}
	}
	return newLinePrompter(in, out)
}

// resultDir checks a user supplied result directory. Interactive input must
// be absolute; flags may be relative to the working directory.
func resultDir(path string, requireAbs bool) (string, error) {
	path = strings.TrimSpace(path)
	if !filepath.IsAbs(path) {
		if requireAbs {
			return "", fmt.Errorf("%w: the path must be an absolute path", seqvis.ErrInvalidInput)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("%w: resolve %s: %w", seqvis.ErrInvalidInput, path, err)
		}
		path = abs
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: the path %s does not exist", seqvis.ErrInvalidInput, path)
	}
	return path, nil
}

// runInteractive loops over prompt, render and action until the user exits
// or something fails. It returns the process exit status.
func runInteractive(ctx context.Context, p Prompter, vis Visualizer, out, errOut io.Writer) int {
	for {
		v, dir, err := askRequest(p)
		if err != nil {
			fmt.Fprintln(errOut, errorStyle.Render("Error: "+err.Error()))
			return 1
		}

		path, err := vis.Visualize(ctx, dir, v)
		if err != nil {
			fmt.Fprintln(errOut, errorStyle.Render(fmt.Sprintf("Error during visualization (%s): %v", seqvis.KindOf(err), err)))
			return 1
		}
		fmt.Fprintln(out, successStyle.Render("Plot saved to "+path))

		action, err := p.Action()
		if err != nil {
			fmt.Fprintln(errOut, errorStyle.Render("Error reading action: "+err.Error()))
			return 1
		}
		switch strings.TrimSpace(action) {
		case "continue", "reset":
			continue
		case "exit":
			return 0
		default:
			fmt.Fprintln(out, "Invalid action. Exiting.")
			return 1
		}
	}
}

func askRequest(p Prompter) (datasets.Variant, string, error) {
	raw, err := p.Variant()
	if err != nil {
		return "", "", err
	}
	v, err := datasets.ParseVariant(strings.TrimSpace(raw))
	if err != nil {
		return "", "", err
	}
	rawPath, err := p.Path()
	if err != nil {
		return "", "", err
	}
	dir, err := resultDir(rawPath, true)
	if err != nil {
		return "", "", err
	}
	return v, dir, nil
}

// linePrompter reads answers line by line, for pipes and scripts.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{in: bufio.NewReader(in), out: out}
}

func (l *linePrompter) ask(question string) (string, error) {
	fmt.Fprintln(l.out, promptStyle.Render(question))
	line, err := l.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("%w: read answer: %w", seqvis.ErrIO, err)
	}
	return strings.TrimSpace(line), nil
}

func (l *linePrompter) Variant() (string, error) {
	return l.ask("Please enter the type of visualization ('train' or 'test'):")
}

func (l *linePrompter) Path() (string, error) {
	return l.ask("Please enter the absolute path to the result directory:")
}

func (l *linePrompter) Action() (string, error) {
	return l.ask("Choose an action: continue, reset, exit")
}

// formPrompter asks through huh forms on a terminal.
type formPrompter struct{}

func (formPrompter) Variant() (string, error) {
	var v string
	err := huh.NewSelect[string]().
		Title("Type of visualization").
		Options(huh.NewOptions(string(datasets.VariantTest), string(datasets.VariantTrain))...).
		Value(&v).
		Run()
	return v, formError(err)
}

func (formPrompter) Path() (string, error) {
	var p string
	err := huh.NewInput().
		Title("Absolute path to the result directory").
		Value(&p).
		Validate(func(s string) error {
			_, err := resultDir(s, true)
			return err
		}).
		Run()
	return p, formError(err)
}

func (formPrompter) Action() (string, error) {
	var a string
	err := huh.NewSelect[string]().
		Title("Choose an action").
		Options(huh.NewOptions("continue", "reset", "exit")...).
		Value(&a).
		Run()
	return a, formError(err)
}

func formError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, huh.ErrUserAborted) {
		return fmt.Errorf("%w: aborted", seqvis.ErrInvalidInput)
	}
	return fmt.Errorf("%w: prompt: %w", seqvis.ErrIO, err)
}
