// Package shell is an interactive front-end to the recognizer: load a
// notebook page, look at its strokes and segmentations, export them.
package shell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/mathboard/mathboard/classifier"
	"github.com/mathboard/mathboard/config"
	"github.com/mathboard/mathboard/recognize"
	"github.com/mathboard/mathboard/stroke"
)

type ShellCtxt struct {
	cfg        config.Config
	classifier classifier.Classifier
	recognizer *recognize.Recognizer

	// Path is the loaded page file.
	Path   string
	arena  stroke.Arena
	result *recognize.Result

	JSONOutput bool
}

// NewShellCtxt creates a session with nothing loaded.
func NewShellCtxt(cfg config.Config, c classifier.Classifier) *ShellCtxt {
	return &ShellCtxt{
		cfg:        cfg,
		classifier: c,
		recognizer: recognize.New(cfg, c),
	}
}

func (ctx *ShellCtxt) prompt() string {
	if ctx.Path == "" {
		return "[mathboard]>"
	}
	return fmt.Sprintf("[%s]>", filepath.Base(ctx.Path))
}

// RunShell runs args as a single command, or an interactive session when
// args is empty.
func RunShell(ctx *ShellCtxt, args []string) error {
	shell := ishell.New()
	shell.SetPrompt(ctx.prompt())

	shell.AddCmd(loadCmd(ctx))
	shell.AddCmd(lsCmd(ctx))
	shell.AddCmd(pairsCmd(ctx))
	shell.AddCmd(segmentCmd(ctx))
	shell.AddCmd(bestCmd(ctx))
	shell.AddCmd(exportCmd(ctx))
	shell.AddCmd(setCmd(ctx))

	if len(args) > 0 {
		return shell.Process(args...)
	}

	shell.Println("mathboard shell, type help for commands")
	shell.Run()
	return nil
}

// segment runs the recognizer over the loaded strokes.
func (ctx *ShellCtxt) segment(c context.Context) (*recognize.Result, error) {
	if len(ctx.arena) == 0 {
		return nil, errNothingLoaded
	}
	res, err := ctx.recognizer.Recognize(c, ctx.arena)
	if err != nil {
		return nil, err
	}
	ctx.result = res
	return res, nil
}

// createFsEntryCompleter completes local file names.
func createFsEntryCompleter(exts ...string) func([]string) []string {
	return func(args []string) []string {
		prefix := ""
		if len(args) > 0 {
			prefix = args[len(args)-1]
		}
		matches, _ := filepath.Glob(prefix + "*")
		var res []string
		for _, m := range matches {
			if fi, err := os.Stat(m); err == nil && fi.IsDir() {
				res = append(res, m+string(filepath.Separator))
				continue
			}
			for _, ext := range exts {
				if strings.HasSuffix(m, ext) {
					res = append(res, m)
					break
				}
			}
		}
		return res
	}
}
