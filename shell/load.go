package shell

import (
	"errors"
	"io/ioutil"

	"github.com/abiosoft/ishell"
	pkgerrors "github.com/pkg/errors"

	"github.com/mathboard/mathboard/encoding/rm"
	"github.com/mathboard/mathboard/raster"
)

var errNothingLoaded = errors.New("no page loaded, use load <file.rm>")

func (ctx *ShellCtxt) load(path string) error {
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	page := &rm.Rm{}
	if err := page.UnmarshalBinary(content); err != nil {
		return pkgerrors.Wrapf(err, "can't decode %s", path)
	}
	arena, err := raster.FromRm(page, ctx.cfg.IngestOptions())
	if err != nil {
		return err
	}

	ctx.Path = path
	ctx.arena = arena
	ctx.result = nil
	return nil
}

func loadCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "load",
		Help:      "load strokes from a .rm page, usage: load <file.rm>",
		Completer: createFsEntryCompleter(".rm"),
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(errors.New("missing source file"))
				return
			}
			if err := ctx.load(c.Args[0]); err != nil {
				c.Err(err)
				return
			}
			c.Printf("loaded %d strokes\n", len(ctx.arena))
			c.SetPrompt(ctx.prompt())
		},
	}
}
