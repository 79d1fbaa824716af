package shell

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/mathboard/mathboard/recognize"
)

// set changes one search setting and rebuilds the recognizer.
func (ctx *ShellCtxt) set(key, value string) error {
	cfg := ctx.cfg
	var err error
	switch key {
	case "threshold":
		cfg.Search.GroupThreshold, err = strconv.ParseFloat(value, 64)
	case "candidates":
		cfg.Search.MaxCandidates, err = strconv.Atoi(value)
	case "reuse":
		cfg.Search.Reuse = value
	case "concurrency":
		cfg.Search.Concurrency, err = strconv.Atoi(value)
	case "cell":
		var size float64
		size, err = strconv.ParseFloat(value, 64)
		cfg.Board.CellWidth, cfg.Board.CellHeight = size, size
	case "json":
		ctx.JSONOutput, err = strconv.ParseBool(value)
		return err
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx.cfg = cfg
	ctx.recognizer = recognize.New(cfg, ctx.classifier)
	ctx.result = nil
	return nil
}

func setCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "set",
		Help: "change a setting: threshold, candidates, reuse, concurrency, cell, json",
		LongHelp: `Usage: set <key> <value>

Keys:
  threshold <0..1>          confidence a multi-stroke symbol must beat
  candidates <1..20>        strokes combined around one target
  reuse <shared|exclusive>  whether strokes may appear in several groups
  concurrency <n>           parallel classifier calls
  cell <size>               grid cell size in pixels
  json <true|false>         JSON output`,
		Func: func(c *ishell.Context) {
			if len(c.Args) != 2 {
				c.Err(errors.New("usage: set <key> <value>"))
				return
			}
			if err := ctx.set(c.Args[0], c.Args[1]); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		},
	}
}
