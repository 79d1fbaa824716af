package shell

import (
	"github.com/abiosoft/ishell"

	"github.com/mathboard/mathboard/grid"
	"github.com/mathboard/mathboard/stroke"
)

// pairs returns the stroke pairs sharing a grid cell.
func (ctx *ShellCtxt) pairs() ([]grid.Pair, error) {
	if len(ctx.arena) == 0 {
		return nil, errNothingLoaded
	}
	b := ctx.arena.Bounds()
	idx, err := grid.Build(ctx.arena,
		b.Min,
		stroke.Point{X: b.Max.X + 1, Y: b.Max.Y + 1},
		stroke.Size{Width: ctx.cfg.Board.CellWidth, Height: ctx.cfg.Board.CellHeight})
	if err != nil {
		return nil, err
	}
	return idx.Pairs(), nil
}

func pairsCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "pairs",
		Help: "list strokes that share a grid cell",
		Func: func(c *ishell.Context) {
			pairs, err := ctx.pairs()
			if err != nil {
				c.Err(err)
				return
			}
			for _, p := range pairs {
				c.Printf("%d\t%d\n", p.A, p.B)
			}
			c.Printf("%d pairs\n", len(pairs))
		},
	}
}
