package shell

import (
	"context"

	"github.com/abiosoft/ishell"

	"github.com/mathboard/mathboard/segment"
	"github.com/mathboard/mathboard/stroke"
)

func displayGroup(c *ishell.Context, arena stroke.Arena, i int, g segment.Group) {
	c.Printf("#%d %q score %.4f\n", i, g.Text(), segment.Score(g))
	for _, h := range g {
		c.Printf("\t%s\t%.3f\t%v\n", h.Label, h.Confidence, h.IDs(arena))
	}
}

func segmentCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "segment",
		Help: "run the segmentation search and list every group",
		Func: func(c *ishell.Context) {
			res, err := ctx.segment(context.Background())
			if err != nil {
				c.Err(err)
				return
			}
			if ctx.JSONOutput {
				if err := printJSON(c, groupsToJSON(res.Arena, res.Groups)); err != nil {
					c.Err(err)
				}
				return
			}
			for i, g := range res.Groups {
				displayGroup(c, res.Arena, i, g)
			}
		},
	}
}

func bestCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "best",
		Help: "show the best segmentation",
		Func: func(c *ishell.Context) {
			res := ctx.result
			if res == nil {
				var err error
				if res, err = ctx.segment(context.Background()); err != nil {
					c.Err(err)
					return
				}
			}
			if ctx.JSONOutput {
				if err := printJSON(c, groupsToJSON(res.Arena, []segment.Group{res.Best})[0]); err != nil {
					c.Err(err)
				}
				return
			}
			c.Printf("request %s\n", res.RequestID)
			displayGroup(c, res.Arena, 0, res.Best)
		},
	}
}
