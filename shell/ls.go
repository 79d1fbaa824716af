package shell

import (
	"github.com/abiosoft/ishell"
)

func lsCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "ls",
		Help: "list loaded strokes",
		Func: func(c *ishell.Context) {
			if len(ctx.arena) == 0 {
				c.Err(errNothingLoaded)
				return
			}
			if ctx.JSONOutput {
				if err := printJSON(c, strokesToJSON(ctx.arena)); err != nil {
					c.Err(err)
				}
				return
			}
			for i, s := range ctx.arena {
				c.Printf("[%d]\t%s\n", i, s)
			}
		},
	}
}
