package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/mathboard/mathboard/annotations"
	"github.com/mathboard/mathboard/render"
	"github.com/mathboard/mathboard/segment"
)

// export writes the last result to path. The extension picks the format:
// .pdf gets every group, one per page, .png only the best one.
func (ctx *ShellCtxt) export(path string) error {
	if ctx.result == nil {
		return errors.New("nothing to export, run segment first")
	}
	res := ctx.result

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		groups := append([]segment.Group{res.Best}, res.Groups...)
		gen := annotations.CreatePdfGenerator(res.Arena, groups, annotations.PdfGeneratorOptions{
			AddPageNumbers: true,
			AllGroups:      true,
		})
		return gen.WriteFile(path)
	case ".png":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := render.WritePNG(f, res.Arena, res.Best); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return fmt.Errorf("unsupported export format %q", filepath.Ext(path))
}

func exportCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "export",
		Help:      "export the last segmentation, usage: export <file.pdf|file.png>",
		Completer: createFsEntryCompleter(".pdf", ".png"),
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(errors.New("missing destination file"))
				return
			}
			if err := ctx.export(c.Args[0]); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		},
	}
}
