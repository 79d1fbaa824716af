package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mathboard/mathboard/annotations"
	"github.com/mathboard/mathboard/encoding/rm"
	"github.com/mathboard/mathboard/render"
	"github.com/mathboard/mathboard/segment"
)

var segmentCmd = &cobra.Command{
	Use:   "segment <file.rm>",
	Short: "Segment the strokes of a notebook page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, _, err := newRecognizer(cmd)
		if err != nil {
			return err
		}

		content, err := ioutil.ReadFile(args[0])
		if err != nil {
			return err
		}
		page := &rm.Rm{}
		if err := page.UnmarshalBinary(content); err != nil {
			return errors.Wrapf(err, "can't decode %s", args[0])
		}

		res, err := r.RecognizePage(cmd.Context(), page)
		if err != nil {
			return err
		}

		if p, _ := cmd.Flags().GetString("pdf"); p != "" {
			gen := annotations.CreatePdfGenerator(res.Arena, []segment.Group{res.Best}, annotations.PdfGeneratorOptions{})
			if err := gen.WriteFile(p); err != nil {
				return errors.Wrap(err, "failed to write pdf")
			}
		}
		if p, _ := cmd.Flags().GetString("png"); p != "" {
			f, err := os.Create(p)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := render.WritePNG(f, res.Arena, res.Best); err != nil {
				return errors.Wrap(err, "failed to write png")
			}
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"request_id": res.RequestID,
				"text":       res.Text,
				"score":      res.Score,
				"groups":     len(res.Groups),
			})
		}

		fmt.Fprintln(cmd.OutOrStdout(), res.Text)
		return nil
	},
}

func init() {
	segmentCmd.Flags().String("pdf", "", "Write the best segmentation to a PDF file")
	segmentCmd.Flags().String("png", "", "Write the best segmentation as a PNG overlay")
	segmentCmd.Flags().Bool("json", false, "Print the result as JSON")
}
