package annotations

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/unidoc/unipdf/v3/annotator"
	"github.com/unidoc/unipdf/v3/contentstream"
	"github.com/unidoc/unipdf/v3/contentstream/draw"
	"github.com/unidoc/unipdf/v3/creator"
	pdf "github.com/unidoc/unipdf/v3/model"

	"github.com/mathboard/mathboard/log"
	"github.com/mathboard/mathboard/segment"
	"github.com/mathboard/mathboard/stroke"
)

const (
	PPI          = 226
	DeviceHeight = 1872
	DeviceWidth  = 1404
)

var rmPageSize = creator.PageSize{445, 594}

// boxColors are cycled over the hypotheses of a page.
var boxColors = [][3]float64{
	{0.90, 0.10, 0.29},
	{0.24, 0.71, 0.29},
	{0.26, 0.39, 0.85},
	{0.96, 0.51, 0.19},
}

type PdfGenerator struct {
	arena   stroke.Arena
	groups  []segment.Group
	options PdfGeneratorOptions
}

type PdfGeneratorOptions struct {
	AddPageNumbers bool
	// AllGroups renders every segmentation, one per page. Otherwise only
	// the first group is rendered.
	AllGroups bool
	// StrokesOnly skips hypothesis boxes and labels.
	StrokesOnly bool
}

// CreatePdfGenerator prepares a PDF of groups over the strokes of arena.
func CreatePdfGenerator(arena stroke.Arena, groups []segment.Group, options PdfGeneratorOptions) *PdfGenerator {
	return &PdfGenerator{arena: arena, groups: groups, options: options}
}

func normalized(p stroke.Point, ratio float64) (float64, float64) {
	return p.X * ratio, p.Y * ratio
}

// WriteFile writes the PDF to path.
func (p *PdfGenerator) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.Generate(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Generate renders the PDF to w.
func (p *PdfGenerator) Generate(w io.Writer) error {
	if len(p.arena) == 0 {
		return errors.Wrap(segment.ErrNoStrokes, "nothing to export")
	}

	groups := p.groups
	if !p.options.AllGroups && len(groups) > 1 {
		groups = groups[:1]
	}
	if len(groups) == 0 {
		// ink only
		groups = []segment.Group{nil}
	}

	c := creator.New()
	c.SetPageSize(rmPageSize)
	ratio := c.Width() / DeviceWidth

	if p.options.AddPageNumbers {
		c.DrawFooter(func(block *creator.Block, args creator.FooterFunctionArgs) {
			para := c.NewParagraph(fmt.Sprintf("%d", args.PageNum))
			para.SetFontSize(8)
			para.SetPos(block.Width()-20, block.Height()-10)
			block.Draw(para)
		})
	}

	for i, group := range groups {
		page := c.NewPage()
		if err := p.drawStrokes(c, page, ratio); err != nil {
			return errors.Wrapf(err, "page %d", i+1)
		}
		if p.options.StrokesOnly {
			continue
		}
		for j, h := range group {
			if err := p.drawHypothesis(c, page, h, boxColors[j%len(boxColors)], ratio); err != nil {
				return errors.Wrapf(err, "page %d", i+1)
			}
		}
		log.Trace.Printf("pdf: page %d, %d symbols, score %.4f", i+1, len(group), segment.Score(group))
	}

	return c.Write(w)
}

func (p *PdfGenerator) drawStrokes(c *creator.Creator, page *pdf.PdfPage, ratio float64) error {
	contentCreator := contentstream.NewContentCreator()
	for _, s := range p.arena {
		path := draw.NewPath()
		if len(s.Path) > 0 {
			for _, pt := range s.Path {
				x, y := normalized(pt, ratio)
				path = path.AppendPoint(draw.NewPoint(x, c.Height()-y))
			}
		} else {
			// no vector source, outline the ink
			bb := s.BoundingBox()
			for _, pt := range []stroke.Point{bb.Min, {X: bb.Max.X, Y: bb.Min.Y}, bb.Max, {X: bb.Min.X, Y: bb.Max.Y}, bb.Min} {
				x, y := normalized(pt, ratio)
				path = path.AppendPoint(draw.NewPoint(x, c.Height()-y))
			}
		}
		contentCreator.Add_q()
		contentCreator.Add_w(1)
		contentCreator.Add_RG(0, 0, 0)
		draw.DrawPathWithCreator(path, contentCreator)
		contentCreator.Add_S()
		contentCreator.Add_Q()
	}
	return page.AppendContentStream(string(contentCreator.Operations().Bytes()))
}

func (p *PdfGenerator) drawHypothesis(c *creator.Creator, page *pdf.PdfPage, h segment.Hypothesis, rgb [3]float64, ratio float64) error {
	x, y := normalized(h.Rect.Min, ratio)
	color := pdf.NewPdfColorDeviceRGB(rgb[0], rgb[1], rgb[2])

	def := annotator.RectangleAnnotationDef{
		X:             x,
		Y:             c.Height() - y - h.Rect.Height()*ratio,
		Width:         h.Rect.Width() * ratio,
		Height:        h.Rect.Height() * ratio,
		BorderEnabled: true,
		BorderWidth:   1,
		BorderColor:   color,
		Opacity:       0.8,
	}
	ann, err := annotator.CreateRectangleAnnotation(def)
	if err != nil {
		return err
	}
	page.AddAnnotation(ann)

	para := c.NewParagraph(fmt.Sprintf("%s %.2f", h.Label, h.Confidence))
	para.SetFontSize(6)
	para.SetColor(creator.ColorRGBFromArithmetic(rgb[0], rgb[1], rgb[2]))
	para.SetPos(x, y-8)
	return c.Draw(para)
}
