// Package render draws the poster: background, water, parks, street network
// by hierarchy, gradient fades, and the typography block. Rendering is
// deterministic given valid inputs, so failures here are never retried.
package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"mapposter/internal/fonts"
	"mapposter/internal/mapdata"
	"mapposter/internal/themes"
)

// Request carries everything one render needs. Explicit fields keep the
// renderer reusable and testable without globals.
type Request struct {
	City         string
	Country      string
	Point        mapdata.Point
	Data         *mapdata.MapData
	Theme        themes.Theme
	OutputPath   string
	Format       string
	DPI          int
	WidthInches  float64
	HeightInches float64
}

type Poster struct {
	fonts *fonts.Set
	log   *zap.Logger
}

// New creates a poster renderer. A nil font set is allowed; text then falls
// back to the built-in bitmap face.
func New(set *fonts.Set, log *zap.Logger) *Poster {
	return &Poster{fonts: set, log: log}
}

func (p *Poster) Render(req Request) error {
	switch strings.ToLower(req.Format) {
	case "png":
		return p.renderPNG(req)
	case "svg":
		return p.renderSVG(req)
	default:
		return fmt.Errorf("unsupported output format %q", req.Format)
	}
}

func (p *Poster) renderPNG(req Request) error {
	width := int(req.WidthInches * float64(req.DPI))
	height := int(req.HeightInches * float64(req.DPI))
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", width, height)
	}

	proj, err := newProjection(req.Data, float64(width), float64(height))
	if err != nil {
		return err
	}

	p.log.Info("rendering poster",
		zap.Int("width_px", width), zap.Int("height_px", height), zap.Int("dpi", req.DPI))

	dc := gg.NewContext(width, height)
	dc.SetHexColor(req.Theme.Bg)
	dc.Clear()

	// Layer order matters: water lowest, parks above, roads on top.
	p.fillFeatures(dc, proj, req.Data.Water, req.Theme.Water)
	p.fillFeatures(dc, proj, req.Data.Parks, req.Theme.Parks)
	p.strokeNetwork(dc, proj, req.Data.Network, req.Theme, req.DPI)

	p.gradientFade(dc, req.Theme.GradientColor, width, height, false)
	p.gradientFade(dc, req.Theme.GradientColor, width, height, true)

	if err := p.drawText(dc, req, width, height); err != nil {
		return err
	}

	if err := dc.SavePNG(req.OutputPath); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	p.log.Info("poster saved", zap.String("path", req.OutputPath))
	return nil
}

func (p *Poster) fillFeatures(dc *gg.Context, proj *projection, features []mapdata.Feature, hexColor string) {
	if len(features) == 0 {
		return
	}
	dc.SetHexColor(hexColor)
	for _, feature := range features {
		for _, ring := range feature.Rings {
			for i, pt := range ring {
				x, y := proj.toCanvas(pt)
				if i == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			dc.ClosePath()
		}
		dc.Fill()
	}
}

func (p *Poster) strokeNetwork(dc *gg.Context, proj *projection, network *mapdata.Network, theme themes.Theme, dpi int) {
	if network == nil {
		return
	}
	// Line widths are in points; convert to pixels for this DPI.
	ptToPx := float64(dpi) / 72.0
	for _, way := range network.Ways {
		if len(way.Points) < 2 {
			continue
		}
		color, widthPt := roadStyle(theme, way.Highway)
		dc.SetHexColor(color)
		dc.SetLineWidth(widthPt * ptToPx)
		dc.SetLineCapRound()
		for i, pt := range way.Points {
			x, y := proj.toCanvas(pt)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.Stroke()
	}
}

// gradientFade draws the vignette over the top or bottom quarter: opaque at
// the canvas edge, transparent toward the middle.
func (p *Poster) gradientFade(dc *gg.Context, hexColor string, width, height int, top bool) {
	r, g, b, err := parseHexColor(hexColor)
	if err != nil {
		p.log.Warn("bad gradient color, skipping fade", zap.String("color", hexColor))
		return
	}

	w := float64(width)
	h := float64(height)
	var grad gg.Gradient
	var rectY float64
	if top {
		grad = gg.NewLinearGradient(0, 0, 0, h*0.25)
		rectY = 0
	} else {
		grad = gg.NewLinearGradient(0, h, 0, h*0.75)
		rectY = h * 0.75
	}
	grad.AddColorStop(0, color.NRGBA{R: r, G: g, B: b, A: 255})
	grad.AddColorStop(1, color.NRGBA{R: r, G: g, B: b, A: 0})

	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, rectY, w, h*0.25)
	dc.Fill()
}

func (p *Poster) drawText(dc *gg.Context, req Request, width, height int) error {
	w := float64(width)
	h := float64(height)
	textR, textG, textB, err := parseHexColor(req.Theme.Text)
	if err != nil {
		return fmt.Errorf("bad text color: %w", err)
	}
	setText := func(alpha float64) {
		dc.SetRGBA(float64(textR)/255, float64(textG)/255, float64(textB)/255, alpha)
	}

	title := spacedUpper(req.City)

	mainFace := p.face(func(s *fonts.Set) *opentype.Font { return s.Bold }, titleSize(req.City), req.DPI)
	subFace := p.face(func(s *fonts.Set) *opentype.Font { return s.Light }, 22, req.DPI)
	coordsFace := p.face(func(s *fonts.Set) *opentype.Font { return s.Regular }, 14, req.DPI)
	attrFace := p.face(func(s *fonts.Set) *opentype.Font { return s.Light }, 8, req.DPI)

	setText(1)
	dc.SetFontFace(mainFace)
	dc.DrawStringAnchored(title, w/2, h*(1-0.14), 0.5, 0.5)

	dc.SetFontFace(subFace)
	dc.DrawStringAnchored(strings.ToUpper(req.Country), w/2, h*(1-0.10), 0.5, 0.5)

	setText(0.7)
	dc.SetFontFace(coordsFace)
	dc.DrawStringAnchored(coordinateLine(req.Point.Lat, req.Point.Lon), w/2, h*(1-0.07), 0.5, 0.5)

	// Divider line between title and country.
	setText(1)
	dc.SetLineWidth(float64(req.DPI) / 72.0)
	dc.DrawLine(w*0.4, h*(1-0.125), w*0.6, h*(1-0.125))
	dc.Stroke()

	setText(0.5)
	dc.SetFontFace(attrFace)
	dc.DrawStringAnchored("© OpenStreetMap contributors", w*0.98, h*0.98, 1, 1)

	return nil
}

// face builds a font face at a point size, falling back to the bitmap face
// when the font set is missing or unparsable.
func (p *Poster) face(pick func(*fonts.Set) *opentype.Font, sizePt float64, dpi int) font.Face {
	if p.fonts != nil {
		if f, err := fonts.Face(pick(p.fonts), sizePt, dpi); err == nil {
			return f
		}
	}
	return basicfont.Face7x13
}
