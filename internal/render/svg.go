package render

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"mapposter/internal/mapdata"
)

// renderSVG writes the poster as a standalone SVG document. Same layer order
// as the raster path; coordinates are emitted in pixel units at the
// requested DPI so the document prints at the intended physical size.
func (p *Poster) renderSVG(req Request) error {
	width := req.WidthInches * float64(req.DPI)
	height := req.HeightInches * float64(req.DPI)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid canvas size %.0fx%.0f", width, height)
	}

	proj, err := newProjection(req.Data, width, height)
	if err != nil {
		return err
	}

	f, err := os.Create(req.OutputPath)
	if err != nil {
		return fmt.Errorf("create svg: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height)

	fmt.Fprintf(w, `  <defs>
    <linearGradient id="fade-bottom" x1="0" y1="1" x2="0" y2="0.75">
      <stop offset="0" stop-color="%[1]s" stop-opacity="1"/>
      <stop offset="1" stop-color="%[1]s" stop-opacity="0"/>
    </linearGradient>
    <linearGradient id="fade-top" x1="0" y1="0" x2="0" y2="0.25">
      <stop offset="0" stop-color="%[1]s" stop-opacity="1"/>
      <stop offset="1" stop-color="%[1]s" stop-opacity="0"/>
    </linearGradient>
  </defs>`+"\n", req.Theme.GradientColor)

	fmt.Fprintf(w, `  <rect width="%.0f" height="%.0f" fill="%s"/>`+"\n", width, height, req.Theme.Bg)

	writeFeatures(w, proj, req.Data.Water, req.Theme.Water)
	writeFeatures(w, proj, req.Data.Parks, req.Theme.Parks)

	if req.Data.Network != nil {
		ptToPx := float64(req.DPI) / 72.0
		for _, way := range req.Data.Network.Ways {
			if len(way.Points) < 2 {
				continue
			}
			color, widthPt := roadStyle(req.Theme, way.Highway)
			fmt.Fprintf(w, `  <polyline points="%s" fill="none" stroke="%s" stroke-width="%.2f" stroke-linecap="round"/>`+"\n",
				pointList(proj, way.Points), color, widthPt*ptToPx)
		}
	}

	fmt.Fprintf(w, `  <rect y="%.0f" width="%.0f" height="%.0f" fill="url(#fade-bottom)"/>`+"\n",
		height*0.75, width, height*0.25)
	fmt.Fprintf(w, `  <rect width="%.0f" height="%.0f" fill="url(#fade-top)"/>`+"\n",
		width, height*0.25)

	writeSVGText(w, req, width, height)

	fmt.Fprintln(w, `</svg>`)
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}

	p.log.Info("poster saved", zap.String("path", req.OutputPath))
	return nil
}

func writeFeatures(w *bufio.Writer, proj *projection, features []mapdata.Feature, color string) {
	for _, feature := range features {
		var d strings.Builder
		for _, ring := range feature.Rings {
			for i, pt := range ring {
				x, y := proj.toCanvas(pt)
				if i == 0 {
					fmt.Fprintf(&d, "M %.2f %.2f ", x, y)
				} else {
					fmt.Fprintf(&d, "L %.2f %.2f ", x, y)
				}
			}
			d.WriteString("Z ")
		}
		fmt.Fprintf(w, `  <path d="%s" fill="%s"/>`+"\n", strings.TrimSpace(d.String()), color)
	}
}

func pointList(proj *projection, pts []mapdata.Point) string {
	var b strings.Builder
	for i, pt := range pts {
		x, y := proj.toCanvas(pt)
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.2f,%.2f", x, y)
	}
	return b.String()
}

func writeSVGText(w *bufio.Writer, req Request, width, height float64) {
	ptToPx := float64(req.DPI) / 72.0
	text := req.Theme.Text

	fmt.Fprintf(w, `  <text x="%.0f" y="%.0f" text-anchor="middle" font-family="Roboto, sans-serif" font-weight="bold" font-size="%.1f" fill="%s">%s</text>`+"\n",
		width/2, height*(1-0.14), titleSize(req.City)*ptToPx, text, escapeXML(spacedUpper(req.City)))

	fmt.Fprintf(w, `  <text x="%.0f" y="%.0f" text-anchor="middle" font-family="Roboto, sans-serif" font-weight="300" font-size="%.1f" fill="%s">%s</text>`+"\n",
		width/2, height*(1-0.10), 22*ptToPx, text, escapeXML(strings.ToUpper(req.Country)))

	fmt.Fprintf(w, `  <text x="%.0f" y="%.0f" text-anchor="middle" font-family="Roboto, sans-serif" font-size="%.1f" fill="%s" fill-opacity="0.7">%s</text>`+"\n",
		width/2, height*(1-0.07), 14*ptToPx, text, escapeXML(coordinateLine(req.Point.Lat, req.Point.Lon)))

	fmt.Fprintf(w, `  <line x1="%.0f" y1="%.2f" x2="%.0f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>`+"\n",
		width*0.4, height*(1-0.125), width*0.6, height*(1-0.125), text, ptToPx)

	fmt.Fprintf(w, `  <text x="%.0f" y="%.0f" text-anchor="end" font-family="Roboto, sans-serif" font-weight="300" font-size="%.1f" fill="%s" fill-opacity="0.5">%s</text>`+"\n",
		width*0.98, height*0.98, 8*ptToPx, text, escapeXML("© OpenStreetMap contributors"))
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
