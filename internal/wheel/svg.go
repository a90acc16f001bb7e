package wheel

import (
	"bufio"
	"fmt"
	"html"
	"io"
)

const DefaultSize = 320

type SVGOptions struct {
	Size        float64
	CenterLabel string
	ShowLabels  bool
}

// Hue spreads segments evenly around the colour wheel.
func (w *Wheel) Hue(seg int) float64 {
	return float64(seg) * 360 / float64(len(w.Segments))
}

// RenderSVG draws the wheel with lit cells in the segment hue and unlit
// cells muted.
func (w *Wheel) RenderSVG(out io.Writer, lit CellSet, opts SVGOptions) error {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	l := NewLayout(opts.Size, len(w.Segments), len(w.Ratings))
	c := l.center()
	filterID := "softGlow-" + string(w.Kind)

	bw := bufio.NewWriter(out)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(l.Size), num(l.Size), num(l.Size), num(l.Size))
	fmt.Fprintf(bw, `<defs><filter id="%s" x="-50%%" y="-50%%" width="200%%" height="200%%">`+
		`<feGaussianBlur stdDeviation="3" result="blur"/><feMerge><feMergeNode in="blur"/>`+
		`<feMergeNode in="SourceGraphic"/></feMerge></filter></defs>`+"\n", filterID)

	for si, seg := range w.Segments {
		hue := num(w.Hue(si))
		for ri, ring := range w.Ratings {
			key := CellKey(si, ri)
			title := html.EscapeString(seg.Name + " as " + ring.Label)
			if lit.Has(key) {
				fmt.Fprintf(bw, `<path id="cell-%s" d="%s" fill="hsl(%s, 70%%, 55%%)" opacity="0.9" filter="url(#%s)" stroke="rgba(255,255,255,0.1)" stroke-width="0.5" class="wheel-cell lit"><title>%s</title></path>`+"\n",
					key, l.CellPath(si, ri), hue, filterID, title)
				continue
			}
			fmt.Fprintf(bw, `<path id="cell-%s" d="%s" fill="hsl(%s, 15%%, 20%%)" opacity="0.4" stroke="rgba(255,255,255,0.1)" stroke-width="0.5" class="wheel-cell unlit"><title>%s</title></path>`+"\n",
				key, l.CellPath(si, ri), hue, title)
		}
	}

	fmt.Fprintf(bw, `<circle cx="%s" cy="%s" r="%s" fill="#111" stroke="rgba(255,255,255,0.1)" stroke-width="1"/>`+"\n",
		num(c), num(c), num(l.Inner-2))
	if opts.CenterLabel != "" {
		fmt.Fprintf(bw, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" fill="#666" font-size="11" font-weight="500">%s</text>`+"\n",
			num(c), num(c), html.EscapeString(opts.CenterLabel))
	}
	if opts.ShowLabels {
		for si, seg := range w.Segments {
			p := l.LabelPosition(si)
			fmt.Fprintf(bw, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" fill="#666" font-size="9" transform="rotate(%s, %s, %s)">%s</text>`+"\n",
				num(p.X), num(p.Y), num(p.Rotation), num(p.X), num(p.Y), html.EscapeString(seg.ShortName()))
		}
	}
	fmt.Fprintln(bw, `</svg>`)
	return bw.Flush()
}
