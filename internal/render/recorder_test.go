package render

import "image/color"

// drawOp is one recorded Surface call.
type drawOp struct {
	Name  string
	X, Y  float64
	Text  string
	Color color.RGBA
	Value float64
}

// recordingSurface implements Surface by logging every call.
type recordingSurface struct {
	w, h int
	ops  []drawOp
}

func newRecordingSurface(w, h int) *recordingSurface {
	return &recordingSurface{w: w, h: h}
}

func (r *recordingSurface) Size() (int, int) { return r.w, r.h }
func (r *recordingSurface) Clear()           { r.ops = append(r.ops, drawOp{Name: "Clear"}) }
func (r *recordingSurface) NewPath()         { r.ops = append(r.ops, drawOp{Name: "NewPath"}) }
func (r *recordingSurface) ClosePath()       { r.ops = append(r.ops, drawOp{Name: "ClosePath"}) }
func (r *recordingSurface) Stroke()          { r.ops = append(r.ops, drawOp{Name: "Stroke"}) }

func (r *recordingSurface) SetSourceColor(c color.RGBA) {
	r.ops = append(r.ops, drawOp{Name: "SetSourceColor", Color: c})
}

func (r *recordingSurface) SetLineWidth(w float64) {
	r.ops = append(r.ops, drawOp{Name: "SetLineWidth", Value: w})
}

func (r *recordingSurface) SetFontSize(size float64) {
	r.ops = append(r.ops, drawOp{Name: "SetFontSize", Value: size})
}

func (r *recordingSurface) MoveTo(x, y float64) {
	r.ops = append(r.ops, drawOp{Name: "MoveTo", X: x, Y: y})
}

func (r *recordingSurface) LineTo(x, y float64) {
	r.ops = append(r.ops, drawOp{Name: "LineTo", X: x, Y: y})
}

func (r *recordingSurface) FillText(text string, x, y float64) {
	r.ops = append(r.ops, drawOp{Name: "FillText", Text: text, X: x, Y: y})
}

func (r *recordingSurface) count(name string) int {
	n := 0
	for _, op := range r.ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// texts returns the FillText calls.
func (r *recordingSurface) texts() []drawOp {
	var out []drawOp
	for _, op := range r.ops {
		if op.Name == "FillText" {
			out = append(out, op)
		}
	}
	return out
}
