package render

// Window layout metrics in pixels.
const (
	layoutMargin        = 20.0
	layoutHeadingHeight = 40.0
	layoutCaptionHeight = 28.0
	layoutFieldWidth    = 80.0
	layoutFieldHeight   = 28.0
	layoutGap           = 8.0
	layoutButtonWidth   = 160.0
	layoutButtonHeight  = 30.0
	layoutMessageHeight = 30.0
)

type point struct {
	X, Y float64
}

// layout positions every element of the game window. Planes sit side by
// side under the heading; the 2×2 input grid, the buttons and the message
// line are centred below them.
type layout struct {
	width, height int
	heading       point
	secretCaption point
	guessCaption  point
	secretPlane   Rect
	guessPlane    Rect
	inputCaption  point
	fields        [4]Rect
	check         Rect
	newRound      Rect
	message       point
}

func computeLayout(cfg Config) layout {
	pw, ph := float64(cfg.PlaneWidth), float64(cfg.PlaneHeight)
	width := 3*layoutMargin + 2*pw
	var l layout

	y := layoutMargin
	l.heading = point{width / 2, y + layoutHeadingHeight/2}
	y += layoutHeadingHeight

	l.secretPlane = Rect{X: layoutMargin, W: pw, H: ph}
	l.guessPlane = Rect{X: 2*layoutMargin + pw, W: pw, H: ph}
	l.secretCaption = point{l.secretPlane.X + pw/2, y + layoutCaptionHeight/2}
	l.guessCaption = point{l.guessPlane.X + pw/2, y + layoutCaptionHeight/2}
	y += layoutCaptionHeight
	l.secretPlane.Y, l.guessPlane.Y = y, y
	y += ph + layoutMargin

	l.inputCaption = point{width / 2, y + layoutCaptionHeight/2}
	y += layoutCaptionHeight

	rowWidth := 2*layoutFieldWidth + layoutGap
	x0 := (width - rowWidth) / 2
	for i := range l.fields {
		r, c := float64(i/2), float64(i%2)
		l.fields[i] = Rect{
			X: x0 + c*(layoutFieldWidth+layoutGap),
			Y: y + r*(layoutFieldHeight+layoutGap),
			W: layoutFieldWidth,
			H: layoutFieldHeight,
		}
	}
	y += 2*(layoutFieldHeight+layoutGap) + layoutGap

	buttonsWidth := 2*layoutButtonWidth + 2*layoutGap
	bx := (width - buttonsWidth) / 2
	l.check = Rect{X: bx, Y: y, W: layoutButtonWidth, H: layoutButtonHeight}
	l.newRound = Rect{X: bx + layoutButtonWidth + 2*layoutGap, Y: y, W: layoutButtonWidth, H: layoutButtonHeight}
	y += layoutButtonHeight + layoutMargin

	l.message = point{width / 2, y + layoutMessageHeight/2}
	y += layoutMessageHeight + layoutMargin

	l.width = int(width)
	l.height = int(y)
	return l
}
