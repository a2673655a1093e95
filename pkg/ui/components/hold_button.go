package components

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const holdTickInterval = 50 * time.Millisecond

// HoldButton is a button that fires only after being held down for Hold
type HoldButton struct {
	widget.BaseWidget
	Text      string
	Hold      time.Duration
	OnConfirm func()

	mu       sync.Mutex
	holding  bool
	hovered  bool
	progress float64
	stop     chan struct{}
}

// NewHoldButton creates a new HoldButton
func NewHoldButton(text string, hold time.Duration, onConfirm func()) *HoldButton {
	b := &HoldButton{
		Text:      text,
		Hold:      hold,
		OnConfirm: onConfirm,
	}
	b.ExtendBaseWidget(b)
	return b
}

// holdProgress returns how far along a hold of the given length is, in [0, 1]
func holdProgress(elapsed, hold time.Duration) float64 {
	if hold <= 0 || elapsed >= hold {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(hold)
}

// CreateRenderer implements fyne.Widget
func (b *HoldButton) CreateRenderer() fyne.WidgetRenderer {
	text := canvas.NewText(b.Text, theme.ForegroundColor())
	text.Alignment = fyne.TextAlignCenter

	bg := canvas.NewRectangle(theme.ButtonColor())
	progressBar := canvas.NewRectangle(theme.PrimaryColor())

	return &holdButtonRenderer{
		button:      b,
		text:        text,
		bg:          bg,
		progressBar: progressBar,
	}
}

// Progress returns the current hold progress
func (b *HoldButton) Progress() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.progress
}

func (b *HoldButton) setProgress(progress float64) {
	b.mu.Lock()
	b.progress = progress
	b.mu.Unlock()
	fyne.Do(b.Refresh)
}

// Tapped implements fyne.Tappable
func (b *HoldButton) Tapped(*fyne.PointEvent) {}

// MouseIn implements desktop.Hoverable
func (b *HoldButton) MouseIn(*desktop.MouseEvent) {
	b.hovered = true
	b.Refresh()
}

// MouseMoved implements desktop.Hoverable
func (b *HoldButton) MouseMoved(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable
func (b *HoldButton) MouseOut() {
	b.hovered = false
	// Stop holding when mouse leaves
	b.release()
	b.Refresh()
}

// MouseDown implements desktop.Mouseable
func (b *HoldButton) MouseDown(*desktop.MouseEvent) {
	b.mu.Lock()
	if b.holding {
		b.mu.Unlock()
		return
	}
	b.holding = true
	b.progress = 0
	stop := make(chan struct{})
	b.stop = stop
	b.mu.Unlock()

	go b.track(stop)
}

// MouseUp implements desktop.Mouseable
func (b *HoldButton) MouseUp(*desktop.MouseEvent) {
	b.release()
}

func (b *HoldButton) release() {
	b.mu.Lock()
	if !b.holding {
		b.mu.Unlock()
		return
	}
	b.holding = false
	close(b.stop)
	b.stop = nil
	b.mu.Unlock()

	b.setProgress(0)
}

// track advances progress while the button is held and fires OnConfirm once full
func (b *HoldButton) track(stop chan struct{}) {
	ticker := time.NewTicker(holdTickInterval)
	defer ticker.Stop()
	start := time.Now()

	for {
		progress := holdProgress(time.Since(start), b.Hold)

		b.mu.Lock()
		if !b.holding || b.stop != stop {
			b.mu.Unlock()
			return
		}
		b.progress = progress
		done := progress >= 1
		if done {
			b.holding = false
			b.stop = nil
		}
		b.mu.Unlock()
		fyne.Do(b.Refresh)

		if done {
			if b.OnConfirm != nil {
				b.OnConfirm()
			}
			return
		}

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

type holdButtonRenderer struct {
	button      *HoldButton
	text        *canvas.Text
	bg          *canvas.Rectangle
	progressBar *canvas.Rectangle
}

func (r *holdButtonRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.text.Resize(size)

	// Progress bar fills from left to right
	progressWidth := size.Width * float32(r.button.Progress())
	r.progressBar.Resize(fyne.NewSize(progressWidth, size.Height))
	r.progressBar.Move(fyne.NewPos(0, 0))
}

func (r *holdButtonRenderer) MinSize() fyne.Size {
	textSize := r.text.MinSize()
	minWidth := textSize.Width + theme.Padding()*4
	minHeight := textSize.Height + theme.Padding()*2

	if minWidth < 160 {
		minWidth = 160
	}
	if minHeight < 40 {
		minHeight = 40
	}

	return fyne.NewSize(minWidth, minHeight)
}

func (r *holdButtonRenderer) Refresh() {
	r.text.Text = r.button.Text
	r.text.Color = theme.ForegroundColor()

	if r.button.hovered {
		r.bg.FillColor = theme.HoverColor()
	} else {
		r.bg.FillColor = theme.ButtonColor()
	}

	size := r.bg.Size()
	progressWidth := size.Width * float32(r.button.Progress())
	r.progressBar.Resize(fyne.NewSize(progressWidth, size.Height))

	r.bg.Refresh()
	r.progressBar.Refresh()
	r.text.Refresh()
}

func (r *holdButtonRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.progressBar, r.text}
}

func (r *holdButtonRenderer) Destroy() {}

func (r *holdButtonRenderer) BackgroundColor() color.Color {
	return theme.ButtonColor()
}
