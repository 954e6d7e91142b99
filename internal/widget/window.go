package widget

import (
	"fmt"
	"log"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"

	"github.com/Naguroka/GenshinWidget/internal/config"
)

// Title identifies the widget window to the window manager.
const Title = "Genshin Widget"

const (
	defaultWidth  = 400
	defaultHeight = 300
)

// Window wraps the frameless toplevel and its drag handling.
type Window struct {
	win     *gtk.Window
	display config.Display
	onMove  func(config.Position)
	onClose func()

	dragging bool
	offsetX  int
	offsetY  int
}

// NewWindow builds the overlay window at the stored position. onMove
// fires for every successful drag move, onClose once the window is
// destroyed.
func NewWindow(d config.Display, pos config.Position, onMove func(config.Position), onClose func()) (*Window, error) {
	win, err := gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w := &Window{win: win, display: d, onMove: onMove, onClose: onClose}

	win.SetTitle(Title)
	if !d.ShowInTaskbar {
		win.SetDecorated(false)
		win.SetSkipTaskbarHint(true)
		win.SetTypeHint(gdk.WINDOW_TYPE_HINT_UTILITY)
	}
	if d.AlwaysOnTop {
		win.SetKeepAbove(true)
	}

	if d.AllowResizing {
		win.SetResizable(true)
		win.SetDefaultSize(defaultWidth, defaultHeight)
	} else {
		win.SetResizable(false)
		win.SetSizeRequest(defaultWidth, defaultHeight)
	}

	win.SetOpacity(d.Transparency)
	w.setupTransparency()

	win.Move(pos.X, pos.Y)

	if d.Draggable {
		w.setupDrag()
	}

	win.Connect("destroy", func() {
		if w.onClose != nil {
			w.onClose()
		}
	})

	return w, nil
}

// setupTransparency switches the window to the compositor's RGBA
// visual so the backdrop can actually be translucent.
func (w *Window) setupTransparency() {
	screen, err := w.win.GetScreen()
	if err != nil {
		log.Printf("Failed to get window screen: %v", err)
		return
	}

	visual, err := screen.GetRGBAVisual()
	if err != nil || visual == nil {
		log.Printf("No RGBA visual available, translucency disabled")
		return
	}

	w.win.SetVisual(visual)
	w.win.SetAppPaintable(true)
}

// setupDrag wires manual window dragging: remember where inside the
// window button 1 went down, then follow the pointer's root position
// minus that offset.
func (w *Window) setupDrag() {
	w.win.AddEvents(int(gdk.BUTTON_PRESS_MASK | gdk.BUTTON_RELEASE_MASK | gdk.POINTER_MOTION_MASK))

	w.win.Connect("button-press-event", func(_ *gtk.Window, ev *gdk.Event) bool {
		button := gdk.EventButtonNewFromEvent(ev)
		if button.Button() != 1 {
			return false
		}
		w.dragging = true
		w.offsetX = int(button.X())
		w.offsetY = int(button.Y())
		return true
	})

	w.win.Connect("motion-notify-event", func(_ *gtk.Window, ev *gdk.Event) bool {
		if !w.dragging {
			return false
		}
		motion := gdk.EventMotionNewFromEvent(ev)
		xRoot, yRoot := motion.MotionValRoot()
		pos := config.Position{X: int(xRoot) - w.offsetX, Y: int(yRoot) - w.offsetY}
		w.win.Move(pos.X, pos.Y)
		if w.onMove != nil {
			w.onMove(pos)
		}
		return true
	})

	w.win.Connect("button-release-event", func(_ *gtk.Window, _ *gdk.Event) bool {
		w.dragging = false
		return false
	})
}

// OnConfigure reports the window position after every move or resize.
func (w *Window) OnConfigure(fn func(config.Position)) {
	w.win.Connect("configure-event", func(_ *gtk.Window, _ *gdk.Event) bool {
		fn(w.Position())
		return false
	})
}

// Add puts the content widget into the window.
func (w *Window) Add(widget gtk.IWidget) {
	w.win.Add(widget)
}

// ShowAll maps the window and everything in it.
func (w *Window) ShowAll() {
	w.win.ShowAll()
}

// Position reports the window's current top-left corner.
func (w *Window) Position() config.Position {
	x, y := w.win.GetPosition()
	return config.Position{X: x, Y: y}
}

// ShrinkToContent collapses the window back to its natural size.
func (w *Window) ShrinkToContent() {
	w.win.Resize(1, 1)
}

// Destroy tears the window down.
func (w *Window) Destroy() {
	w.win.Destroy()
}
