package widget

import (
	"fmt"
	"log"
	"os/exec"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"

	"github.com/Naguroka/GenshinWidget/internal/config"
	"github.com/Naguroka/GenshinWidget/internal/status"
)

const rowSpacing = 4

type rowSpec struct {
	icon string
	text string
	link string
}

// Renderer owns the frame box inside the window and rebuilds the three
// status rows from scratch on every snapshot.
type Renderer struct {
	frame   *gtk.Box
	window  *Window
	icons   *IconCache
	display config.Display
	rows    []*gtk.Box
}

// NewRenderer builds the frame box and attaches it to the window.
func NewRenderer(win *Window, icons *IconCache, d config.Display) (*Renderer, error) {
	frame, err := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, rowSpacing)
	if err != nil {
		return nil, fmt.Errorf("failed to create frame box: %w", err)
	}
	frame.SetName("widget-frame")
	win.Add(frame)

	return &Renderer{
		frame:   frame,
		window:  win,
		icons:   icons,
		display: d,
	}, nil
}

// Render replaces the current rows with the snapshot's three rows.
// Must run on the GTK main thread.
func (r *Renderer) Render(s status.Snapshot) {
	log.Printf("Updating rows: %q, %q, %q", s.Resin, s.CheckIn, s.Currency)

	for _, row := range r.rows {
		row.Destroy()
	}
	r.rows = r.rows[:0]

	specs := []rowSpec{
		{icon: resinIcon, text: s.Resin},
		{icon: checkInIcon, text: s.CheckIn, link: checkInURL},
		{icon: currencyIcon, text: s.Currency},
	}

	for _, spec := range specs {
		row, err := r.buildRow(spec)
		if err != nil {
			log.Printf("Failed to build row for %s: %v", spec.icon, err)
			continue
		}
		r.frame.PackStart(row, false, false, 0)
		r.rows = append(r.rows, row)
	}

	r.frame.ShowAll()

	if r.display.FitWindowToText {
		r.window.ShrinkToContent()
	}
}

func (r *Renderer) buildRow(spec rowSpec) (*gtk.Box, error) {
	row, err := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, rowSpacing)
	if err != nil {
		return nil, err
	}

	icon, err := r.buildIcon(spec)
	if err != nil {
		log.Printf("Failed to load icon %s: %v", spec.icon, err)
	} else {
		row.PackStart(icon, false, false, 0)
	}

	label, err := gtk.LabelNew(spec.text)
	if err != nil {
		return nil, err
	}
	label.SetHAlign(gtk.ALIGN_START)
	if r.display.WordWrap {
		label.SetLineWrap(true)
	}
	row.PackStart(label, true, true, 0)

	return row, nil
}

// buildIcon loads the row icon scaled to the font size. The check-in
// icon is wrapped in an event box so a left-click opens the daily
// check-in page.
func (r *Renderer) buildIcon(spec rowSpec) (gtk.IWidget, error) {
	if r.icons == nil {
		return nil, fmt.Errorf("icon cache unavailable")
	}

	pixbuf, err := r.icons.Load(assetPath(spec.icon), r.display.FontSize)
	if err != nil {
		return nil, err
	}

	image, err := gtk.ImageNewFromPixbuf(pixbuf)
	if err != nil {
		return nil, err
	}

	if spec.link == "" {
		return image, nil
	}

	eventBox, err := gtk.EventBoxNew()
	if err != nil {
		return nil, err
	}
	eventBox.Add(image)

	link := spec.link
	eventBox.Connect("button-press-event", func(_ *gtk.EventBox, ev *gdk.Event) bool {
		button := gdk.EventButtonNewFromEvent(ev)
		if button.Button() != 1 {
			return false
		}
		openURL(link)
		return true
	})

	return eventBox, nil
}

func openURL(url string) {
	log.Printf("Opening %s", url)
	if err := exec.Command("xdg-open", url).Start(); err != nil {
		log.Printf("Failed to open %s: %v", url, err)
	}
}
