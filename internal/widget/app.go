package widget

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/Naguroka/GenshinWidget/internal/config"
	"github.com/Naguroka/GenshinWidget/internal/hoyolab"
	"github.com/Naguroka/GenshinWidget/internal/status"
	"github.com/Naguroka/GenshinWidget/internal/wm"
)

const iconCacheSize = 32

// App is the widget application.
type App struct {
	store    *config.Store
	settings config.Settings
	machine  *status.Machine
	running  bool
	sigChan  chan os.Signal

	window    *Window
	renderer  *Renderer
	icons     *IconCache
	refresher *status.Refresher
	placer    *wm.Placer
	lastPos   config.Position
}

// NewApp creates the application around a loaded settings store.
func NewApp(store *config.Store, machine *status.Machine) (*App, error) {
	return &App{
		store:    store,
		settings: store.Settings(),
		machine:  machine,
		running:  false,
		sigChan:  make(chan os.Signal, 1),
		lastPos:  store.Settings().Window,
	}, nil
}

// Run starts the application and blocks until it quits.
func (a *App) Run() error {
	a.running = true

	// Handle system signals
	signal.Notify(a.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-a.sigChan
		log.Printf("Received signal: %v", sig)
		glib.IdleAdd(func() {
			a.Quit()
		})
	}()

	log.Println("Genshin widget starting...")

	return a.runMainLoop()
}

func (a *App) runMainLoop() error {
	if err := a.initialize(); err != nil {
		return err
	}

	gtk.Main()

	return nil
}

// initialize builds all components
func (a *App) initialize() error {
	log.Println("Initializing components...")

	gtk.Init(nil)

	SetupStyles(a.settings.Display, a.loadFont())

	icons, err := NewIconCache(iconCacheSize)
	if err != nil {
		log.Printf("Failed to create icon cache: %v", err)
		icons = nil
	}
	a.icons = icons

	win, err := NewWindow(a.settings.Display, a.settings.Window, a.onMove, a.onWindowClosed)
	if err != nil {
		return err
	}
	a.window = win

	renderer, err := NewRenderer(win, icons, a.settings.Display)
	if err != nil {
		return err
	}
	a.renderer = renderer

	client := hoyolab.New(hoyolab.Credentials{
		LtuidV2:       a.settings.Auth.LtuidV2,
		LtokenV2:      a.settings.Auth.LtokenV2,
		CookieTokenV2: a.settings.Auth.CookieTokenV2,
		AccountMidV2:  a.settings.Auth.AccountMidV2,
	})
	a.refresher = status.NewRefresher(a.machine, client, a.settings.Auth.LtuidV2, a.settings.Display.ShowNotes, a.onSnapshot)
	if err := a.refresher.Start(); err != nil {
		log.Printf("Failed to start refresher: %v", err)
	}

	win.ShowAll()

	if wm.Available() {
		// gtk_window_move is ignored on Wayland; ask sway instead.
		go a.placeWithSway()
	} else {
		win.OnConfigure(func(pos config.Position) {
			a.lastPos = pos
		})
	}

	log.Println("Initialization complete")
	return nil
}

// loadFont registers the bundled font and returns the family name the
// stylesheet should reference, or "" for the toolkit default.
func (a *App) loadFont() string {
	family, err := InstallFont(assetPath(fontFile))
	if err != nil {
		log.Printf("Failed to load custom font: %v", err)
		return ""
	}

	resolved := ResolveFamily(family)
	log.Printf("Custom font loaded: %s", resolved)
	return resolved
}

// onSnapshot hands fetch results to the renderer on the GTK thread.
func (a *App) onSnapshot(s status.Snapshot) {
	glib.IdleAdd(func() {
		if a.renderer != nil {
			a.renderer.Render(s)
		}
	})
}

// onMove persists the position on every drag tick, like the window
// position write-back on close.
func (a *App) onMove(pos config.Position) {
	a.lastPos = pos
	if err := a.store.SavePosition(pos); err != nil {
		log.Printf("Failed to save window position: %v", err)
	}
}

func (a *App) onWindowClosed() {
	a.Quit()
}

func (a *App) placeWithSway() {
	// Give the window a moment to map before addressing it by title.
	time.Sleep(500 * time.Millisecond)

	placer := wm.NewPlacer(Title)
	pos := a.settings.Window
	if err := placer.Place(pos, a.settings.Display.AlwaysOnTop); err != nil {
		log.Printf("Failed to place window via sway: %v", err)
		return
	}
	log.Printf("Window placed via sway at %d,%d", pos.X, pos.Y)

	glib.IdleAdd(func() {
		a.placer = placer
	})
}

// Quit gracefully quits the application
func (a *App) Quit() {
	if !a.running {
		return
	}
	a.running = false

	log.Println("Shutting down...")

	if a.refresher != nil {
		a.refresher.Stop()
	}

	a.persistPosition()

	gtk.MainQuit()
}

// persistPosition writes the last known window position back to the
// settings file. Under sway the compositor tree is authoritative,
// since GTK cannot report the surface position on Wayland.
func (a *App) persistPosition() {
	pos := a.lastPos
	if a.placer != nil {
		p, err := a.placer.Position()
		if err != nil {
			log.Printf("Failed to read window position from sway: %v", err)
		} else {
			pos = p
		}
	}

	if err := a.store.SavePosition(pos); err != nil {
		log.Printf("Failed to save window position: %v", err)
	}
}
