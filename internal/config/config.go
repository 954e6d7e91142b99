package config

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"

	"gopkg.in/ini.v1"
)

var (
	ErrMissingAuth     = errors.New("authentication details are missing in settings.ini")
	ErrDisplayConflict = errors.New("both 'word_wrap' and 'fit_window_to_text' cannot be enabled simultaneously")
)

// Display holds the [Display] section. Boolean keys use the literal
// tokens "1"/"0"; anything else reads as false.
type Display struct {
	Transparency    float64
	FontSize        int
	FontColor       string
	ShowBackground  bool
	BackgroundColor string
	BackgroundImage string
	Margins         int
	CornerRadius    int
	AllowResizing   bool
	Draggable       bool
	AlwaysOnTop     bool
	ShowInTaskbar   bool
	WordWrap        bool
	FitWindowToText bool
	ShowNotes       bool
}

// Auth holds the [Auth] section: the four HoYoLAB session cookies.
// All of them are required; ltuid_v2 doubles as the account id.
type Auth struct {
	LtuidV2       string
	LtokenV2      string
	CookieTokenV2 string
	AccountMidV2  string
}

// Position is the last known window position from the [Window] section.
type Position struct {
	X int
	Y int
}

// Settings is an immutable snapshot of the parsed settings file.
type Settings struct {
	Display Display
	Auth    Auth
	Window  Position
}

// Validate checks the startup invariants: every Auth key present and
// non-empty, and at most one of word_wrap / fit_window_to_text enabled.
func (s Settings) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"ltuid_v2", s.Auth.LtuidV2},
		{"ltoken_v2", s.Auth.LtokenV2},
		{"cookie_token_v2", s.Auth.CookieTokenV2},
		{"account_mid_v2", s.Auth.AccountMidV2},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is empty", ErrMissingAuth, r.key)
		}
	}

	if s.Display.WordWrap && s.Display.FitWindowToText {
		return ErrDisplayConflict
	}

	return nil
}

// Store owns the settings file. Reads hand out immutable snapshots;
// the only mutation is the window position write-back, serialized here.
type Store struct {
	path     string
	file     *ini.File
	settings Settings
	mu       sync.Mutex
}

// Open loads the settings file at path. A missing file behaves as an
// empty one (validation then fails on the missing credentials); a
// malformed file is an error.
func Open(path string) (*Store, error) {
	// IgnoreInlineComment keeps color values like "#ffffff" intact.
	file, err := ini.LoadSources(ini.LoadOptions{
		Loose:               true,
		IgnoreInlineComment: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	s := &Store{
		path:     path,
		file:     file,
		settings: parseSettings(file),
	}

	log.Printf("Loaded settings from %s: display=%+v window=%+v", path, s.settings.Display, s.settings.Window)

	return s, nil
}

// Settings returns the current snapshot.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// SavePosition updates Window.last_x/last_y and rewrites the settings
// file, leaving every other section untouched. Called on every drag
// tick and on close.
func (s *Store) SavePosition(pos Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec := s.file.Section("Window")
	sec.Key("last_x").SetValue(strconv.Itoa(pos.X))
	sec.Key("last_y").SetValue(strconv.Itoa(pos.Y))
	s.settings.Window = pos

	if err := s.file.SaveTo(s.path); err != nil {
		return fmt.Errorf("failed to save window position: %w", err)
	}

	return nil
}

// ValidateConfig loads and validates the settings file at path.
func ValidateConfig(path string) error {
	store, err := Open(path)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if err := store.Settings().Validate(); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}
	return nil
}

func parseSettings(f *ini.File) Settings {
	d := f.Section("Display")
	a := f.Section("Auth")
	w := f.Section("Window")

	return Settings{
		Display: Display{
			Transparency:    floatKey(d, "transparency", 1.0),
			FontSize:        intKey(d, "font_size", 16),
			FontColor:       stringKey(d, "font_color", "#ffffff"),
			ShowBackground:  boolKey(d, "show_background"),
			BackgroundColor: stringKey(d, "background_color", "#000000"),
			BackgroundImage: stringKey(d, "background_image", ""),
			Margins:         intKey(d, "margins", 10),
			CornerRadius:    intKey(d, "corner_radius", 0),
			AllowResizing:   boolKey(d, "allow_resizing"),
			Draggable:       boolKey(d, "draggable"),
			AlwaysOnTop:     boolKey(d, "always_on_top"),
			ShowInTaskbar:   boolKey(d, "show_in_taskbar"),
			WordWrap:        boolKey(d, "word_wrap"),
			FitWindowToText: boolKey(d, "fit_window_to_text"),
			ShowNotes:       boolKey(d, "show_notes"),
		},
		Auth: Auth{
			LtuidV2:       stringKey(a, "ltuid_v2", ""),
			LtokenV2:      stringKey(a, "ltoken_v2", ""),
			CookieTokenV2: stringKey(a, "cookie_token_v2", ""),
			AccountMidV2:  stringKey(a, "account_mid_v2", ""),
		},
		Window: Position{
			X: intKey(w, "last_x", 100),
			Y: intKey(w, "last_y", 100),
		},
	}
}

// The key helpers check HasKey before Key() so that probing for
// absent keys never materializes them in the file.

func stringKey(sec *ini.Section, name, def string) string {
	if !sec.HasKey(name) {
		return def
	}
	return sec.Key(name).String()
}

func boolKey(sec *ini.Section, name string) bool {
	if !sec.HasKey(name) {
		return false
	}
	return sec.Key(name).String() == "1"
}

func intKey(sec *ini.Section, name string, def int) int {
	if !sec.HasKey(name) {
		return def
	}
	v, err := sec.Key(name).Int()
	if err != nil {
		log.Printf("Invalid value for %s.%s, using default %d: %v", sec.Name(), name, def, err)
		return def
	}
	return v
}

func floatKey(sec *ini.Section, name string, def float64) float64 {
	if !sec.HasKey(name) {
		return def
	}
	v, err := sec.Key(name).Float64()
	if err != nil {
		log.Printf("Invalid value for %s.%s, using default %g: %v", sec.Name(), name, def, err)
		return def
	}
	return v
}
