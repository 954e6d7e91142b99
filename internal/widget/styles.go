package widget

import (
	"fmt"
	"log"
	"strings"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"

	"github.com/Naguroka/GenshinWidget/internal/config"
)

// BuildCSS renders the Display settings into the widget stylesheet.
// The window itself stays transparent; the frame box named
// "widget-frame" carries the visible backdrop and pads the rows by the
// configured margins.
func BuildCSS(d config.Display, fontFamily string) string {
	var b strings.Builder

	b.WriteString("window {\n")
	b.WriteString("    background-color: transparent;\n")
	b.WriteString("}\n\n")

	b.WriteString("label {\n")
	fmt.Fprintf(&b, "    color: %s;\n", d.FontColor)
	fmt.Fprintf(&b, "    font-size: %dpx;\n", d.FontSize)
	if fontFamily != "" {
		fmt.Fprintf(&b, "    font-family: %q;\n", fontFamily)
	}
	b.WriteString("    background-color: transparent;\n")
	b.WriteString("}\n\n")

	b.WriteString("#widget-frame {\n")
	if d.ShowBackground && d.BackgroundImage != "" {
		fmt.Fprintf(&b, "    background-image: url(%q);\n", d.BackgroundImage)
		b.WriteString("    background-size: 100% 100%;\n")
	} else {
		fmt.Fprintf(&b, "    background-color: %s;\n", d.BackgroundColor)
	}
	fmt.Fprintf(&b, "    border-radius: %dpx;\n", d.CornerRadius)
	fmt.Fprintf(&b, "    padding: %dpx;\n", d.Margins)
	b.WriteString("}\n")

	return b.String()
}

// SetupStyles installs the generated stylesheet application-wide.
func SetupStyles(d config.Display, fontFamily string) {
	screen, err := gdk.ScreenGetDefault()
	if err != nil || screen == nil {
		log.Printf("Warning: Failed to get default screen: %v", err)
		return
	}

	provider, _ := gtk.CssProviderNew()
	if err := provider.LoadFromData(BuildCSS(d, fontFamily)); err != nil {
		log.Printf("Warning: Failed to load styles: %v", err)
		return
	}

	gtk.AddProviderForScreen(screen, provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
}
