package widget

import (
	"strings"
	"testing"

	"github.com/Naguroka/GenshinWidget/internal/config"
)

func testDisplay() config.Display {
	return config.Display{
		Transparency:    1.0,
		FontSize:        18,
		FontColor:       "#ffcc00",
		BackgroundColor: "#102030",
		Margins:         12,
		CornerRadius:    8,
	}
}

func TestBuildCSS_SolidColor(t *testing.T) {
	css := BuildCSS(testDisplay(), "")

	for _, want := range []string{
		"color: #ffcc00;",
		"font-size: 18px;",
		"background-color: #102030;",
		"border-radius: 8px;",
		"padding: 12px;",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("Expected CSS to contain %q, got:\n%s", want, css)
		}
	}

	if strings.Contains(css, "background-image") {
		t.Error("Expected no background image without show_background")
	}
}

func TestBuildCSS_BackgroundImage(t *testing.T) {
	d := testDisplay()
	d.ShowBackground = true
	d.BackgroundImage = "skin.png"

	css := BuildCSS(d, "")

	if !strings.Contains(css, `background-image: url("skin.png");`) {
		t.Errorf("Expected background image url, got:\n%s", css)
	}
	if !strings.Contains(css, "background-size: 100% 100%;") {
		t.Errorf("Expected stretched background size, got:\n%s", css)
	}
	if strings.Contains(css, "#102030") {
		t.Error("Expected background color to be replaced by the image")
	}
}

func TestBuildCSS_ShowBackgroundWithoutImage(t *testing.T) {
	d := testDisplay()
	d.ShowBackground = true

	css := BuildCSS(d, "")

	if !strings.Contains(css, "background-color: #102030;") {
		t.Errorf("Expected solid color fallback without an image path, got:\n%s", css)
	}
	if strings.Contains(css, "background-image") {
		t.Error("Expected no background image without a path")
	}
}

func TestBuildCSS_FontFamily(t *testing.T) {
	css := BuildCSS(testDisplay(), "HYWenHei 85W")
	if !strings.Contains(css, `font-family: "HYWenHei 85W";`) {
		t.Errorf("Expected font family in CSS, got:\n%s", css)
	}

	css = BuildCSS(testDisplay(), "")
	if strings.Contains(css, "font-family") {
		t.Error("Expected no font-family rule for the toolkit default")
	}
}

func TestBuildCSS_TransparentChrome(t *testing.T) {
	css := BuildCSS(testDisplay(), "")

	if !strings.Contains(css, "window {\n    background-color: transparent;") {
		t.Errorf("Expected transparent window, got:\n%s", css)
	}
	if !strings.Contains(css, "label {") {
		t.Errorf("Expected label rules, got:\n%s", css)
	}
}
