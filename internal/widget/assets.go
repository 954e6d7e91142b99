package widget

import (
	"os"
	"path/filepath"
)

// Bundled asset files shipped beside the binary.
const (
	fontFile     = "zh-cn.ttf"
	resinIcon    = "resin.png"
	checkInIcon  = "checkin.png"
	currencyIcon = "realmCurr.png"
)

const checkInURL = "https://act.hoyolab.com/ys/event/signin-sea-v3/index.html?act_id=e202102251931481"

// assetPath resolves a bundled asset next to the executable, falling
// back to the working directory.
func assetPath(name string) string {
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return name
}
