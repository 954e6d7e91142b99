package wm

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/joshuarubin/go-sway"

	"github.com/Naguroka/GenshinWidget/internal/config"
)

const commandTimeout = 3 * time.Second

// Available reports whether a sway compositor is reachable.
func Available() bool {
	return os.Getenv("SWAYSOCK") != ""
}

// Placer positions the widget window through sway IPC, addressed by
// window title. gtk_window_move does nothing on Wayland, so this is
// the placement path there.
type Placer struct {
	title string
}

// NewPlacer creates a placer for the window with the given title.
func NewPlacer(title string) *Placer {
	return &Placer{title: title}
}

// Place floats the window, moves it to pos and, when sticky, keeps it
// visible on every workspace.
func (p *Placer) Place(pos config.Position, sticky bool) error {
	cmds := []string{
		fmt.Sprintf(`[title="%s"] floating enable`, p.title),
		fmt.Sprintf(`[title="%s"] move position %d %d`, p.title, pos.X, pos.Y),
	}
	if sticky {
		cmds = append(cmds, fmt.Sprintf(`[title="%s"] sticky enable`, p.title))
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	client, err := sway.New(ctx)
	if err != nil {
		// Fall back to the swaymsg binary
		return p.runSwaymsg(cmds)
	}

	for _, cmd := range cmds {
		replies, err := client.RunCommand(ctx, cmd)
		if err != nil {
			return fmt.Errorf("sway command %q failed: %w", cmd, err)
		}
		for _, reply := range replies {
			if !reply.Success {
				return fmt.Errorf("sway rejected %q: %s", cmd, reply.Error)
			}
		}
	}

	return nil
}

// Position reads the window's rect back out of the sway tree, so the
// close-time position write-back works on Wayland too.
func (p *Placer) Position() (config.Position, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	client, err := sway.New(ctx)
	if err != nil {
		return config.Position{}, err
	}

	tree, err := client.GetTree(ctx)
	if err != nil {
		return config.Position{}, err
	}

	node := findByTitle(tree, p.title)
	if node == nil {
		return config.Position{}, fmt.Errorf("window %q not in sway tree", p.title)
	}

	return config.Position{X: int(node.Rect.X), Y: int(node.Rect.Y)}, nil
}

// findByTitle walks tiled and floating children for the container
// holding the given window title.
func findByTitle(node *sway.Node, title string) *sway.Node {
	if node == nil {
		return nil
	}

	if node.Name == title && (node.Type == "con" || node.Type == "floating_con") {
		return node
	}

	for _, child := range node.Nodes {
		if found := findByTitle(child, title); found != nil {
			return found
		}
	}
	for _, child := range node.FloatingNodes {
		if found := findByTitle(child, title); found != nil {
			return found
		}
	}

	return nil
}

// runSwaymsg shells out when the IPC socket cannot be dialed.
func (p *Placer) runSwaymsg(cmds []string) error {
	env := os.Environ()
	// Remove LD_PRELOAD to avoid child process issues
	for i, e := range env {
		if strings.HasPrefix(e, "LD_PRELOAD=") {
			env = append(env[:i], env[i+1:]...)
			break
		}
	}

	cmd := exec.Command("swaymsg", strings.Join(cmds, "; "))
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("swaymsg failed: %v (%s)", err, strings.TrimSpace(string(out)))
	}

	log.Printf("Placed window via swaymsg")
	return nil
}
