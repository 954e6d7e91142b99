package widget

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/image/font/sfnt"
)

// FamilyFromFile reads the family name out of a TTF/OTF name table.
func FamilyFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	f, err := sfnt.Parse(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse font %s: %w", path, err)
	}

	family, err := f.Name(nil, sfnt.NameIDFamily)
	if err != nil {
		return "", fmt.Errorf("font %s has no family name: %w", path, err)
	}

	return family, nil
}

// InstallFont makes the bundled font visible to fontconfig by copying
// it into the user font directory, and returns its family name for the
// stylesheet. Installation is best-effort: the family name is still
// returned when the copy fails, since the font may already be known.
func InstallFont(path string) (string, error) {
	family, err := FamilyFromFile(path)
	if err != nil {
		return "", err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return family, nil
	}

	fontDir := filepath.Join(home, ".local", "share", "fonts")
	dest := filepath.Join(fontDir, filepath.Base(path))
	if _, err := os.Stat(dest); err == nil {
		return family, nil
	}

	if err := os.MkdirAll(fontDir, 0755); err != nil {
		log.Printf("Failed to create font directory %s: %v", fontDir, err)
		return family, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return family, nil
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		log.Printf("Failed to install font to %s: %v", dest, err)
		return family, nil
	}

	log.Printf("Installed font %s (family %q)", dest, family)
	return family, nil
}

// ResolveFamily matches the requested family against the families
// fontconfig reports, so the stylesheet references a name the renderer
// actually knows. Falls back to the requested name when fc-list is
// unavailable.
func ResolveFamily(requested string) string {
	out, err := exec.Command("fc-list", ":", "family").Output()
	if err != nil {
		log.Printf("fc-list unavailable, using font family %q as-is: %v", requested, err)
		return requested
	}
	return resolveAgainst(requested, parseFamilies(string(out)))
}

// parseFamilies flattens fc-list output: one line per font face, each
// line a comma-separated list of family aliases.
func parseFamilies(out string) []string {
	seen := make(map[string]bool)
	var families []string

	for _, line := range strings.Split(out, "\n") {
		for _, fam := range strings.Split(line, ",") {
			fam = strings.TrimSpace(fam)
			if fam == "" || seen[fam] {
				continue
			}
			seen[fam] = true
			families = append(families, fam)
		}
	}

	return families
}

func resolveAgainst(requested string, families []string) string {
	for _, fam := range families {
		if strings.EqualFold(fam, requested) {
			return fam
		}
	}

	matches := fuzzy.Find(requested, families)
	if len(matches) > 0 {
		log.Printf("Font family %q not installed, using closest match %q", requested, matches[0].Str)
		return matches[0].Str
	}

	log.Printf("Font family %q not found among %d installed families", requested, len(families))
	return requested
}
