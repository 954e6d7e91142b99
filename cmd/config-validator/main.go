package main

import (
	"fmt"
	"os"

	"github.com/Naguroka/GenshinWidget/internal/config"
)

func main() {
	settingsPath := "settings.ini"
	if len(os.Args) > 1 {
		settingsPath = os.Args[1]
	}

	fmt.Printf("Validating settings: %s\n", settingsPath)

	if err := config.ValidateConfig(settingsPath); err != nil {
		fmt.Printf("❌ Settings validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Settings are valid!")
}
