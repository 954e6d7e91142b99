package main

import (
	"errors"
	"log"
	"os"
	"strconv"
	"syscall"

	"github.com/gotk3/gotk3/gtk"

	"github.com/Naguroka/GenshinWidget/internal/config"
	"github.com/Naguroka/GenshinWidget/internal/status"
	"github.com/Naguroka/GenshinWidget/internal/widget"
)

const (
	pidFile      = "/tmp/genshin-widget.pid"
	settingsFile = "settings.ini"
)

// Distinct exit codes per config failure.
const (
	exitBadSettings     = 2
	exitMissingAuth     = 3
	exitDisplayConflict = 4
)

func ensureSingleInstance() error {
	if data, err := os.ReadFile(pidFile); err == nil {
		if pid, err := strconv.Atoi(string(data)); err == nil {
			process, err := os.FindProcess(pid)
			if err == nil {
				// Check if process is still running
				if err := process.Signal(syscall.Signal(0)); err == nil {
					// Kill the process
					process.Kill()
					process.Wait()
				}
			}
		}
	}
	currentPid := os.Getpid()
	return os.WriteFile(pidFile, []byte(strconv.Itoa(currentPid)), 0644)
}

func cleanup() {
	os.Remove(pidFile)
}

func showWarning(message string) {
	dialog := gtk.MessageDialogNew(nil, gtk.DIALOG_MODAL, gtk.MESSAGE_WARNING, gtk.BUTTONS_OK, "%s", message)
	dialog.SetTitle("Warning")
	dialog.Run()
	dialog.Destroy()
}

func main() {
	// Set up logging to file
	logFile, err := os.OpenFile("genshin-widget.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	// Ensure single instance
	if err := ensureSingleInstance(); err != nil {
		log.Fatalf("Failed to ensure single instance: %v", err)
	}
	defer cleanup()

	settingsPath := settingsFile
	if len(os.Args) > 1 {
		settingsPath = os.Args[1]
	}

	// GTK must be up before any warning dialog can be shown.
	gtk.Init(nil)

	store, err := config.Open(settingsPath)
	if err != nil {
		log.Printf("Failed to load settings: %v", err)
		showWarning(err.Error())
		cleanup()
		os.Exit(exitBadSettings)
	}

	machine := status.NewMachine()

	if err := store.Settings().Validate(); err != nil {
		log.Printf("Settings validation failed: %v", err)
		showWarning(err.Error())
		cleanup()
		switch {
		case errors.Is(err, config.ErrMissingAuth):
			os.Exit(exitMissingAuth)
		case errors.Is(err, config.ErrDisplayConflict):
			os.Exit(exitDisplayConflict)
		default:
			os.Exit(exitBadSettings)
		}
	}

	if err := machine.Validate(); err != nil {
		log.Fatalf("Failed to mark settings validated: %v", err)
	}

	// Create application
	app, err := widget.NewApp(store, machine)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Run application
	if err := app.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}

	os.Exit(0)
}
