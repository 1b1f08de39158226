package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joshuapare/memtag/cmd/tagmon/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	args := os.Args[1:]
	debugMode := false
	seed := time.Now().UnixNano()

	filteredArgs := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--debug", "-d":
			debugMode = true
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --seed requires a value")
				os.Exit(1)
			}
			i++
			v, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: bad seed %q: %v\n", args[i], err)
				os.Exit(1)
			}
			seed = v
		default:
			filteredArgs = append(filteredArgs, args[i])
		}
	}

	// Initialize logger (must be before any logging calls)
	if err := logger.Init(logger.Options{
		Enabled: debugMode,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}

	if len(filteredArgs) > 0 {
		switch filteredArgs[0] {
		case "--help", "-h":
			printHelp()
			os.Exit(0)
		case "--version", "-v":
			fmt.Printf("tagmon %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built: %s\n", date)
			os.Exit(0)
		default:
			printUsage()
			os.Exit(1)
		}
	}

	logger.Info("starting tagmon", "seed", seed, "debug", debugMode)

	m := NewModel(seed)
	if m.err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", m.err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	// Clean up resources
	if model, ok := finalModel.(Model); ok {
		if err := model.Close(); err != nil {
			logger.Error("error closing arena", "error", err)
		}
	}

	logger.Info("tagmon exited normally")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: tagmon [options]\n")
	fmt.Fprintf(os.Stderr, "Try 'tagmon --help' for more information.\n")
}

func printHelp() {
	fmt.Println("tagmon - Live Monitor for the Tagged Allocation Table")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  tagmon [options]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Runs a synthetic allocate/free workload against an in-process tagged")
	fmt.Println("  allocation tracker and renders the slot table live in the terminal.")
	fmt.Println()
	fmt.Println("  Features:")
	fmt.Println("    - Slot grid colored by allocation tag")
	fmt.Println("    - Per-tag live byte aggregation")
	fmt.Println("    - Table growth, fragmentation, and shrink visible in real time")
	fmt.Println("    - Pause, single-step, and speed controls")
	fmt.Println()
	fmt.Println("  Controls:")
	fmt.Println("    space/p     Pause/resume the workload")
	fmt.Println("    s           Single step one batch (while paused)")
	fmt.Println("    +/-         More/fewer operations per tick")
	fmt.Println("    r           Free everything and restart the workload")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  --seed N       Seed for the synthetic workload (default: current time)")
	fmt.Println("  -d, --debug    Enable debug logging to ~/.tagmon/logs/")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  -v, --version  Show version information")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  tagmon")
	fmt.Println("  tagmon --seed 42 --debug")
	fmt.Println()
	fmt.Println("For scripted runs and one-shot reports, use the 'tagctl' command instead.")
}
