package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	debug := flag.Bool("debug", false, "write debug logs to a file")
	flag.Parse()

	loadEnv()
	if err := enableDebugLogging(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "debug logging unavailable: %v\n", err)
	}
	defer flushLogs()
	debugf("tertris start debug=%v", *debug)

	program := tea.NewProgram(NewModel(), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		debugf("program error: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
