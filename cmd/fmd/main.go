// Package main is the entry point for the FMD dashboard TUI. It loads
// configuration, starts the background services, and runs the Bubble Tea
// program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgs-kpis/fmd-dashboard/internal/app"
	"github.com/dgs-kpis/fmd-dashboard/internal/config"
	"github.com/dgs-kpis/fmd-dashboard/internal/services"
	"github.com/dgs-kpis/fmd-dashboard/internal/ui/tabs/buildings"
	"github.com/dgs-kpis/fmd-dashboard/internal/ui/tabs/dashboard"
	"github.com/dgs-kpis/fmd-dashboard/internal/ui/tabs/info"
	"github.com/dgs-kpis/fmd-dashboard/internal/ui/tabs/trends"
	"github.com/dgs-kpis/fmd-dashboard/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Starts the catalog poller, the workbook watcher, and the metrics cache.
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	// Each tab reads the shared application state.
	state := model.GetState()
	tabs := []app.Tab{
		dashboard.New(state),
		trends.New(state),
		buildings.New(state),
		info.New(state, cfg),
	}
	model.SetTabs(tabs)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`FMD Dashboard - DGS maintenance work order analytics

Usage:
  fmd [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-4             Switch between tabs (Dashboard, Trends, Buildings, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  Enter           Select/confirm
  r               Fetch the latest export
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  DATAWORLD_API_TOKEN      data.world API token (required)
  DATAWORLD_DATASET        Dataset slug (default: dgs-kpis/fmd-maintenance)
  DATAWORLD_TABLE          Table name (default: archibus_maintenance_data)
  GEOCODE_XLSX_PATH        Building reference workbook path
  DATABASE_PATH            SQLite cache path
  FISCAL_YEAR_START_MONTH  First month of the fiscal year (default: 7)
  REFRESH_INTERVAL         Catalog polling interval (default: 15m)
  ONTIME_ALERT_THRESHOLD   On-time percentage that triggers alerts (default: 50)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/fmd-dashboard/.env
  - ~/.fmd-dashboard/.env`)
}
