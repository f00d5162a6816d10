// Package cli wires configuration, logging and local state into the
// terminal client.
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"obra/internal/api"
	"obra/internal/config"
	"obra/internal/logging"
	"obra/internal/state"
	"obra/internal/ui"
)

// NewRootCmd builds the root command. With no subcommand the client
// starts the interactive TUI.
func NewRootCmd() *cobra.Command {
	var apiURL string

	cmd := &cobra.Command{
		Use:          "obra",
		Short:        "Gerenciador de projetos, tarefas e contratantes",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(apiURL)
		},
	}

	cmd.PersistentFlags().StringVar(&apiURL, "api", "", "Base URL da API (sobrepõe OBRA_API_URL)")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func runTUI(apiURL string) error {
	cfg := config.Load()
	if apiURL != "" {
		cfg.APIURL = apiURL
	}

	log := logging.Setup(cfg.LogFile)
	log.Info().Str("api", cfg.APIURL).Msg("starting")

	client := api.New(cfg.APIURL, log)

	// Local state is best effort: without it the app simply forgets
	// which project was open.
	store, err := state.Open(cfg.StateDB)
	if err != nil {
		log.Warn().Err(err).Msg("state db unavailable")
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	p := tea.NewProgram(ui.NewApp(client, store, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
