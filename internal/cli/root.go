package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sitetrack/internal/config"
	"github.com/alexanderramin/sitetrack/internal/service"
	"github.com/spf13/cobra"
)

// Connector builds the tracker service for a loaded configuration. The
// returned close function releases the backing store.
type Connector func(ctx context.Context, cfg *config.Config) (service.TrackerService, func() error, error)

// App holds the collaborators shared by every command.
type App struct {
	Tracker service.TrackerService
	Config  *config.Config

	// Connect is used when Tracker is nil.
	Connect Connector

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool
	// TerminalWidth returns the output width in cells, or 0 when unknown.
	TerminalWidth func() int

	closeStore func() error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// setup loads configuration and opens the tracker once per process.
func (a *App) setup(cmd *cobra.Command, configFile string) error {
	if a.Config == nil {
		cfg, err := config.Load(config.NewViper(configFile))
		if err != nil {
			return err
		}
		a.Config = cfg
	}
	if a.Tracker != nil {
		return nil
	}
	if a.Connect == nil {
		return fmt.Errorf("no tracker backend configured")
	}

	tracker, closeFn, err := a.Connect(cmd.Context(), a.Config)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", a.Config.Store.Backend, err)
	}
	a.Tracker, a.closeStore = tracker, closeFn

	if err := tracker.Open(cmd.Context()); err != nil {
		if !service.IsUnpersisted(err) {
			return err
		}
		warn(cmd, err)
	}
	return nil
}

// Close releases the store opened by setup. It is safe to call twice.
func (a *App) Close() error {
	if a.closeStore == nil {
		return nil
	}
	err := a.closeStore()
	a.closeStore = nil
	return err
}

// NewRootCmd creates the top-level "sitetrack" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "sitetrack",
		Short: "Construction progress tracker",
		Long: `Track sites, phases, sections and tasks, and see planned against actual
progress on a timeline.

Every change saves the whole state. Two sitetrack processes sharing a store
overwrite each other: the last save wins.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd, configFile)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/sitetrack/config.yaml)")

	root.AddCommand(
		newSiteCmd(app),
		newPhaseCmd(app),
		newSectionCmd(app),
		newSubsectionCmd(app),
		newTaskCmd(app),
		newTimelineCmd(app),
		newOutlineCmd(app),
		newBrowseCmd(app),
		newStatusCmd(app),
		newSnapshotCmd(app),
	)

	return root
}

// finish reports the outcome of a mutating command. An applied but unsaved
// change still prints its confirmation before the error is returned.
func finish(cmd *cobra.Command, err error, confirmation string) error {
	if err != nil && !service.IsUnpersisted(err) {
		return err
	}
	if confirmation != "" {
		fmt.Fprintln(cmd.OutOrStdout(), confirmation)
	}
	return err
}

func warn(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
}
