package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sitetrack/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSiteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Manage construction sites",
	}

	cmd.AddCommand(
		newSiteAddCmd(app),
		newSiteListCmd(app),
		newSiteSelectCmd(app),
		newSiteRemoveCmd(app),
	)

	return cmd
}

func newSiteAddCmd(app *App) *cobra.Command {
	var selectIt bool

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a new site",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			if strings.TrimSpace(name) == "" {
				if !app.interactive() {
					return fmt.Errorf("site name is required")
				}
				if err := wizardInputText("Site name", "e.g. North Yard", true, &name).Run(); err != nil {
					return err
				}
			}

			site, err := app.Tracker.CreateSite(ctx, name)
			if err != nil && site == nil {
				return err
			}
			if err := finish(cmd, err, fmt.Sprintf("Site '%s' added! (%s)", site.Name, site.DisplayID())); err != nil {
				return err
			}
			if selectIt {
				return finish(cmd, app.Tracker.SelectSite(ctx, site.ID), fmt.Sprintf("Selected '%s'.", site.Name))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&selectIt, "select", false, "Select the new site")

	return cmd
}

func newSiteListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sites, err := app.Tracker.ListSites(ctx)
			if err != nil {
				return err
			}
			if len(sites) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No sites yet. Add one with 'sitetrack site add NAME'."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSiteList(sites, app.Tracker.SelectedSiteID(ctx)))
			return nil
		},
	}
}

func newSiteSelectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select [SITE]",
		Short: "Select the site that commands act on by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var siteID string
			if len(args) == 1 {
				id, err := resolveSiteID(ctx, app, args[0])
				if err != nil {
					return err
				}
				siteID = id
			} else {
				if !app.interactive() {
					return fmt.Errorf("site is required")
				}
				sites, err := app.Tracker.ListSites(ctx)
				if err != nil {
					return err
				}
				form := wizardSelectSite(sites, &siteID)
				if form == nil {
					return fmt.Errorf("no sites to select")
				}
				if err := form.Run(); err != nil {
					return err
				}
			}

			err := app.Tracker.SelectSite(ctx, siteID)
			return finish(cmd, err, fmt.Sprintf("Selected site %s.", formatter.TruncID(siteID)))
		},
	}
}

func newSiteRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove SITE",
		Aliases: []string{"rm"},
		Short:   "Delete a site with all of its phases, sections and tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			siteID, err := resolveSiteID(ctx, app, args[0])
			if err != nil {
				return err
			}

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete without --yes")
				}
				confirmed := false
				if err := wizardConfirm("Delete this site and everything under it?", &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			err = app.Tracker.DeleteSite(ctx, siteID)
			return finish(cmd, err, fmt.Sprintf("Site %s deleted.", formatter.TruncID(siteID)))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
