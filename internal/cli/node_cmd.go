package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/spf13/cobra"
)

// nodeAdder creates a node of one level beneath parentID.
type nodeAdder func(ctx context.Context, parentID, name string) (*domain.HierarchyNode, error)

type nodeCmdDef struct {
	level      domain.NodeLevel
	title      string
	parentFlag string
	add        func(app *App) nodeAdder
}

func newPhaseCmd(app *App) *cobra.Command {
	return newNodeCmd(app, nodeCmdDef{
		level:      domain.LevelPhase,
		title:      "Phase",
		parentFlag: "site",
		add: func(app *App) nodeAdder {
			return app.Tracker.CreatePhase
		},
	})
}

func newSectionCmd(app *App) *cobra.Command {
	return newNodeCmd(app, nodeCmdDef{
		level:      domain.LevelSection,
		title:      "Section",
		parentFlag: "phase",
		add: func(app *App) nodeAdder {
			return app.Tracker.CreateSection
		},
	})
}

func newSubsectionCmd(app *App) *cobra.Command {
	return newNodeCmd(app, nodeCmdDef{
		level:      domain.LevelSubsection,
		title:      "Subsection",
		parentFlag: "section",
		add: func(app *App) nodeAdder {
			return app.Tracker.CreateSubsection
		},
	})
}

func newNodeCmd(app *App, def nodeCmdDef) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(def.level),
		Short: fmt.Sprintf("Manage %ss", def.level),
	}
	cmd.AddCommand(newNodeAddCmd(app, def))
	return cmd
}

func newNodeAddCmd(app *App, def nodeCmdDef) *cobra.Command {
	var parentRef string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: fmt.Sprintf("Add a %s", def.level),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			if strings.TrimSpace(name) == "" {
				if !app.interactive() {
					return fmt.Errorf("%s name is required", def.level)
				}
				if err := wizardInputText(def.title+" name", "", true, &name).Run(); err != nil {
					return err
				}
			}

			parentID, err := resolveNodeParent(ctx, app, def, parentRef)
			if err != nil {
				return err
			}

			node, err := def.add(app)(ctx, parentID, name)
			if err != nil && node == nil {
				return err
			}
			return finish(cmd, err, fmt.Sprintf("%s '%s' added! (%s)", def.title, node.Name, node.DisplayID()))
		},
	}

	usage := fmt.Sprintf("Parent %s (ID, name or ID prefix)", def.parentFlag)
	if def.level == domain.LevelPhase {
		usage = "Site (default: selected site)"
	}
	cmd.Flags().StringVar(&parentRef, def.parentFlag, "", usage)

	return cmd
}

// resolveNodeParent turns the parent flag into an ID. Phases default to the
// selected site; sections and subsections need an explicit parent.
func resolveNodeParent(ctx context.Context, app *App, def nodeCmdDef, ref string) (string, error) {
	if def.level == domain.LevelPhase {
		return resolveSiteOrSelected(ctx, app, ref)
	}
	if ref == "" {
		return "", fmt.Errorf("--%s is required", def.parentFlag)
	}
	scope := app.Tracker.SelectedSiteID(ctx)
	id, err := resolveNodeID(ctx, app, def.level.ParentLevel(), ref, scope)
	if err != nil && scope != "" {
		// The parent may belong to a site other than the selected one.
		return resolveNodeID(ctx, app, def.level.ParentLevel(), ref, "")
	}
	return id, err
}
