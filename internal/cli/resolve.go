package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/service"
)

// entityRef is what the resolvers match user input against.
type entityRef struct {
	ID   string
	Name string
}

// matchRef resolves input against refs by, in order: exact ID, exact name
// (case-insensitive), then unique ID prefix.
func matchRef(kind, input string, refs []entityRef) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s is required", kind)
	}
	for _, r := range refs {
		if r.ID == input {
			return r.ID, nil
		}
	}

	var byName []string
	for _, r := range refs {
		if strings.EqualFold(r.Name, input) {
			byName = append(byName, r.ID)
		}
	}
	switch len(byName) {
	case 1:
		return byName[0], nil
	case 0:
	default:
		return "", fmt.Errorf("%s name %q is ambiguous (%d matches); use the ID", kind, input, len(byName))
	}

	var byPrefix []string
	for _, r := range refs {
		if strings.HasPrefix(r.ID, input) {
			byPrefix = append(byPrefix, r.ID)
		}
	}
	switch len(byPrefix) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return byPrefix[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(byPrefix))
	}
}

func resolveSiteID(ctx context.Context, app *App, input string) (string, error) {
	sites, err := app.Tracker.ListSites(ctx)
	if err != nil {
		return "", err
	}
	refs := make([]entityRef, 0, len(sites))
	for _, s := range sites {
		refs = append(refs, entityRef{ID: s.ID, Name: s.Name})
	}
	return matchRef("site", input, refs)
}

// resolveSiteOrSelected resolves --site, falling back to the selected site.
func resolveSiteOrSelected(ctx context.Context, app *App, input string) (string, error) {
	if input != "" {
		return resolveSiteID(ctx, app, input)
	}
	if id := app.Tracker.SelectedSiteID(ctx); id != "" {
		return id, nil
	}
	return "", service.ErrNoSiteSelected
}

// resolveNodeID resolves a hierarchy node. When siteID is set, only that
// site's nodes are considered.
func resolveNodeID(ctx context.Context, app *App, level domain.NodeLevel, input, siteID string) (string, error) {
	snap, err := app.Tracker.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	var refs []entityRef
	for _, n := range snap.Nodes(level) {
		if siteID == "" || n.SiteID == siteID {
			refs = append(refs, entityRef{ID: n.ID, Name: n.Name})
		}
	}
	return matchRef(string(level), input, refs)
}

func resolveTaskID(ctx context.Context, app *App, input, siteID string) (string, error) {
	snap, err := app.Tracker.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	var refs []entityRef
	for _, t := range snap.Tasks {
		if siteID == "" || t.SiteID == siteID {
			refs = append(refs, entityRef{ID: t.ID, Name: t.Name})
		}
	}
	return matchRef("task", input, refs)
}
