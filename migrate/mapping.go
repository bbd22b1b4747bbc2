package migrate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/LegacyCodeHQ/p4migrate/project"
	"github.com/LegacyCodeHQ/p4migrate/vcs/p4"
)

// SkippedAsset is a game dependency left out of the mapping.
type SkippedAsset struct {
	Asset  string
	Reason string
}

func (s *SkippedAsset) Error() string {
	return fmt.Sprintf("%s: %s", s.Asset, s.Reason)
}

// Mapping is the branch view built from the current search.
type Mapping struct {
	View    []p4.ViewMapping
	Skipped []SkippedAsset
}

// MakeMapping maps every game dependency of the current search from its
// depot path to the same location under targetStream. Assets that are not on
// disk, outside the workspace root or not in the depot are skipped and logged.
func (m *Migrator) MakeMapping(ctx context.Context, targetStream string) (Mapping, error) {
	if m.search == nil {
		return Mapping{}, ErrNotGathered
	}
	if !strings.HasPrefix(targetStream, "//") {
		return Mapping{}, fmt.Errorf("target stream must be a depot path starting with '//': %q", targetStream)
	}
	vc, err := m.connected(ctx)
	if err != nil {
		return Mapping{}, err
	}

	workspaceRoot, err := vc.WorkspaceRoot(ctx)
	if err != nil {
		return Mapping{}, err
	}
	workspaceRoot = strings.TrimSuffix(workspaceRoot, "/")
	targetStream = strings.TrimSuffix(targetStream, "/")

	assets := m.search.GameDependencies()
	view := make([]*p4.ViewMapping, len(assets))

	var mu sync.Mutex
	var skipped *multierror.Error
	skip := func(asset, reason string) {
		mu.Lock()
		skipped = multierror.Append(skipped, &SkippedAsset{Asset: asset, Reason: reason})
		mu.Unlock()
	}

	var bar *progressbar.ProgressBar
	if m.progress != nil {
		bar = progressbar.NewOptions(len(assets),
			progressbar.OptionSetWriter(m.progress),
			progressbar.OptionSetDescription("mapping assets"),
			progressbar.OptionClearOnFinish())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, asset := range assets {
		i, asset := i, asset
		g.Go(func() error {
			if bar != nil {
				defer bar.Add(1)
			}

			onDisk, err := m.project.OnDiskPath(asset)
			if errors.Is(err, project.ErrNotOnDisk) {
				skip(asset, "not found on disk")
				return nil
			}
			if err != nil {
				return err
			}
			if !strings.HasPrefix(onDisk, workspaceRoot+"/") {
				skip(asset, fmt.Sprintf("%s is outside the workspace root %s", onDisk, workspaceRoot))
				return nil
			}

			source, ok, err := vc.Where(gctx, onDisk)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				skip(asset, err.Error())
				return nil
			}
			if !ok {
				skip(asset, fmt.Sprintf("%s does not exist on the depot", onDisk))
				return nil
			}

			target := targetStream + strings.TrimPrefix(onDisk, workspaceRoot)
			view[i] = &p4.ViewMapping{Source: source, Target: m.remap.apply(target)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Mapping{}, err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	mapping := Mapping{View: make([]p4.ViewMapping, 0, len(view))}
	for _, v := range view {
		if v != nil {
			mapping.View = append(mapping.View, *v)
		}
	}

	if skipped != nil {
		for _, e := range skipped.Errors {
			var s *SkippedAsset
			if errors.As(e, &s) {
				mapping.Skipped = append(mapping.Skipped, *s)
				m.log.Warnf("skipping %s", s.Error())
			}
		}
		sortSkipped(mapping.Skipped)
	}

	return mapping, nil
}

// CreateBranchMapping builds the mapping and stores it in the branch spec
// called name. With dryRun the spec is returned but not saved.
func (m *Migrator) CreateBranchMapping(ctx context.Context, name, targetStream string, dryRun bool) (p4.BranchSpec, Mapping, error) {
	if m.search == nil {
		m.log.Error("Can't create branch mapping. Dependencies not yet gathered.")
		return p4.BranchSpec{}, Mapping{}, ErrNotGathered
	}

	mapping, err := m.MakeMapping(ctx, targetStream)
	if err != nil {
		return p4.BranchSpec{}, Mapping{}, err
	}

	spec, err := m.vc.FetchBranch(ctx, name)
	if err != nil {
		m.log.Errorf("Failed to create branch mapping. Perforce Error: %v", err)
		return p4.BranchSpec{}, mapping, err
	}
	spec.View = mapping.View

	if dryRun {
		m.log.Infof("dry run: branch mapping %s not saved", name)
		return spec, mapping, nil
	}

	if err := m.vc.SaveBranch(ctx, spec); err != nil {
		m.log.Errorf("Failed to create branch mapping. Perforce Error: %v", err)
		return spec, mapping, err
	}
	m.log.Info("Branch mapping successfully created.")
	return spec, mapping, nil
}

func sortSkipped(skipped []SkippedAsset) {
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].Asset < skipped[j].Asset })
}
