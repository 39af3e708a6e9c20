// Package app wires together configuration, the dataset loader, and other
// dependencies into a single Deps struct that commands receive at runtime.
package app

import (
	"context"
	"log/slog"

	"github.com/derickschaefer/gapview/internal/config"
	"github.com/derickschaefer/gapview/internal/dataset"
	"github.com/derickschaefer/gapview/internal/model"
	"github.com/derickschaefer/gapview/internal/view"
)

// Deps holds all runtime dependencies injected into command Run functions.
type Deps struct {
	Config *config.Config
	Loader *dataset.Loader
}

// New builds a Deps from resolved config.
func New(cfg *config.Config) *Deps {
	return &Deps{
		Config: cfg,
		Loader: dataset.NewLoader(cfg.Timeout, cfg.Rate, cfg.Debug),
	}
}

// LoadDataset validates the config and loads the configured dataset.
// Load warnings are logged and returned for the command to surface.
func (d *Deps) LoadDataset(ctx context.Context) (*model.Dataset, []string, error) {
	if err := d.Config.Validate(); err != nil {
		return nil, nil, err
	}
	ds, warnings, err := d.Loader.Load(ctx, d.Config.DataPath)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		slog.Warn("dataset", "source", ds.Source, "warning", w)
	}
	return ds, warnings, nil
}

// NewApp builds the interactive views over ds using the configured
// category column. A missing category column is not an error here; the line
// view reports it when drawn while the scatter view still renders.
func (d *Deps) NewApp(ds *model.Dataset, opts view.Options) *view.App {
	if opts.CategoryColumn == "" {
		opts.CategoryColumn = d.Config.CategoryColumn
	}
	return view.NewApp(ds, opts)
}
