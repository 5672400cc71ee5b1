package pipeline

import (
	"context"

	"github.com/vvka-141/pgload/internal/ingest"
	"github.com/vvka-141/pgload/pkg/pgload"
)

// Loader is the part of ingest.Service used by the load step.
type Loader interface {
	Load(ctx context.Context, req ingest.LoadRequest) (pgload.LoadResult, error)
}

// LoadRunner runs the bulk event load as a pipeline step.
type LoadRunner struct {
	loader  Loader
	request ingest.LoadRequest
	logger  pgload.Logger
}

// NewLoadRunner creates a LoadRunner that always loads req.
func NewLoadRunner(loader Loader, req ingest.LoadRequest, logger pgload.Logger) *LoadRunner {
	return &LoadRunner{loader: loader, request: req, logger: logger}
}

// Run loads the events file and reports the committed row count.
func (r *LoadRunner) Run(ctx context.Context, step pgload.Step) error {
	res, err := r.loader.Load(ctx, r.request)
	if err != nil {
		return err
	}
	r.logger.Info("Loaded %d rows into %s", res.Rows, res.Table)
	return nil
}

var _ pgload.StepRunner = (*LoadRunner)(nil)
