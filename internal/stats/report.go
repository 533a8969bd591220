package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/rapidread/internal/model"
	"github.com/verte-zerg/rapidread/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Reads  []model.ReadRecord
	Window int
}

// BuildReport loads reads matching cfg, oldest first.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	reads, err := st.ListReads(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(reads) > cfg.Last {
		reads = reads[len(reads)-cfg.Last:]
	}
	return Report{Reads: reads, Window: cfg.Window}, nil
}

// Render writes the summary, the per-read table and the trend line.
func (r Report) Render(w io.Writer, width int) error {
	if err := RenderSummary(w, r.Reads); err != nil {
		return err
	}
	if err := RenderReads(w, r.Reads); err != nil {
		return err
	}
	return RenderTrend(w, r.Reads, r.Window, width)
}
