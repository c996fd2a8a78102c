package app

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chrissnell/polltrend/internal/chart"
	"github.com/chrissnell/polltrend/internal/series"
	"github.com/chrissnell/polltrend/internal/types"
	"github.com/chrissnell/polltrend/pkg/config"
	"github.com/chrissnell/polltrend/pkg/responseformat"
)

// ChartInfo identifies the catalogue entry a document was computed for.
type ChartInfo struct {
	ID            string              `json:"id"`
	Title         string              `json:"title,omitempty"`
	VoterType     types.VoterType     `json:"voterType"`
	PollsterGroup types.PollsterGroup `json:"pollsterGroup"`
	Featured      bool                `json:"featured,omitempty"`
}

// ChartDocument is everything a renderer needs to draw one chart.
type ChartDocument struct {
	Chart      ChartInfo                `json:"chart"`
	SnapshotID string                   `json:"snapshotId"`
	Series     []types.SeriesDescriptor `json:"series"`
	series.Result
	Axis        types.AxisParams   `json:"axis"`
	Annotations []types.Annotation `json:"annotations"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// NewChartDocument builds the document for a snapshot.
func NewChartDocument(info ChartInfo, snap *chart.Snapshot) ChartDocument {
	return ChartDocument{
		Chart:       info,
		SnapshotID:  snap.ID,
		Series:      snap.Series,
		Result:      snap.Result,
		Axis:        snap.Axis,
		Annotations: snap.Annotations,
		GeneratedAt: snap.ComputedAt,
	}
}

func chartInfo(c config.ChartData, opts chart.Options, voterType types.VoterType) ChartInfo {
	return ChartInfo{
		ID:            c.ID,
		Title:         c.Title,
		VoterType:     voterType,
		PollsterGroup: opts.PollsterGroup,
		Featured:      c.Featured,
	}
}

// documentWriter is the chart.Renderer of the command line tool: every new
// snapshot is encoded and written out. With an empty dir, documents go to
// out one after another.
type documentWriter struct {
	mu        *sync.Mutex
	info      ChartInfo
	dir       string
	out       io.Writer
	format    responseformat.Format
	formatter *responseformat.Formatter
	logger    *zap.SugaredLogger
	err       error
}

func (w *documentWriter) UpdateData(s *chart.Snapshot) {
	w.write(s)
}

// UpdateAxis is a no-op: the command line tool never changes annotations on
// a live session, so every axis it sees arrives with a snapshot.
func (w *documentWriter) UpdateAxis(types.AxisParams) {}

func (w *documentWriter) Render(s *chart.Snapshot) {
	w.write(s)
}

// Err returns the last write error.
func (w *documentWriter) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *documentWriter) write(s *chart.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var buf bytes.Buffer
	if err := w.formatter.Write(&buf, w.format, NewChartDocument(w.info, s)); err != nil {
		w.err = fmt.Errorf("failed to encode chart %s: %w", w.info.ID, err)
		w.logger.Error(w.err)
		return
	}

	if w.dir == "" {
		if _, err := w.out.Write(buf.Bytes()); err != nil {
			w.err = fmt.Errorf("failed to write chart %s: %w", w.info.ID, err)
			w.logger.Error(w.err)
		}
		return
	}

	path := filepath.Join(w.dir, w.info.ID+w.format.Extension())
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		w.err = fmt.Errorf("failed to write chart %s: %w", w.info.ID, err)
		w.logger.Error(w.err)
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		w.err = fmt.Errorf("failed to write chart %s: %w", w.info.ID, err)
		w.logger.Error(w.err)
		return
	}
	w.logger.Infow("wrote chart", "chart", w.info.ID, "file", path, "snapshot", s.ID)
}
