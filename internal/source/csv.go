package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/chrissnell/polltrend/internal/refdata"
	"github.com/chrissnell/polltrend/internal/types"
)

// CSVSource reads one wide-format CSV file per voter type. The header names
// a date column, a pollster column, an optional url column and one column
// per party holding its share as a fraction. Empty cells are unreported.
type CSVSource struct {
	files    map[types.VoterType]string
	registry *refdata.Registry
	logger   *zap.SugaredLogger
}

func NewCSVSource(files map[types.VoterType]string, reg *refdata.Registry, logger *zap.SugaredLogger) *CSVSource {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &CSVSource{files: files, registry: reg, logger: logger}
}

// Files returns the paths this source reads, for watching.
func (s *CSVSource) Files() []string {
	out := make([]string, 0, len(s.files))
	for _, path := range s.files {
		out = append(out, path)
	}
	return out
}

func (s *CSVSource) Observations(ctx context.Context, voterType types.VoterType) ([]types.Observation, error) {
	path, ok := s.files[voterType]
	if !ok {
		return nil, fmt.Errorf("%w: no CSV file for %s", ErrUnknownVoterType, voterType)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open poll file: %w", err)
	}
	defer f.Close()

	obs, err := s.parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.logger.Debugw("loaded polls", "file", path, "voterType", voterType, "observations", len(obs))
	return obs, nil
}

func (s *CSVSource) parse(ctx context.Context, r io.Reader) ([]types.Observation, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	dateCol, pollsterCol, urlCol := -1, -1, -1
	parties := make(map[int]types.Party)
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch strings.ToLower(name) {
		case "date":
			dateCol = i
		case "pollster":
			pollsterCol = i
		case "url", "source":
			urlCol = i
		default:
			if name != "" {
				parties[i] = types.Party(name)
			}
		}
	}
	if dateCol < 0 || pollsterCol < 0 {
		return nil, fmt.Errorf("header must have date and pollster columns, got %v", header)
	}

	var obs []types.Observation
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(record) <= dateCol || len(record) <= pollsterCol {
			return nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, max(dateCol, pollsterCol)+1, len(record))
		}

		date, err := types.ParseDay(record[dateCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		o := types.Observation{
			Date:     date,
			Pollster: normalise(s.registry, strings.TrimSpace(record[pollsterCol])),
			Values:   make(map[types.Party]float64),
		}
		if urlCol >= 0 && urlCol < len(record) {
			o.URL = strings.TrimSpace(record[urlCol])
		}

		for i, party := range parties {
			if i >= len(record) {
				continue
			}
			cell := strings.TrimSpace(record[i])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				s.logger.Warnw("skipping unparseable share", "line", line, "party", party, "value", cell)
				continue
			}
			o.Values[party] = v
		}

		obs = append(obs, o)
	}

	return obs, nil
}
