package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/chrissnell/polltrend/internal/database"
	"github.com/chrissnell/polltrend/internal/refdata"
	"github.com/chrissnell/polltrend/internal/types"
)

// RowFetcher returns long-format poll rows for a voter type.
// *database.Client implements it.
type RowFetcher interface {
	FetchPollRows(ctx context.Context, voterType string) ([]database.PollRow, error)
}

// PostgresSource reads observations from a long-format poll table.
type PostgresSource struct {
	rows     RowFetcher
	registry *refdata.Registry
	logger   *zap.SugaredLogger
}

func NewPostgresSource(rows RowFetcher, reg *refdata.Registry, logger *zap.SugaredLogger) *PostgresSource {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &PostgresSource{rows: rows, registry: reg, logger: logger}
}

func (s *PostgresSource) Observations(ctx context.Context, voterType types.VoterType) ([]types.Observation, error) {
	rows, err := s.rows.FetchPollRows(ctx, string(voterType))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch polls: %w", err)
	}

	obs := s.group(rows)
	s.logger.Debugw("loaded polls", "voterType", voterType, "rows", len(rows), "observations", len(obs))
	return obs, nil
}

type pollKey struct {
	date     string
	pollster types.Pollster
	url      string
}

// group folds rows sharing a day, pollster and url into one observation,
// keeping the order in which each poll first appears.
func (s *PostgresSource) group(rows []database.PollRow) []types.Observation {
	index := make(map[pollKey]int)
	var obs []types.Observation

	for _, r := range rows {
		day := types.Day(r.Date)
		key := pollKey{
			date:     day.Format(types.DayLayout),
			pollster: normalise(s.registry, r.Pollster),
			url:      r.URL,
		}

		i, ok := index[key]
		if !ok {
			i = len(obs)
			index[key] = i
			obs = append(obs, types.Observation{
				Date:     day,
				Pollster: key.pollster,
				URL:      r.URL,
				Values:   make(map[types.Party]float64),
			})
		}
		obs[i].Values[types.Party(r.Party)] = r.Share
	}
	return obs
}
