// Package source loads poll observations from CSV files or a PostgreSQL
// table and normalises pollster names against the reference registry.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrissnell/polltrend/internal/refdata"
	"github.com/chrissnell/polltrend/internal/types"
)

// ErrUnknownVoterType is returned for a voter type a source has no data for.
var ErrUnknownVoterType = errors.New("unknown voter type")

// Source loads every observation for one voter type.
type Source interface {
	Observations(ctx context.Context, voterType types.VoterType) ([]types.Observation, error)
}

// ParseVoterType accepts the configured voter type names, including the
// mandate projection dataset. An empty string selects all voters.
func ParseVoterType(s string) (types.VoterType, error) {
	switch types.VoterType(s) {
	case "", types.AllVoters:
		return types.AllVoters, nil
	case types.SureVoters:
		return types.SureVoters, nil
	case types.MandateProjections:
		return types.MandateProjections, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVoterType, s)
	}
}

// normalise maps a pollster alias to its registered name. Unregistered names
// are kept as they are; the group filter drops them later.
func normalise(reg *refdata.Registry, name string) types.Pollster {
	if reg != nil {
		if canonical, ok := reg.Canonical(name); ok {
			return canonical
		}
	}
	return types.Pollster(name)
}
