package config

import (
	"errors"
	"fmt"
)

// ErrChartNotFound is returned when a chart id is not in the catalogue.
var ErrChartNotFound = errors.New("chart not found")

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetParties() ([]PartyData, error)
	GetPollsters() ([]PollsterData, error)
	GetCharts() ([]ChartData, error)
	GetChart(id string) (*ChartData, error)
	GetSource() (*SourceData, error)

	IsReadOnly() bool
	Close() error
}

// Backends accepted by Open.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Open returns the provider for backend reading from path.
func Open(backend, path string) (ConfigProvider, error) {
	switch backend {
	case BackendYAML, "":
		return NewYAMLProvider(path), nil
	case BackendSQLite:
		p, err := NewSQLiteProvider(path)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown config backend %q", backend)
	}
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Parties   []PartyData    `json:"parties"`
	Pollsters []PollsterData `json:"pollsters"`
	Charts    []ChartData    `json:"charts,omitempty"`
	Source    SourceData     `json:"source,omitempty"`
}

// PartyData is a party's display metadata. Order is significant: it is the
// order parties are listed in.
type PartyData struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Color      string       `json:"color,omitempty"`
	LightColor string       `json:"light_color,omitempty"`
	Windows    []WindowData `json:"windows,omitempty"`
}

// WindowData is a YYYY-MM-DD interval in which a party's readings count.
type WindowData struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type PollsterData struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name,omitempty"`
	Group       string   `json:"group"`
	Aliases     []string `json:"aliases,omitempty"`
}

// ChartData is one entry of the chart catalogue.
type ChartData struct {
	ID            string   `json:"id"`
	Title         string   `json:"title,omitempty"`
	Parties       []string `json:"parties"`
	PollsterGroup string   `json:"pollster_group,omitempty"`
	VoterType     string   `json:"voter_type,omitempty"`
	StartDate     string   `json:"start_date,omitempty"`
	// EndDate is empty for charts that run until today
	EndDate     string    `json:"end_date,omitempty"`
	Smoothing   string    `json:"smoothing,omitempty"`
	ValueLimits []float64 `json:"value_limits,omitempty"`
	PerPollster bool      `json:"per_pollster,omitempty"`
	// MandateProjection charts read seat projections instead of poll shares
	MandateProjection bool             `json:"mandate_projection,omitempty"`
	Featured          bool             `json:"featured,omitempty"`
	Annotations       []AnnotationData `json:"annotations,omitempty"`
}

type AnnotationData struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Date     string `json:"date"`
	LineType string `json:"line_type,omitempty"`
}

// SourceData says where observations are read from. Exactly one of the
// backends is expected to be set.
type SourceData struct {
	CSV      *CSVSourceData      `json:"csv,omitempty"`
	Postgres *PostgresSourceData `json:"postgres,omitempty"`
}

// CSVSourceData maps a voter type (or mandate_projections) to the CSV file
// holding its rows.
type CSVSourceData struct {
	Files map[string]string `json:"files"`
}

type PostgresSourceData struct {
	ConnectionString string `json:"connection_string"`
	Table            string `json:"table,omitempty"`
}

// FindChart returns the chart with the given id.
func (c *ConfigData) FindChart(id string) (*ChartData, error) {
	for i := range c.Charts {
		if c.Charts[i].ID == id {
			return &c.Charts[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrChartNotFound, id)
}
