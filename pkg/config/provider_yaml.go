package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from YAML file
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	// Load into temporary struct with YAML tags
	var yamlConfig struct {
		Parties   []PartyYAML    `yaml:"parties"`
		Pollsters []PollsterYAML `yaml:"pollsters"`
		Charts    []ChartYAML    `yaml:"charts,omitempty"`
		Source    SourceYAML     `yaml:"source,omitempty"`
	}

	err = yaml.Unmarshal(cfgFile, &yamlConfig)
	if err != nil {
		return nil, err
	}

	config := &ConfigData{
		Parties:   make([]PartyData, len(yamlConfig.Parties)),
		Pollsters: make([]PollsterData, len(yamlConfig.Pollsters)),
		Charts:    make([]ChartData, len(yamlConfig.Charts)),
	}

	for i, p := range yamlConfig.Parties {
		config.Parties[i] = PartyData{
			ID:         p.ID,
			Name:       p.Name,
			Color:      p.Color,
			LightColor: p.LightColor,
		}
		for _, w := range p.Windows {
			config.Parties[i].Windows = append(config.Parties[i].Windows, WindowData{Start: w.Start, End: w.End})
		}
	}

	for i, p := range yamlConfig.Pollsters {
		config.Pollsters[i] = PollsterData{
			Name:        p.Name,
			DisplayName: p.DisplayName,
			Group:       p.Group,
			Aliases:     p.Aliases,
		}
	}

	for i, c := range yamlConfig.Charts {
		config.Charts[i] = ChartData{
			ID:                c.ID,
			Title:             c.Title,
			Parties:           c.Parties,
			PollsterGroup:     c.PollsterGroup,
			VoterType:         c.VoterType,
			StartDate:         c.StartDate,
			EndDate:           c.EndDate,
			Smoothing:         c.Smoothing,
			ValueLimits:       c.ValueLimits,
			PerPollster:       c.PerPollster,
			MandateProjection: c.MandateProjection,
			Featured:          c.Featured,
		}
		for _, a := range c.Annotations {
			config.Charts[i].Annotations = append(config.Charts[i].Annotations, AnnotationData{
				ID:       a.ID,
				Text:     a.Text,
				Date:     a.Date,
				LineType: a.LineType,
			})
		}
	}

	if yamlConfig.Source.CSV != nil {
		config.Source.CSV = &CSVSourceData{Files: yamlConfig.Source.CSV.Files}
	}
	if yamlConfig.Source.Postgres != nil {
		config.Source.Postgres = &PostgresSourceData{
			ConnectionString: yamlConfig.Source.Postgres.ConnectionString,
			Table:            yamlConfig.Source.Postgres.Table,
		}
	}

	y.config = config
	return config, nil
}

func (y *YAMLProvider) loaded() (*ConfigData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return y.config, nil
}

func (y *YAMLProvider) GetParties() ([]PartyData, error) {
	c, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return c.Parties, nil
}

func (y *YAMLProvider) GetPollsters() ([]PollsterData, error) {
	c, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return c.Pollsters, nil
}

func (y *YAMLProvider) GetCharts() ([]ChartData, error) {
	c, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return c.Charts, nil
}

func (y *YAMLProvider) GetChart(id string) (*ChartData, error) {
	c, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return c.FindChart(id)
}

func (y *YAMLProvider) GetSource() (*SourceData, error) {
	c, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return &c.Source, nil
}

func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

func (y *YAMLProvider) Close() error {
	return nil
}

type PartyYAML struct {
	ID         string       `yaml:"id"`
	Name       string       `yaml:"name"`
	Color      string       `yaml:"color,omitempty"`
	LightColor string       `yaml:"light-color,omitempty"`
	Windows    []WindowYAML `yaml:"windows,omitempty"`
}

type WindowYAML struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type PollsterYAML struct {
	Name        string   `yaml:"name"`
	DisplayName string   `yaml:"display-name,omitempty"`
	Group       string   `yaml:"group"`
	Aliases     []string `yaml:"aliases,omitempty"`
}

type ChartYAML struct {
	ID                string           `yaml:"id"`
	Title             string           `yaml:"title,omitempty"`
	Parties           []string         `yaml:"parties"`
	PollsterGroup     string           `yaml:"pollster-group,omitempty"`
	VoterType         string           `yaml:"voter-type,omitempty"`
	StartDate         string           `yaml:"start-date,omitempty"`
	EndDate           string           `yaml:"end-date,omitempty"`
	Smoothing         string           `yaml:"smoothing,omitempty"`
	ValueLimits       []float64        `yaml:"value-limits,omitempty"`
	PerPollster       bool             `yaml:"per-pollster,omitempty"`
	MandateProjection bool             `yaml:"mandate-projection,omitempty"`
	Featured          bool             `yaml:"featured,omitempty"`
	Annotations       []AnnotationYAML `yaml:"annotations,omitempty"`
}

type AnnotationYAML struct {
	ID       string `yaml:"id"`
	Text     string `yaml:"text"`
	Date     string `yaml:"date"`
	LineType string `yaml:"line-type,omitempty"`
}

type SourceYAML struct {
	CSV      *CSVSourceYAML      `yaml:"csv,omitempty"`
	Postgres *PostgresSourceYAML `yaml:"postgres,omitempty"`
}

type CSVSourceYAML struct {
	Files map[string]string `yaml:"files"`
}

type PostgresSourceYAML struct {
	ConnectionString string `yaml:"connection-string"`
	Table            string `yaml:"table,omitempty"`
}
