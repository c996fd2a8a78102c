package config

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"

	"github.com/chrissnell/polltrend/pkg/migrate"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	sourceKindCSV      = "csv"
	sourceKindPostgres = "postgres"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider opens the database at dbPath, creating it and bringing
// its schema up to date if needed.
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if err := NewMigrator(db, nil).MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// NewMigrator returns a migrator for the configuration schema in db.
func NewMigrator(db *sql.DB, logf migrate.Logf) *migrate.Migrator {
	return migrate.NewMigrator(db, migrate.NewFSProvider(migrations, "migrations", ""), logf)
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}
	var err error

	if config.Parties, err = s.GetParties(); err != nil {
		return nil, fmt.Errorf("failed to load parties: %w", err)
	}
	if config.Pollsters, err = s.GetPollsters(); err != nil {
		return nil, fmt.Errorf("failed to load pollsters: %w", err)
	}
	if config.Charts, err = s.GetCharts(); err != nil {
		return nil, fmt.Errorf("failed to load charts: %w", err)
	}
	source, err := s.GetSource()
	if err != nil {
		return nil, fmt.Errorf("failed to load source: %w", err)
	}
	config.Source = *source

	return config, nil
}

// GetParties returns parties in their configured order
func (s *SQLiteProvider) GetParties() ([]PartyData, error) {
	windows := make(map[string][]WindowData)
	wrows, err := s.db.Query(`SELECT party_id, start_date, end_date FROM party_windows ORDER BY party_id, start_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query party windows: %w", err)
	}
	defer wrows.Close()
	for wrows.Next() {
		var id string
		var w WindowData
		if err := wrows.Scan(&id, &w.Start, &w.End); err != nil {
			return nil, fmt.Errorf("failed to scan party window row: %w", err)
		}
		windows[id] = append(windows[id], w)
	}
	if err := wrows.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT id, name, color, light_color FROM parties ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query parties: %w", err)
	}
	defer rows.Close()

	var parties []PartyData
	for rows.Next() {
		var p PartyData
		var color, lightColor sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &color, &lightColor); err != nil {
			return nil, fmt.Errorf("failed to scan party row: %w", err)
		}
		p.Color = color.String
		p.LightColor = lightColor.String
		p.Windows = windows[p.ID]
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

// GetPollsters returns pollsters ordered by name
func (s *SQLiteProvider) GetPollsters() ([]PollsterData, error) {
	aliases := make(map[string][]string)
	arows, err := s.db.Query(`SELECT pollster_name, alias FROM pollster_aliases ORDER BY alias`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pollster aliases: %w", err)
	}
	defer arows.Close()
	for arows.Next() {
		var name, alias string
		if err := arows.Scan(&name, &alias); err != nil {
			return nil, fmt.Errorf("failed to scan alias row: %w", err)
		}
		aliases[name] = append(aliases[name], alias)
	}
	if err := arows.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT name, display_name, pollster_group FROM pollsters ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pollsters: %w", err)
	}
	defer rows.Close()

	var pollsters []PollsterData
	for rows.Next() {
		var p PollsterData
		var displayName sql.NullString
		if err := rows.Scan(&p.Name, &displayName, &p.Group); err != nil {
			return nil, fmt.Errorf("failed to scan pollster row: %w", err)
		}
		p.DisplayName = displayName.String
		p.Aliases = aliases[p.Name]
		pollsters = append(pollsters, p)
	}
	return pollsters, rows.Err()
}

// GetCharts returns the chart catalogue in its configured order
func (s *SQLiteProvider) GetCharts() ([]ChartData, error) {
	parties, err := s.chartParties()
	if err != nil {
		return nil, err
	}
	annotations, err := s.chartAnnotations()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, title, pollster_group, voter_type, start_date, end_date,
		       smoothing, value_min, value_max, per_pollster, mandate_projection, featured
		FROM charts
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query charts: %w", err)
	}
	defer rows.Close()

	var charts []ChartData
	for rows.Next() {
		var c ChartData
		var title, group, voterType, start, end, smoothing sql.NullString
		var valueMin, valueMax sql.NullFloat64
		err := rows.Scan(
			&c.ID, &title, &group, &voterType, &start, &end,
			&smoothing, &valueMin, &valueMax, &c.PerPollster, &c.MandateProjection, &c.Featured,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chart row: %w", err)
		}

		c.Title = title.String
		c.PollsterGroup = group.String
		c.VoterType = voterType.String
		c.StartDate = start.String
		c.EndDate = end.String
		c.Smoothing = smoothing.String
		if valueMin.Valid && valueMax.Valid {
			c.ValueLimits = []float64{valueMin.Float64, valueMax.Float64}
		}
		c.Parties = parties[c.ID]
		c.Annotations = annotations[c.ID]

		charts = append(charts, c)
	}
	return charts, rows.Err()
}

// GetChart returns a single chart by id
func (s *SQLiteProvider) GetChart(id string) (*ChartData, error) {
	charts, err := s.GetCharts()
	if err != nil {
		return nil, err
	}
	c := &ConfigData{Charts: charts}
	return c.FindChart(id)
}

func (s *SQLiteProvider) chartParties() (map[string][]string, error) {
	rows, err := s.db.Query(`SELECT chart_id, party_id FROM chart_parties ORDER BY chart_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chart parties: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var chartID, partyID string
		if err := rows.Scan(&chartID, &partyID); err != nil {
			return nil, fmt.Errorf("failed to scan chart party row: %w", err)
		}
		out[chartID] = append(out[chartID], partyID)
	}
	return out, rows.Err()
}

func (s *SQLiteProvider) chartAnnotations() (map[string][]AnnotationData, error) {
	rows, err := s.db.Query(`SELECT chart_id, id, text, date, line_type FROM annotations ORDER BY chart_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]AnnotationData)
	for rows.Next() {
		var chartID string
		var a AnnotationData
		var lineType sql.NullString
		if err := rows.Scan(&chartID, &a.ID, &a.Text, &a.Date, &lineType); err != nil {
			return nil, fmt.Errorf("failed to scan annotation row: %w", err)
		}
		a.LineType = lineType.String
		out[chartID] = append(out[chartID], a)
	}
	return out, rows.Err()
}

// GetSource returns the observation source settings
func (s *SQLiteProvider) GetSource() (*SourceData, error) {
	rows, err := s.db.Query(`SELECT kind, voter_type, path, connection_string, table_name FROM sources`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	source := &SourceData{}
	for rows.Next() {
		var kind string
		var voterType, path, connectionString, table sql.NullString
		if err := rows.Scan(&kind, &voterType, &path, &connectionString, &table); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}

		switch kind {
		case sourceKindCSV:
			if source.CSV == nil {
				source.CSV = &CSVSourceData{Files: make(map[string]string)}
			}
			source.CSV.Files[voterType.String] = path.String
		case sourceKindPostgres:
			source.Postgres = &PostgresSourceData{
				ConnectionString: connectionString.String,
				Table:            table.String,
			}
		}
	}
	return source, rows.Err()
}

func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig replaces the stored configuration with configData in one
// transaction
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.clearExistingConfig(tx); err != nil {
		return fmt.Errorf("failed to clear existing config: %w", err)
	}

	for i, party := range configData.Parties {
		if err := s.insertParty(tx, i, &party); err != nil {
			return fmt.Errorf("failed to insert party %s: %w", party.ID, err)
		}
	}

	for _, pollster := range configData.Pollsters {
		if err := s.insertPollster(tx, &pollster); err != nil {
			return fmt.Errorf("failed to insert pollster %s: %w", pollster.Name, err)
		}
	}

	for i, chart := range configData.Charts {
		if err := s.insertChart(tx, i, &chart); err != nil {
			return fmt.Errorf("failed to insert chart %s: %w", chart.ID, err)
		}
	}

	if err := s.insertSource(tx, &configData.Source); err != nil {
		return fmt.Errorf("failed to insert source: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteProvider) clearExistingConfig(tx *sql.Tx) error {
	tables := []string{
		"sources", "annotations", "chart_parties", "charts",
		"pollster_aliases", "pollsters", "party_windows", "parties",
	}
	for _, table := range tables {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteProvider) insertParty(tx *sql.Tx, position int, party *PartyData) error {
	_, err := tx.Exec(
		`INSERT INTO parties (id, position, name, color, light_color) VALUES (?, ?, ?, ?, ?)`,
		party.ID, position, party.Name, nullString(party.Color), nullString(party.LightColor),
	)
	if err != nil {
		return err
	}

	for _, w := range party.Windows {
		_, err := tx.Exec(
			`INSERT INTO party_windows (party_id, start_date, end_date) VALUES (?, ?, ?)`,
			party.ID, w.Start, w.End,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteProvider) insertPollster(tx *sql.Tx, pollster *PollsterData) error {
	_, err := tx.Exec(
		`INSERT INTO pollsters (name, display_name, pollster_group) VALUES (?, ?, ?)`,
		pollster.Name, nullString(pollster.DisplayName), pollster.Group,
	)
	if err != nil {
		return err
	}

	for _, alias := range pollster.Aliases {
		_, err := tx.Exec(`INSERT INTO pollster_aliases (alias, pollster_name) VALUES (?, ?)`, alias, pollster.Name)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteProvider) insertChart(tx *sql.Tx, position int, chart *ChartData) error {
	var valueMin, valueMax sql.NullFloat64
	if len(chart.ValueLimits) == 2 {
		valueMin = sql.NullFloat64{Float64: chart.ValueLimits[0], Valid: true}
		valueMax = sql.NullFloat64{Float64: chart.ValueLimits[1], Valid: true}
	}

	_, err := tx.Exec(`
		INSERT INTO charts (
			id, position, title, pollster_group, voter_type, start_date, end_date,
			smoothing, value_min, value_max, per_pollster, mandate_projection, featured
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		chart.ID, position, nullString(chart.Title), nullString(chart.PollsterGroup),
		nullString(chart.VoterType), nullString(chart.StartDate), nullString(chart.EndDate),
		nullString(chart.Smoothing), valueMin, valueMax, chart.PerPollster, chart.MandateProjection, chart.Featured,
	)
	if err != nil {
		return err
	}

	for i, party := range chart.Parties {
		_, err := tx.Exec(`INSERT INTO chart_parties (chart_id, position, party_id) VALUES (?, ?, ?)`, chart.ID, i, party)
		if err != nil {
			return err
		}
	}

	for i, a := range chart.Annotations {
		_, err := tx.Exec(
			`INSERT INTO annotations (chart_id, position, id, text, date, line_type) VALUES (?, ?, ?, ?, ?, ?)`,
			chart.ID, i, a.ID, a.Text, a.Date, nullString(a.LineType),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteProvider) insertSource(tx *sql.Tx, source *SourceData) error {
	if source.CSV != nil {
		voterTypes := make([]string, 0, len(source.CSV.Files))
		for vt := range source.CSV.Files {
			voterTypes = append(voterTypes, vt)
		}
		sort.Strings(voterTypes)

		for _, vt := range voterTypes {
			_, err := tx.Exec(
				`INSERT INTO sources (kind, voter_type, path) VALUES (?, ?, ?)`,
				sourceKindCSV, vt, source.CSV.Files[vt],
			)
			if err != nil {
				return err
			}
		}
	}

	if source.Postgres != nil {
		_, err := tx.Exec(
			`INSERT INTO sources (kind, connection_string, table_name) VALUES (?, ?, ?)`,
			sourceKindPostgres, source.Postgres.ConnectionString, nullString(source.Postgres.Table),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
