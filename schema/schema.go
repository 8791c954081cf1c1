package schema

// ============================================================================
// SCHEMA — Describes the shape of a performance data file
// ============================================================================
// Auto-discovered from a CSV export (DiscoverFromCSV) or written by hand.
// helpers.ParseCSV uses it to build the index levels and output columns of
// a performance table.
// ============================================================================

// Config describes the columns of a performance data file.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	Levels  []LevelMeta  `json:"levels"`
	Columns []ColumnMeta `json:"columns"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty"`

	// Columns skipped during auto-discovery
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty"`
}

// LevelMeta describes an index level (operating condition).
type LevelMeta struct {
	Key             string    `json:"key"`    // canonical name: Tdbr, Tdbo, ...
	Header          string    `json:"header"` // column header in the source file
	DisplayName     string    `json:"displayName"`
	Known           bool      `json:"known"` // one of the levels the engine extends along
	Entries         []float64 `json:"entries"`
	CardinalityHint string    `json:"cardinalityHint,omitempty"` // "low", "medium", "high"
}

// ColumnMeta describes an output column.
type ColumnMeta struct {
	Key         string `json:"key"`
	Header      string `json:"header"`
	DisplayName string `json:"displayName"`
	IsQuantity  bool   `json:"isQuantity,omitempty"` // capacity, power or COP
}

// SkippedColumn records why a column was excluded during auto-discovery.
type SkippedColumn struct {
	Column      string `json:"column"`
	Reason      string `json:"reason"`
	Recoverable bool   `json:"recoverable"` // Can be restored if consumer overrides
}

// Display labels of the known levels.
var levelLabels = map[string]string{
	"Tdbr": "Room dry-bulb temperature",
	"Twbr": "Room wet-bulb temperature",
	"Tdbo": "Outdoor dry-bulb temperature",
	"AFR":  "Normalized air flow rate",
	"freq": "Normalized frequency",
}

// Display labels of the known columns.
var columnLabels = map[string]string{
	"capacity":          "Capacity",
	"power":             "Power",
	"COP":               "Coefficient of performance",
	"sensible_capacity": "Sensible capacity",
	"latent_capacity":   "Latent capacity",
}

// LevelLabel returns the display label of a level key.
func LevelLabel(key string) string {
	if l, ok := levelLabels[key]; ok {
		return l
	}
	return toDisplayName(key)
}

// DefaultLevel creates a LevelMeta with sensible defaults.
func DefaultLevel(key, header string) LevelMeta {
	_, known := levelLabels[key]
	return LevelMeta{
		Key:         key,
		Header:      header,
		DisplayName: LevelLabel(key),
		Known:       known,
	}
}

// DefaultColumn creates a ColumnMeta with sensible defaults.
func DefaultColumn(key, header string) ColumnMeta {
	display, ok := columnLabels[key]
	if !ok {
		display = toDisplayName(key)
	}
	return ColumnMeta{
		Key:         key,
		Header:      header,
		DisplayName: display,
		IsQuantity:  key == "capacity" || key == "power" || key == "COP",
	}
}

// LevelKeys returns all level keys, in file order.
func (c Config) LevelKeys() []string {
	keys := make([]string, len(c.Levels))
	for i, l := range c.Levels {
		keys[i] = l.Key
	}
	return keys
}

// ColumnKeys returns all column keys, in file order.
func (c Config) ColumnKeys() []string {
	keys := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		keys[i] = col.Key
	}
	return keys
}
