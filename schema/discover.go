package schema

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic column classification
// ============================================================================
// Inspects a CSV export of a performance table and generates a
// schema.Config automatically.
//
// Classification pipeline per column:
//   1. Header → canonical name (known aliases of levels and quantities)
//   2. Sample values → numeric or not (non-numeric columns are skipped)
//   3. Known names take their role; other numeric columns are levels when
//      their entries repeat across rows (a grid), output columns otherwise
// ============================================================================

var (
	ErrNoColumns = errors.New("schema: CSV has no columns")
	ErrNoRows    = errors.New("schema: CSV has no data rows")
)

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize     int      // Max rows to inspect (0 = all). Default: 1000
	RecoverColumns []string // Force-include columns that were auto-skipped, as output columns
	Levels         []string // Force columns to be levels, by header or key
	Name           string   // Dataset name override (otherwise inferred)
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		SampleSize: 1000,
	}
}

// DiscoverFromCSV generates a schema.Config by inspecting CSV data.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.TrimLeadingSpace = true

	// 1. Read headers
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) == 0 {
		return nil, ErrNoColumns
	}

	// 2. Read sample rows
	var rows [][]string
	limit := opt.SampleSize
	if limit <= 0 {
		limit = 100000 // safety cap
	}
	for i := 0; i < limit; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	forced := make(map[string]bool)
	for _, h := range opt.Levels {
		forced[strings.ToLower(h)] = true
	}
	recoverSet := make(map[string]bool)
	for _, h := range opt.RecoverColumns {
		recoverSet[strings.ToLower(h)] = true
	}

	// 3. Analyze each column
	config := &Config{Name: opt.Name, Version: "1.0"}
	if config.Name == "" {
		config.Name = "Auto-discovered performance map"
	}
	for i, header := range headers {
		col := analyzeColumn(header, i, rows)
		if forced[strings.ToLower(header)] || forced[strings.ToLower(col.key)] {
			if col.role != roleSkipped {
				col.role = roleLevel
			}
		}
		switch col.role {
		case roleLevel:
			config.Levels = append(config.Levels, col.toLevel())
		case roleColumn:
			config.Columns = append(config.Columns, col.toColumn())
		case roleSkipped:
			if recoverSet[strings.ToLower(header)] && col.recoverable {
				config.Columns = append(config.Columns, col.toColumn())
				continue
			}
			config.SkippedColumns = append(config.SkippedColumns, SkippedColumn{
				Column:      header,
				Reason:      col.skipReason,
				Recoverable: col.recoverable,
			})
		}
	}

	config.DiscoveredFrom = "CSV"
	config.DiscoveredAt = time.Now().Format(time.RFC3339)
	return config, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

type columnRole int

const (
	roleLevel columnRole = iota
	roleColumn
	roleSkipped
)

type columnAnalysis struct {
	header      string
	key         string
	known       bool // key is a canonical level or column name
	role        columnRole
	skipReason  string
	recoverable bool

	// Stats
	uniqueCount int
	totalCount  int
	nullCount   int
	entries     []float64 // distinct numeric values, ascending

	cardinalityHint string
}

// analyzeColumn inspects all values in a column and classifies it.
func analyzeColumn(header string, index int, rows [][]string) columnAnalysis {
	col := columnAnalysis{
		header:     header,
		totalCount: len(rows),
	}
	col.key, col.known = canonicalName(header)

	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if index >= len(row) {
			col.nullCount++
			continue
		}
		val := strings.TrimSpace(row[index])
		if val == "" || val == "null" || val == "NULL" || val == "N/A" || val == "n/a" {
			col.nullCount++
			continue
		}
		values = append(values, val)
	}

	if len(values) == 0 {
		col.role = roleSkipped
		col.skipReason = "All values are empty/null"
		return col
	}
	if col.nullCount > 0 {
		col.role = roleSkipped
		col.skipReason = fmt.Sprintf("%d empty values; performance tables must be complete", col.nullCount)
		col.recoverable = false
		return col
	}

	nums := make([]float64, 0, len(values))
	for _, v := range values {
		f, ok := parseNumber(v)
		if !ok {
			col.role = roleSkipped
			col.skipReason = fmt.Sprintf("Non-numeric value %q", v)
			return col
		}
		nums = append(nums, f)
	}
	slices.Sort(nums)
	col.entries = slices.Compact(nums)
	col.uniqueCount = len(col.entries)

	switch {
	case col.uniqueCount <= 10:
		col.cardinalityHint = "low"
	case col.uniqueCount <= 100:
		col.cardinalityHint = "medium"
	default:
		col.cardinalityHint = "high"
	}

	col.classifyRole()
	return col
}

// classifyRole determines level vs output column.
func (col *columnAnalysis) classifyRole() {
	if col.known {
		if _, ok := levelLabels[col.key]; ok {
			col.role = roleLevel
		} else {
			col.role = roleColumn
		}
		return
	}
	if col.uniqueCount == 1 && col.totalCount > 1 {
		col.role = roleSkipped
		col.skipReason = "Constant value, carries no information"
		col.recoverable = true
		return
	}
	// Grid axes repeat their entries across rows; measured outputs rarely do.
	uniqueRatio := float64(col.uniqueCount) / float64(col.totalCount)
	if col.totalCount > 1 && uniqueRatio <= 0.5 {
		col.role = roleLevel
		return
	}
	col.role = roleColumn
}

// ============================================================================
// HEADER ALIASES
// ============================================================================

// aliases maps snake_case headers to canonical names.
var aliases = map[string]string{
	"tdbr":                         "Tdbr",
	"t_dbr":                        "Tdbr",
	"room_dry_bulb":                "Tdbr",
	"room_dry_bulb_temperature":    "Tdbr",
	"indoor_dry_bulb":              "Tdbr",
	"indoor_dry_bulb_temperature":  "Tdbr",
	"twbr":                         "Twbr",
	"t_wbr":                        "Twbr",
	"room_wet_bulb":                "Twbr",
	"room_wet_bulb_temperature":    "Twbr",
	"indoor_wet_bulb":              "Twbr",
	"indoor_wet_bulb_temperature":  "Twbr",
	"tdbo":                         "Tdbo",
	"t_dbo":                        "Tdbo",
	"outdoor_dry_bulb":             "Tdbo",
	"outdoor_dry_bulb_temperature": "Tdbo",
	"afr":                          "AFR",
	"air_flow_rate":                "AFR",
	"normalized_air_flow_rate":     "AFR",
	"freq":                         "freq",
	"frequency":                    "freq",
	"normalized_frequency":         "freq",
	"capacity":                     "capacity",
	"heating_capacity":             "capacity",
	"cooling_capacity":             "capacity",
	"total_capacity":               "capacity",
	"power":                        "power",
	"power_input":                  "power",
	"electric_power":               "power",
	"cop":                          "COP",
	"eer":                          "COP",
	"sensible_capacity":            "sensible_capacity",
	"latent_capacity":              "latent_capacity",
}

// canonicalName maps a header to its canonical key. Unknown headers map to
// their snake_case form. Units in parentheses or brackets are ignored.
func canonicalName(header string) (string, bool) {
	h := header
	if i := strings.IndexAny(h, "(["); i > 0 {
		h = h[:i]
	}
	key := toSnakeCase(strings.TrimSpace(h))
	if name, ok := aliases[strings.ReplaceAll(key, "-", "_")]; ok {
		return name, true
	}
	return key, false
}

// parseNumber parses a decimal number, allowing thousands separators.
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// ============================================================================
// CONVERSION HELPERS
// ============================================================================

// toLevel converts a column analysis into LevelMeta.
func (col *columnAnalysis) toLevel() LevelMeta {
	l := DefaultLevel(col.key, col.header)
	if !col.known {
		l.DisplayName = toDisplayName(col.header)
	}
	l.Entries = col.entries
	l.CardinalityHint = col.cardinalityHint
	return l
}

// toColumn converts a column analysis into ColumnMeta.
func (col *columnAnalysis) toColumn() ColumnMeta {
	c := DefaultColumn(col.key, col.header)
	if !col.known {
		c.DisplayName = toDisplayName(col.header)
	}
	return c
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	// Handle camelCase: insert underscore before uppercase letters
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	s = result.String()
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "_")
	return s
}

// toDisplayName cleans a header for human display.
// "fan_speed" → "Fan Speed", "Fan speed" → "Fan speed"
func toDisplayName(s string) string {
	// If already has spaces/mixed case, just trim
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	// Convert snake_case to Title Case
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}
