package schema

// GridCell is one rendered heatmap cell.
type GridCell struct {
	MetricKey string       `json:"metric_key" yaml:"metric_key"`
	Value     *float64     `json:"value" yaml:"value"`
	Display   string       `json:"display" yaml:"display"`
	Color     HeatmapColor `json:"color" yaml:"color"`
}

// GridRow is one entity of the grid: a clinic on the clinic axis, a period
// on the period axis.
type GridRow struct {
	Key   string     `json:"key" yaml:"key"`
	Cells []GridCell `json:"cells" yaml:"cells"`
}

// GridResult is a full heatmap grid. Every column is its own comparison set.
type GridResult struct {
	Axis    GridAxis  `json:"axis" yaml:"axis"`
	Grain   Grain     `json:"grain" yaml:"grain"`
	Scope   string    `json:"scope" yaml:"scope"` // fixed period (clinic axis) or fixed clinic (period axis)
	Metrics []string  `json:"metrics" yaml:"metrics"`
	Rows    []GridRow `json:"rows" yaml:"rows"`
}

// CellCount returns the number of cells in the grid.
func (g GridResult) CellCount() int {
	n := 0
	for _, r := range g.Rows {
		n += len(r.Cells)
	}
	return n
}

// CellReport is the full reading of one value against a comparison set, as
// returned by the colorize command and MCP tool.
type CellReport struct {
	MetricKey  string       `json:"metric_key" yaml:"metric_key"`
	Class      MetricClass  `json:"class" yaml:"class"`
	Value      *float64     `json:"value" yaml:"value"`
	Display    string       `json:"display" yaml:"display"`
	Comparison []*float64   `json:"comparison" yaml:"comparison"`
	Color      HeatmapColor `json:"color" yaml:"color"`
}
