package ir

// Channel is a visual encoding slot.
type Channel string

const (
	ChannelNone  Channel = "" // unassigned
	ChannelX     Channel = "x"
	ChannelY     Channel = "y"
	ChannelColor Channel = "color"
)

// ValidChannels defines allowed explicit channels.
var ValidChannels = map[Channel]bool{
	ChannelNone:  true,
	ChannelX:     true,
	ChannelY:     true,
	ChannelColor: true,
}

// DataModel classifies an attribute as aggregatable or grouping.
type DataModel string

const (
	ModelUnknown   DataModel = ""
	ModelMeasure   DataModel = "measure"
	ModelDimension DataModel = "dimension"
)

// ValidDataModels defines allowed data models.
var ValidDataModels = map[DataModel]bool{
	ModelUnknown:   true,
	ModelMeasure:   true,
	ModelDimension: true,
}

// DataType is the semantic type of an attribute.
type DataType string

const (
	TypeUnknown      DataType = ""
	TypeQuantitative DataType = "quantitative"
	TypeNominal      DataType = "nominal"
	TypeTemporal     DataType = "temporal"
	TypeOrdinal      DataType = "ordinal"
)

// ValidDataTypes defines allowed data types.
var ValidDataTypes = map[DataType]bool{
	TypeUnknown:      true,
	TypeQuantitative: true,
	TypeNominal:      true,
	TypeTemporal:     true,
	TypeOrdinal:      true,
}

// Mark is the chart type of a visualization.
type Mark string

const (
	MarkUnknown   Mark = "unknown"
	MarkScatter   Mark = "scatter"
	MarkBar       Mark = "bar"
	MarkLine      Mark = "line"
	MarkHistogram Mark = "histogram"
)

// Sort is the display order imposed on a bar chart dimension.
type Sort string

const (
	SortNone       Sort = ""
	SortAscending  Sort = "ascending"
	SortDescending Sort = "descending"
)

// Aggregation applied to a measure when the chart groups rows.
type Aggregation string

const (
	AggNone  Aggregation = ""
	AggCount Aggregation = "count"
	AggMean  Aggregation = "mean"
)

// RecordAttribute is the synthetic row-count attribute added to histograms.
const RecordAttribute = "Record"

// Filter operators accepted on value-bound clauses.
const (
	OpEq = "="
	OpNe = "!="
	OpLt = "<"
	OpGt = ">"
	OpLe = "<="
	OpGe = ">="
)

// ValidFilterOps defines allowed filter operators.
var ValidFilterOps = map[string]bool{
	OpEq: true,
	OpNe: true,
	OpLt: true,
	OpGt: true,
	OpLe: true,
	OpGe: true,
}

// Wildcard is the marker used in intents for "enumerate this".
const Wildcard = "?"
