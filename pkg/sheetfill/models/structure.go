package models

import "strings"

// Orientation is the layout of a template.
type Orientation string

const (
	// OrientationVertical is a key/value template: labels in one column,
	// values beside them, one record.
	OrientationVertical Orientation = "vertical"
	// OrientationHorizontal is a header row with one output row per record.
	OrientationHorizontal Orientation = "horizontal"
)

// Valid reports whether o is a known orientation.
func (o Orientation) Valid() bool {
	return o == OrientationVertical || o == OrientationHorizontal
}

// DataType is the advisory semantic type of a field.
type DataType string

const (
	DataTypeString  DataType = "string"
	DataTypeNumber  DataType = "number"
	DataTypeDate    DataType = "date"
	DataTypeBoolean DataType = "boolean"
)

// ParseDataType maps a loosely spelled type name to a DataType. Unknown names
// report false and map to DataTypeString.
func ParseDataType(s string) (DataType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "text", "":
		return DataTypeString, true
	case "number", "numeric", "integer", "float", "currency":
		return DataTypeNumber, true
	case "date", "datetime":
		return DataTypeDate, true
	case "boolean", "bool":
		return DataTypeBoolean, true
	default:
		return DataTypeString, false
	}
}

// Field is one semantic slot in a template.
type Field struct {
	// Name is the label text as shown in the sheet.
	Name string `json:"name"`
	// LabelPosition is where the label is shown, relative to the region origin.
	LabelPosition Position `json:"labelPosition"`
	// ValuePosition is where the value is written, relative to the region origin.
	ValuePosition Position `json:"valuePosition"`
	// Description is a free-text hint used for mapping.
	Description string `json:"description,omitempty"`
	// DataType is advisory and never enforced strictly.
	DataType DataType `json:"dataType"`
}

// TemplateStructure is the inferred layout of a region.
type TemplateStructure struct {
	Orientation Orientation `json:"orientation"`
	Fields      []Field     `json:"fields"`
}

// FieldNames returns the field names in declaration order.
func (s *TemplateStructure) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// MappedRow maps a field name to the scalar written for it. Keys are closed
// over the field names of the associated TemplateStructure.
type MappedRow map[string]Value

// Placement is one planned absolute write.
type Placement struct {
	Field string   `json:"field"`
	Cell  Position `json:"cell"`
	Value Value    `json:"-"`
	// Record is the index of the mapped row the value came from.
	Record int `json:"record"`
}
