package mapper

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

// Sanitize turns any decoded value into a cell scalar: nil becomes "",
// objects and arrays become their JSON text, strings, numbers and booleans
// pass through and anything else is formatted with fmt.
func Sanitize(v interface{}) models.Value {
	switch t := v.(type) {
	case nil:
		return models.StringValue("")
	case string:
		return models.StringValue(t)
	case bool:
		return models.BoolValue(t)
	case float64:
		return models.NumberValue(t)
	case float32:
		return models.NumberValue(float64(t))
	case int:
		return models.NumberValue(float64(t))
	case int64:
		return models.NumberValue(float64(t))
	case int32:
		return models.NumberValue(float64(t))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return models.NumberValue(f)
		}
		return models.StringValue(t.String())
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if data, err := json.Marshal(v); err == nil {
			return models.StringValue(string(data))
		}
	}
	return models.StringValue(fmt.Sprint(v))
}

// Coerce applies a field's advisory type to a string value: numeric text
// becomes a number for number fields and yes/no text a boolean for boolean
// fields. Values that do not parse are returned unchanged.
func Coerce(v models.Value, dt models.DataType) models.Value {
	if v.Kind != models.KindString {
		return v
	}
	s := strings.TrimSpace(v.Str)
	if s == "" {
		return v
	}

	switch dt {
	case models.DataTypeNumber:
		clean := strings.ReplaceAll(s, ",", "")
		if f, err := strconv.ParseFloat(clean, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return models.NumberValue(f)
		}
	case models.DataTypeBoolean:
		switch strings.ToLower(s) {
		case "true", "yes", "y":
			return models.BoolValue(true)
		case "false", "no", "n":
			return models.BoolValue(false)
		}
	}
	return v
}
