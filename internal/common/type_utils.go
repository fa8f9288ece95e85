package common

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// TypeConverter provides common type inspection and formatting utilities.
type TypeConverter struct{}

// NewTypeConverter creates a new TypeConverter instance.
func NewTypeConverter() *TypeConverter {
	return &TypeConverter{}
}

// ToString formats a value for display.
func (tc *TypeConverter) ToString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "<nil>"
	case string:
		return v
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%g", v)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// KeyString returns a type-qualified identity for an index key. Two keys
// share a KeyString exactly when they label the same row: values of
// different Go types never match, and times match by instant.
func (tc *TypeConverter) KeyString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case string:
		return "string\x00" + v
	case int:
		return "int\x00" + strconv.Itoa(v)
	case int64:
		return "int64\x00" + strconv.FormatInt(v, 10)
	case float64:
		if math.IsNaN(v) {
			return "float64\x00NaN"
		}
		if v == 0 { // fold negative zero
			v = 0
		}
		return "float64\x00" + strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return "bool\x00" + strconv.FormatBool(v)
	case time.Time:
		return "time\x00" + strconv.FormatInt(v.Unix(), 10) + "." + strconv.Itoa(v.Nanosecond())
	default:
		return fmt.Sprintf("%T\x00%v", value, value)
	}
}

// IsNumericType checks if a value is of a numeric type.
func (tc *TypeConverter) IsNumericType(value interface{}) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}

// GetTypeName returns the type name of a value. Built-in types use their Go
// name; time.Time is reported as "time".
func (tc *TypeConverter) GetTypeName(value interface{}) string {
	switch value.(type) {
	case nil:
		return "nil"
	case time.Time:
		return "time"
	default:
		return fmt.Sprintf("%T", value)
	}
}

// Default converter instance for convenience.
var defaultConverter = NewTypeConverter()

// ToString formats a value using the default converter.
func ToString(value interface{}) string {
	return defaultConverter.ToString(value)
}

// KeyString returns the key identity using the default converter.
func KeyString(value interface{}) string {
	return defaultConverter.KeyString(value)
}

// IsNumericType checks if a value is numeric using the default converter.
func IsNumericType(value interface{}) bool {
	return defaultConverter.IsNumericType(value)
}

// GetTypeName returns the type name using the default converter.
func GetTypeName(value interface{}) string {
	return defaultConverter.GetTypeName(value)
}
