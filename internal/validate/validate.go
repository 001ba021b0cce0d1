// Package validate provides small predicate helpers with typed failures.
//
// Each helper fails with a distinct error type so callers can branch on the
// violated constraint with errors.As rather than matching message strings.
package validate

import (
	"fmt"
	"reflect"
)

// Kind is a coarse value classification used by KindOf.
type Kind int

const (
	// Number matches any float type.
	Number Kind = iota
	// Integer matches any signed or unsigned integer type.
	Integer
	// Sequence matches slices and arrays.
	Sequence
	// Set matches maps, the closest Go analogue of an unordered set.
	Set
	// Text matches strings.
	Text
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Integer:
		return "integer"
	case Sequence:
		return "sequence"
	case Set:
		return "set"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// TypeError reports a value whose type matched none of the accepted kinds.
type TypeError struct {
	Value    any
	Accepted []Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("validate: %T is not one of the accepted kinds %v", e.Value, e.Accepted)
}

// NotInContainerError reports a value missing from a collection.
type NotInContainerError struct {
	Value any
}

func (e *NotInContainerError) Error() string {
	return fmt.Sprintf("validate: value %v not found in container", e.Value)
}

// FiscalYearError reports a fiscal year missing from a column.
type FiscalYearError struct {
	FiscalYear int
}

func (e *FiscalYearError) Error() string {
	return fmt.Sprintf("validate: fiscal year %d not present in column", e.FiscalYear)
}

// matches reports whether v's reflected kind belongs to k.
func matches(v reflect.Value, k Kind) bool {
	switch k {
	case Number:
		return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
	case Integer:
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		}
	case Sequence:
		return v.Kind() == reflect.Slice || v.Kind() == reflect.Array
	case Set:
		return v.Kind() == reflect.Map
	case Text:
		return v.Kind() == reflect.String
	}
	return false
}

// KindOf confirms value's type is one of the accepted kinds.
func KindOf(value any, accepted ...Kind) error {
	v := reflect.ValueOf(value)
	for _, k := range accepted {
		if matches(v, k) {
			return nil
		}
	}
	return &TypeError{Value: value, Accepted: accepted}
}

// Contains confirms value exists within the collection.
func Contains[T comparable](collection []T, value T) error {
	for _, item := range collection {
		if item == value {
			return nil
		}
	}
	return &NotInContainerError{Value: value}
}

// HasFiscalYear confirms the fiscal year appears in the column.
func HasFiscalYear(column []int, fiscalYear int) error {
	for _, fy := range column {
		if fy == fiscalYear {
			return nil
		}
	}
	return &FiscalYearError{FiscalYear: fiscalYear}
}

// NoNulls reports whether the column contains zero nil entries. A
// zero-length column trivially has none.
func NoNulls[T any](column []*T) bool {
	for _, item := range column {
		if item == nil {
			return false
		}
	}
	return true
}
