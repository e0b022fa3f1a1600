package tackle

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Azhovan/tackle/node"
)

var durationType = reflect.TypeOf(time.Duration(0))

// validateRecord walks a decoded record and checks every member against its
// constraints. Nested records, pointers to records, Optionals and sequences
// of records are followed.
func (r *Registry) validateRecord(v reflect.Value, path node.Path) []FieldError {
	members, err := r.members.Members(TypeOf(v.Type()))
	if err != nil {
		return nil
	}

	var fieldErrors []FieldError
	for _, mem := range members {
		fv := v.FieldByIndex(mem.Index)
		fieldErrors = append(fieldErrors, r.validateValue(fv, path.Child(node.Key(mem.Key)), mem)...)
	}
	return fieldErrors
}

func (r *Registry) validateValue(fv reflect.Value, path node.Path, mem Member) []FieldError {
	// A set Optional or a non-nil pointer was given on purpose, so even its
	// zero value is checked.
	explicit := false
	if isOptionalType(fv.Type()) {
		if !fv.FieldByName("Set").Bool() {
			return nil
		}
		fv = fv.FieldByName("Value")
		explicit = true
	}
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return nil
		}
		fv = fv.Elem()
		explicit = true
	}

	if r.isRecord(TypeOf(fv.Type())) {
		return r.validateRecord(fv, path)
	}
	if (fv.Kind() == reflect.Slice || fv.Kind() == reflect.Array) && r.isRecord(TypeOf(fv.Type().Elem())) {
		var fieldErrors []FieldError
		for i := 0; i < fv.Len(); i++ {
			fieldErrors = append(fieldErrors, r.validateRecord(fv.Index(i), path.Child(node.Index(i)))...)
		}
		return fieldErrors
	}
	// Skip other validations if value is zero (for non-required fields)
	if !mem.Required && !explicit && fv.IsZero() {
		return nil
	}
	return validateField(fv, path.String(), mem)
}

// validateField validates a single field value against tag-based constraints.
// It checks required, min, max, oneof and pattern constraints based on the
// field's type.
func validateField(fieldValue reflect.Value, fieldPath string, mem Member) []FieldError {
	var errors []FieldError

	// Present but empty still violates required.
	if mem.Required && isEmpty(fieldValue) {
		return append(errors, FieldError{
			FieldPath: fieldPath,
			Code:      ErrCodeRequired,
			Message:   "field is required but empty",
		})
	}

	if fieldValue.Type() == durationType {
		return append(errors, validateDurationMinMax(fieldValue, fieldPath, mem)...)
	}

	switch fieldValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		errors = append(errors, validateIntMinMax(fieldValue, fieldPath, mem)...)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		errors = append(errors, validateUintMinMax(fieldValue, fieldPath, mem)...)
	case reflect.Float32, reflect.Float64:
		errors = append(errors, validateFloatMinMax(fieldValue, fieldPath, mem)...)
	case reflect.String:
		errors = append(errors, validateLenMinMax(fieldValue.Len(), "string length", fieldPath, mem)...)
	case reflect.Slice, reflect.Array, reflect.Map:
		errors = append(errors, validateLenMinMax(fieldValue.Len(), "length", fieldPath, mem)...)
	}

	if len(mem.OneOf) > 0 {
		errors = append(errors, validateOneof(fieldValue, fieldPath, mem)...)
	}
	if mem.Pattern != "" {
		errors = append(errors, validatePattern(fieldValue, fieldPath, mem)...)
	}

	return errors
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

// validateIntMinMax validates min/max constraints for signed integer types.
func validateIntMinMax(fieldValue reflect.Value, fieldPath string, mem Member) []FieldError {
	var errors []FieldError
	value := fieldValue.Int()

	if mem.Min != "" {
		minVal, err := strconv.ParseInt(mem.Min, 10, 64)
		if err == nil && value < minVal {
			errors = append(errors, FieldError{
				FieldPath: fieldPath,
				Code:      ErrCodeMin,
				Message:   fmt.Sprintf("value %d is below minimum %d", value, minVal),
			})
		}
	}

	if mem.Max != "" {
		maxVal, err := strconv.ParseInt(mem.Max, 10, 64)
		if err == nil && value > maxVal {
			errors = append(errors, FieldError{
				FieldPath: fieldPath,
				Code:      ErrCodeMax,
				Message:   fmt.Sprintf("value %d exceeds maximum %d", value, maxVal),
			})
		}
	}

	return errors
}

// validateUintMinMax validates min/max constraints for unsigned integer types.
func validateUintMinMax(fieldValue reflect.Value, fieldPath string, mem Member) []FieldError {
	var errors []FieldError
	value := fieldValue.Uint()

	if mem.Min != "" {
		minVal, err := strconv.ParseUint(mem.Min, 10, 64)
		if err == nil && value < minVal {
			errors = append(errors, FieldError{
				FieldPath: fieldPath,
				Code:      ErrCodeMin,
				Message:   fmt.Sprintf("value %d is below minimum %d", value, minVal),
			})
		}
	}

	if mem.Max != "" {
		maxVal, err := strconv.ParseUint(mem.Max, 10, 64)
		if err == nil && value > maxVal {
			errors = append(errors, FieldError{
				FieldPath: fieldPath,
				Code:      ErrCodeMax,
				Message:   fmt.Sprintf("value %d exceeds maximum %d", value, maxVal),
			})
		}
	}

	return errors
}

// validateFloatMinMax validates min/max constraints for floating-point types.
func validateFloatMinMax(fieldValue reflect.Value, fieldPath string, mem Member) []FieldError {
	var errors []FieldError
	value := fieldValue.Float()

	if mem.Min != "" {
		minVal, err := strconv.ParseFloat(mem.Min, 64)
		if err == nil && value < minVal {
			errors = append(errors, FieldError{
				FieldPath: fieldPath,
				Code:      ErrCodeMin,
				Message:   fmt.Sprintf("value %g is below minimum %g", value, minVal),
			})
		}
	}

	if mem.Max != "" {
		maxVal, err := strconv.ParseFloat(mem.Max, 64)
		if err == nil && value > maxVal {
			errors = append(errors, FieldError{
				FieldPath: fieldPath,
				Code:      ErrCodeMax,
				Message:   fmt.Sprintf("value %g exceeds maximum %g", value, maxVal),
			})
		}
	}

	return errors
}

// validateDurationMinMax reads min/max as duration strings ("1s", "5m").
func validateDurationMinMax(fieldValue reflect.Value, fieldPath string, mem Member) []FieldError {
	var errors []FieldError
	value := time.Duration(fieldValue.Int())

	if mem.Min != "" {
		minVal, err := time.ParseDuration(mem.Min)
		if err == nil && value < minVal {
			errors = append(errors, FieldError{
				FieldPath: fieldPath,
				Code:      ErrCodeMin,
				Message:   fmt.Sprintf("duration %s is below minimum %s", value, minVal),
			})
		}
	}

	if mem.Max != "" {
		maxVal, err := time.ParseDuration(mem.Max)
		if err == nil && value > maxVal {
			errors = append(errors, FieldError{
				FieldPath: fieldPath,
				Code:      ErrCodeMax,
				Message:   fmt.Sprintf("duration %s exceeds maximum %s", value, maxVal),
			})
		}
	}

	return errors
}

// validateLenMinMax validates min/max constraints against a length.
func validateLenMinMax(length int, what, fieldPath string, mem Member) []FieldError {
	var errors []FieldError

	if mem.Min != "" {
		minLen, err := strconv.Atoi(mem.Min)
		if err == nil && length < minLen {
			errors = append(errors, FieldError{
				FieldPath: fieldPath,
				Code:      ErrCodeMin,
				Message:   fmt.Sprintf("%s %d is below minimum %d", what, length, minLen),
			})
		}
	}

	if mem.Max != "" {
		maxLen, err := strconv.Atoi(mem.Max)
		if err == nil && length > maxLen {
			errors = append(errors, FieldError{
				FieldPath: fieldPath,
				Code:      ErrCodeMax,
				Message:   fmt.Sprintf("%s %d exceeds maximum %d", what, length, maxLen),
			})
		}
	}

	return errors
}

// validateOneof validates that a field value is one of the allowed options.
func validateOneof(fieldValue reflect.Value, fieldPath string, mem Member) []FieldError {
	valueStr, ok := textOf(fieldValue)
	if !ok {
		return nil
	}

	for _, allowed := range mem.OneOf {
		if valueStr == allowed {
			return nil
		}
	}

	return []FieldError{{
		FieldPath: fieldPath,
		Code:      ErrCodeOneOf,
		Message:   fmt.Sprintf("value %q must be one of: %s", valueStr, strings.Join(mem.OneOf, ", ")),
	}}
}

// validatePattern validates a field's text against a regular expression.
// An invalid expression is itself reported.
func validatePattern(fieldValue reflect.Value, fieldPath string, mem Member) []FieldError {
	valueStr, ok := textOf(fieldValue)
	if !ok {
		return nil
	}
	re, err := regexp.Compile(mem.Pattern)
	if err != nil {
		return []FieldError{{
			FieldPath: fieldPath,
			Code:      ErrCodePattern,
			Message:   fmt.Sprintf("invalid pattern %q: %v", mem.Pattern, err),
		}}
	}
	if re.MatchString(valueStr) {
		return nil
	}
	return []FieldError{{
		FieldPath: fieldPath,
		Code:      ErrCodePattern,
		Message:   fmt.Sprintf("value %q does not match %s", valueStr, mem.Pattern),
	}}
}

// textOf renders scalar-like values for oneof and pattern checks.
func textOf(v reflect.Value) (string, bool) {
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String(), true
	}
	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), true
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true
	}
	return "", false
}
