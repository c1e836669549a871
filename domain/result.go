package domain

// ResultKind is the state of an [EvalResult].
type ResultKind uint8

// Result states. The zero ResultKind is ResultError.
const (
	ResultError ResultKind = iota
	ResultUnset
	ResultNull
	ResultValue
)

// EvalResult is the outcome of evaluating an expression against a
// document: a value, null, unset (the referenced field is absent) or an
// error.
type EvalResult struct {
	kind  ResultKind
	value Value
}

// ValueResult wraps v. A null v yields a null result.
func ValueResult(v Value) EvalResult {
	if v.IsNull() {
		return EvalResult{kind: ResultNull}
	}
	return EvalResult{kind: ResultValue, value: v}
}

// BoolResult returns a boolean value result.
func BoolResult(b bool) EvalResult { return ValueResult(Bool(b)) }

// NullResult returns the null result.
func NullResult() EvalResult { return EvalResult{kind: ResultNull} }

// UnsetResult returns the result of reading an absent field.
func UnsetResult() EvalResult { return EvalResult{kind: ResultUnset} }

// ErrorResult returns the error result.
func ErrorResult() EvalResult { return EvalResult{kind: ResultError} }

// Kind returns the state of r.
func (r EvalResult) Kind() ResultKind { return r.kind }

// Value returns the value held by r. Null results return the null value;
// unset and error results return the null value as well.
func (r EvalResult) Value() Value { return r.value }

// IsError reports whether r is an error.
func (r EvalResult) IsError() bool { return r.kind == ResultError }

// IsUnset reports whether r is unset.
func (r EvalResult) IsUnset() bool { return r.kind == ResultUnset }

// IsNull reports whether r is null.
func (r EvalResult) IsNull() bool { return r.kind == ResultNull }

// IsValue reports whether r holds a non-null value.
func (r EvalResult) IsValue() bool { return r.kind == ResultValue }

// IsErrorOrUnset reports whether r does not hold a value or null.
func (r EvalResult) IsErrorOrUnset() bool {
	return r.kind == ResultError || r.kind == ResultUnset
}

// IsTrue reports whether r holds the boolean true.
func (r EvalResult) IsTrue() bool { return r.kind == ResultValue && r.value.IsTrue() }

// IsFalse reports whether r holds the boolean false.
func (r EvalResult) IsFalse() bool { return r.kind == ResultValue && r.value.IsFalse() }
