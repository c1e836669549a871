package domain

// Expr is a node of the expression tree. The set of nodes is closed:
// [Field], [Constant], [Function] and [ListOfExprs].
type Expr interface {
	expr()
}

// Field reads a document field.
type Field struct {
	Path FieldPath
}

// NewField returns a field expression for the given path segments.
func NewField(segments ...string) Field { return Field{Path: FieldPath(segments)} }

// Name returns the canonical dotted name of the field.
func (f Field) Name() string { return f.Path.CanonicalString() }

// Constant always evaluates to its value.
type Constant struct {
	Value Value
}

// NewConstant returns a constant expression.
func NewConstant(v Value) Constant { return Constant{Value: v} }

// Function applies a named function to its parameters.
type Function struct {
	Name   string
	Params []Expr
}

// NewFunction returns a function expression.
func NewFunction(name string, params ...Expr) Function {
	return Function{Name: name, Params: params}
}

// ListOfExprs is an array literal whose elements are expressions.
type ListOfExprs struct {
	Exprs []Expr
}

func (Field) expr()       {}
func (Constant) expr()    {}
func (Function) expr()    {}
func (ListOfExprs) expr() {}

// Direction is the direction of an [Ordering].
type Direction string

// Sort directions.
const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// Ordering is one sort key of a sort stage.
type Ordering struct {
	Expr      Expr
	Direction Direction
}

// Function names understood by the evaluator.
const (
	FuncAdd               = "add"
	FuncSubtract          = "subtract"
	FuncMultiply          = "multiply"
	FuncDivide            = "divide"
	FuncMod               = "mod"
	FuncEq                = "eq"
	FuncNeq               = "neq"
	FuncLt                = "lt"
	FuncLte               = "lte"
	FuncGt                = "gt"
	FuncGte               = "gte"
	FuncEqAny             = "eq_any"
	FuncNotEqAny          = "not_eq_any"
	FuncAnd               = "and"
	FuncOr                = "or"
	FuncXor               = "xor"
	FuncNot               = "not"
	FuncCond              = "cond"
	FuncExists            = "exists"
	FuncIsNaN             = "is_nan"
	FuncIsNotNaN          = "is_not_nan"
	FuncIsNull            = "is_null"
	FuncIsNotNull         = "is_not_null"
	FuncIsAbsent          = "is_absent"
	FuncIsError           = "is_error"
	FuncIfError           = "if_error"
	FuncLogicalMaximum    = "logical_maximum"
	FuncLogicalMinimum    = "logical_minimum"
	FuncStrConcat         = "str_concat"
	FuncStrContains       = "str_contains"
	FuncStartsWith        = "starts_with"
	FuncEndsWith          = "ends_with"
	FuncLike              = "like"
	FuncRegexContains     = "regex_contains"
	FuncRegexMatch        = "regex_match"
	FuncToLower           = "to_lower"
	FuncToUpper           = "to_upper"
	FuncTrim              = "trim"
	FuncCharLength        = "char_length"
	FuncByteLength        = "byte_length"
	FuncReverse           = "reverse"
	FuncReplaceFirst      = "replace_first"
	FuncReplaceAll        = "replace_all"
	FuncSubstr            = "substr"
	FuncArrayContains     = "array_contains"
	FuncArrayContainsAll  = "array_contains_all"
	FuncArrayContainsAny  = "array_contains_any"
	FuncArrayLength       = "array_length"
	FuncArrayReverse      = "array_reverse"
	FuncArrayConcat       = "array_concat"
	FuncArrayGet          = "array_get"
	FuncMapGet            = "map_get"
	FuncMapMerge          = "map_merge"
	FuncMapRemove         = "map_remove"
	FuncCosineDistance    = "cosine_distance"
	FuncDotProduct        = "dot_product"
	FuncEuclideanDistance = "euclidean_distance"
	FuncManhattanDistance = "manhattan_distance"
	FuncVectorLength      = "vector_length"
	FuncUnixMicrosToTs    = "unix_micros_to_timestamp"
	FuncUnixMillisToTs    = "unix_millis_to_timestamp"
	FuncUnixSecondsToTs   = "unix_seconds_to_timestamp"
	FuncTsToUnixMicros    = "timestamp_to_unix_micros"
	FuncTsToUnixMillis    = "timestamp_to_unix_millis"
	FuncTsToUnixSeconds   = "timestamp_to_unix_seconds"
	FuncTimestampAdd      = "timestamp_add"
	FuncTimestampSub      = "timestamp_sub"
	FuncDocumentID        = "document_id"
	FuncCount             = "count"
	FuncSum               = "sum"
	FuncAvg               = "avg"
	FuncMinimum           = "minimum"
	FuncMaximum           = "maximum"
)
