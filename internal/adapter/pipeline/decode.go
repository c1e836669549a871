package pipeline

import (
	"fmt"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/data"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/evaluator"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/fieldnavigator"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/querier"
)

// Keys of a JSON expression object. Exactly one of them must be set.
const (
	ExprField    = "field"
	ExprConstant = "constant"
	ExprFunction = "function"
	ExprArgs     = "args"
	ExprList     = "list"
)

// checker validates function names and arities of expressions.
type checker interface {
	Check(expr domain.Expr) error
}

// stageDef holds the scalar parameters of a stage definition. Expression
// parameters are read separately.
type stageDef struct {
	Stage           string    `gequery:"stage"`
	Path            string    `gequery:"path"`
	CollectionID    string    `gequery:"collection_id"`
	Paths           []string  `gequery:"paths"`
	N               int64     `gequery:"n"`
	Converted       bool      `gequery:"converted"`
	Field           string    `gequery:"field"`
	Vector          []float64 `gequery:"vector"`
	DistanceMeasure string    `gequery:"distance_measure"`
	Limit           int64     `gequery:"limit"`
	DistanceField   string    `gequery:"distance_field"`
}

// Decoder reads JSON pipeline definitions. A definition is either an
// array of stage objects or an object holding that array under "stages".
// Every stage object names its kind under "stage":
//
//	{"stages": [
//	  {"stage": "collection", "path": "users"},
//	  {"stage": "where", "condition": {"function": "gt", "args": [{"field": "age"}, {"constant": 18}]}},
//	  {"stage": "sort", "orderings": [{"expr": {"field": "age"}, "direction": "descending"}]},
//	  {"stage": "limit", "n": 10}
//	]}
//
// Constants are read with [data.ParseJSON], so JSON wrappers such as
// {"__timestamp__": "..."} and reserved-key maps are accepted.
type Decoder struct {
	fieldNavigator domain.FieldNavigator
	decoder        domain.Decoder
	checker        checker
}

// NewDecoder returns a pipeline decoder validating expressions against the
// default evaluator.
func NewDecoder() *Decoder {
	return &Decoder{
		fieldNavigator: fieldnavigator.NewFieldNavigator(),
		decoder:        decoder.NewDecoder(),
		checker:        evaluator.NewEvaluator().(*evaluator.Evaluator),
	}
}

// DecodePipeline decodes input with a new [Decoder].
func DecodePipeline(input []byte) (domain.Pipeline, error) {
	return NewDecoder().Decode(input)
}

// Decode parses input into a pipeline.
func (d *Decoder) Decode(input []byte) (domain.Pipeline, error) {
	v, err := data.ParseJSON(input)
	if err != nil {
		return domain.Pipeline{}, err
	}

	if v.IsMap() {
		stages, ok := v.AsMap()["stages"]
		if !ok {
			return domain.Pipeline{}, invalid("missing stages")
		}
		v = stages
	}
	if !v.IsArray() {
		return domain.Pipeline{}, invalid("stages must be an array")
	}

	defs := v.AsArray()
	stages := make([]domain.Stage, len(defs))
	for i, def := range defs {
		st, err := d.stage(def)
		if err != nil {
			return domain.Pipeline{}, fmt.Errorf("stage %d: %w", i, err)
		}
		stages[i] = st
	}
	return domain.NewPipeline(stages...), nil
}

func invalid(format string, args ...any) error {
	return domain.ErrInvalidPipeline{Reason: fmt.Sprintf(format, args...)}
}

func (d *Decoder) stage(v domain.Value) (domain.Stage, error) {
	if !v.IsMap() {
		return nil, invalid("stage must be an object")
	}
	var def stageDef
	if err := d.decoder.Decode(v, &def); err != nil {
		return nil, err
	}
	m := v.AsMap()

	switch def.Stage {
	case domain.StageCollection:
		if def.Path == "" {
			return nil, invalid("collection without path")
		}
		return domain.CollectionSource{Path: def.Path}, nil
	case domain.StageCollectionGroup:
		if def.CollectionID == "" {
			return nil, invalid("collection group without collection_id")
		}
		return domain.CollectionGroupSource{CollectionID: def.CollectionID}, nil
	case domain.StageDatabase:
		return domain.DatabaseSource{}, nil
	case domain.StageDocuments:
		return domain.DocumentsSource{Paths: def.Paths}, nil
	case domain.StageWhere:
		cond, err := d.checkedExpr(m, "condition")
		if err != nil {
			return nil, err
		}
		return domain.Where{Condition: cond}, nil
	case domain.StageSort:
		orderings, err := d.orderings(m["orderings"])
		if err != nil {
			return nil, err
		}
		return domain.Sort{Orderings: orderings}, nil
	case domain.StageLimit:
		if def.N < 0 {
			return nil, invalid("negative limit %d", def.N)
		}
		return domain.Limit{N: def.N, Converted: def.Converted}, nil
	case domain.StageOffset:
		if def.N < 0 {
			return nil, invalid("negative offset %d", def.N)
		}
		return domain.Offset{N: def.N}, nil
	case domain.StageSelect:
		fields, err := d.exprMap(m, "fields")
		if err != nil {
			return nil, err
		}
		return domain.Select{Fields: fields}, nil
	case domain.StageAddFields:
		fields, err := d.exprMap(m, "fields")
		if err != nil {
			return nil, err
		}
		return domain.AddFields{Fields: fields}, nil
	case domain.StageDistinct:
		groups, err := d.exprMap(m, "groups")
		if err != nil {
			return nil, err
		}
		return domain.Distinct{Groups: groups}, nil
	case domain.StageAggregate:
		return d.aggregate(m)
	case domain.StageFindNearest:
		return d.findNearest(def)
	}
	return nil, domain.ErrUnknownStage{Name: def.Stage}
}

func (d *Decoder) aggregate(m map[string]domain.Value) (domain.Stage, error) {
	accs, err := d.exprMap(m, "accumulators")
	if err != nil {
		return nil, err
	}
	var groups map[string]domain.Expr
	if _, ok := m["groups"]; ok {
		if groups, err = d.exprMap(m, "groups"); err != nil {
			return nil, err
		}
	}
	return domain.Aggregate{Accumulators: accs, Groups: groups}, nil
}

func (d *Decoder) findNearest(def stageDef) (domain.Stage, error) {
	path, err := d.fieldNavigator.ParseField(def.Field)
	if err != nil {
		return nil, err
	}
	if len(def.Vector) == 0 {
		return nil, invalid("find_nearest without vector")
	}
	switch def.DistanceMeasure {
	case querier.MeasureEuclidean, querier.MeasureCosine, querier.MeasureDotProduct:
	default:
		return nil, invalid("unknown distance measure %q", def.DistanceMeasure)
	}
	if def.Limit < 0 {
		return nil, invalid("negative limit %d", def.Limit)
	}
	return domain.FindNearest{
		Field:           domain.Field{Path: path},
		Vector:          def.Vector,
		DistanceMeasure: def.DistanceMeasure,
		Limit:           def.Limit,
		DistanceField:   def.DistanceField,
	}, nil
}

func (d *Decoder) checkedExpr(m map[string]domain.Value, key string) (domain.Expr, error) {
	v, ok := m[key]
	if !ok {
		return nil, invalid("missing %s", key)
	}
	expr, err := d.expr(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	if err := d.checker.Check(expr); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return expr, nil
}

func (d *Decoder) exprMap(m map[string]domain.Value, key string) (map[string]domain.Expr, error) {
	v, ok := m[key]
	if !ok || !v.IsMap() {
		return nil, invalid("%s must be an object", key)
	}
	res := map[string]domain.Expr{}
	for name, e := range v.AsMap() {
		expr, err := d.expr(e)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", key, name, err)
		}
		if err := d.checker.Check(expr); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", key, name, err)
		}
		res[name] = expr
	}
	return res, nil
}

func (d *Decoder) orderings(v domain.Value) ([]domain.Ordering, error) {
	if !v.IsArray() || len(v.AsArray()) == 0 {
		return nil, invalid("orderings must be a non empty array")
	}
	res := make([]domain.Ordering, len(v.AsArray()))
	for i, o := range v.AsArray() {
		if !o.IsMap() {
			return nil, invalid("ordering %d must be an object", i)
		}
		expr, err := d.checkedExpr(o.AsMap(), "expr")
		if err != nil {
			return nil, fmt.Errorf("ordering %d: %w", i, err)
		}
		dir := domain.Ascending
		if dv, ok := o.AsMap()["direction"]; ok {
			if !dv.IsString() {
				return nil, invalid("ordering %d: direction must be a string", i)
			}
			dir = domain.Direction(dv.AsString())
		}
		if dir != domain.Ascending && dir != domain.Descending {
			return nil, invalid("ordering %d: unknown direction %q", i, dir)
		}
		res[i] = domain.Ordering{Expr: expr, Direction: dir}
	}
	return res, nil
}

func (d *Decoder) expr(v domain.Value) (domain.Expr, error) {
	if !v.IsMap() {
		return nil, invalid("expression must be an object")
	}
	m := v.AsMap()

	if f, ok := m[ExprField]; ok {
		if !f.IsString() {
			return nil, invalid("field name must be a string")
		}
		path, err := d.fieldNavigator.ParseField(f.AsString())
		if err != nil {
			return nil, err
		}
		return domain.Field{Path: path}, nil
	}

	if c, ok := m[ExprConstant]; ok {
		return domain.NewConstant(c), nil
	}

	if f, ok := m[ExprFunction]; ok {
		if !f.IsString() {
			return nil, invalid("function name must be a string")
		}
		var params []domain.Expr
		if args, ok := m[ExprArgs]; ok {
			var err error
			if params, err = d.exprs(args); err != nil {
				return nil, fmt.Errorf("%s: %w", f.AsString(), err)
			}
		}
		return domain.NewFunction(f.AsString(), params...), nil
	}

	if l, ok := m[ExprList]; ok {
		exprs, err := d.exprs(l)
		if err != nil {
			return nil, err
		}
		return domain.ListOfExprs{Exprs: exprs}, nil
	}

	return nil, invalid("expression needs one of %s, %s, %s or %s", ExprField, ExprConstant, ExprFunction, ExprList)
}

func (d *Decoder) exprs(v domain.Value) ([]domain.Expr, error) {
	if !v.IsArray() {
		return nil, invalid("expression list must be an array")
	}
	res := make([]domain.Expr, len(v.AsArray()))
	for i, e := range v.AsArray() {
		expr, err := d.expr(e)
		if err != nil {
			return nil, err
		}
		res[i] = expr
	}
	return res, nil
}
