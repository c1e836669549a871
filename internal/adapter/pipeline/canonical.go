// Package pipeline contains the static side of pipelines: canonical forms,
// structural analysis used by caches, conversion of legacy queries and
// decoding of JSON pipeline definitions.
package pipeline

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/vinicius-lino-figueiredo/gequery/domain"
	"github.com/vinicius-lino-figueiredo/gequery/internal/adapter/hasher"
)

var valueHasher = hasher.NewHasher()

// CanonifyExpr returns the canonical form of an expression.
func CanonifyExpr(expr domain.Expr) string {
	var sb strings.Builder
	canonifyExpr(&sb, expr)
	return sb.String()
}

func canonifyExpr(sb *strings.Builder, expr domain.Expr) {
	switch x := expr.(type) {
	case domain.Field:
		fmt.Fprintf(sb, "fld(%s)", x.Name())
	case domain.Constant:
		fmt.Fprintf(sb, "cst(%s)", valueHasher.CanonicalID(x.Value))
	case domain.Function:
		sb.WriteString("fn(")
		sb.WriteString(x.Name)
		sb.WriteString(",[")
		canonifyExprs(sb, x.Params)
		sb.WriteString("])")
	case domain.ListOfExprs:
		sb.WriteString("list([")
		canonifyExprs(sb, x.Exprs)
		sb.WriteString("])")
	default:
		panic(fmt.Sprintf("unknown expression type %T", expr))
	}
}

func canonifyExprs(sb *strings.Builder, exprs []domain.Expr) {
	for i, e := range exprs {
		if i > 0 {
			sb.WriteByte(',')
		}
		canonifyExpr(sb, e)
	}
}

// canonifyExprMap writes key=expr pairs sorted by key.
func canonifyExprMap(sb *strings.Builder, m map[string]domain.Expr) {
	for i, k := range slices.Sorted(maps.Keys(m)) {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		canonifyExpr(sb, m[k])
	}
}

// CanonifyStage returns the canonical form of a stage.
func CanonifyStage(st domain.Stage) string {
	var sb strings.Builder
	sb.WriteString(st.Name())
	sb.WriteByte('(')

	switch s := st.(type) {
	case domain.CollectionSource:
		sb.WriteString(s.Path)
	case domain.CollectionGroupSource:
		sb.WriteString(s.CollectionID)
	case domain.DatabaseSource:
	case domain.DocumentsSource:
		sb.WriteString(strings.Join(slices.Sorted(slices.Values(s.Paths)), ","))
	case domain.Where:
		canonifyExpr(&sb, s.Condition)
	case domain.Sort:
		for i, o := range s.Orderings {
			if i > 0 {
				sb.WriteByte(',')
			}
			canonifyExpr(&sb, o.Expr)
			sb.WriteByte(' ')
			sb.WriteString(string(o.Direction))
		}
	case domain.Limit:
		sb.WriteString(strconv.FormatInt(s.N, 10))
	case domain.Offset:
		sb.WriteString(strconv.FormatInt(s.N, 10))
	case domain.Select:
		canonifyExprMap(&sb, s.Fields)
	case domain.AddFields:
		canonifyExprMap(&sb, s.Fields)
	case domain.Distinct:
		canonifyExprMap(&sb, s.Groups)
	case domain.Aggregate:
		canonifyExprMap(&sb, s.Accumulators)
		if len(s.Groups) > 0 {
			sb.WriteString(")grouping(")
			canonifyExprMap(&sb, s.Groups)
		}
	case domain.FindNearest:
		canonifyExpr(&sb, s.Field)
		sb.WriteByte(',')
		sb.WriteString(s.DistanceMeasure)
		sb.WriteString(",[")
		for i, f := range s.Vector {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(hasher.FormatNumber(f))
		}
		sb.WriteByte(']')
		if s.Limit != 0 {
			sb.WriteByte(',')
			sb.WriteString(strconv.FormatInt(s.Limit, 10))
		}
		if s.DistanceField != "" {
			sb.WriteByte(',')
			sb.WriteString(s.DistanceField)
		}
	default:
		panic(fmt.Sprintf("unknown stage type %T", st))
	}

	sb.WriteByte(')')
	return sb.String()
}

// Canonify returns the canonical form of a pipeline: the canonical forms of
// its stages joined by "|".
func Canonify(p domain.Pipeline) string {
	stages := make([]string, len(p.Stages))
	for i, st := range p.Stages {
		stages[i] = CanonifyStage(st)
	}
	return strings.Join(stages, "|")
}

// Equal reports whether both pipelines have the same canonical form.
func Equal(a, b domain.Pipeline) bool {
	return Canonify(a) == Canonify(b)
}
