package ir

import (
	"fmt"
	"strings"
)

// Render pretty-prints a Ty, consulting the current Program oracle (if
// any) to resolve item and associated-type ids to their declared names.
// With no program installed it falls back to the structural String()
// rendering. Render never looks inside an inference table — callers that
// want current-variable-state output must deep-normalize first.
func Render(t Ty) string {
	prog, ok := CurrentProgram()
	if !ok {
		return t.String()
	}
	return renderTy(t, prog)
}

func renderTy(t Ty, prog Program) string {
	switch v := t.(type) {
	case ApplicationTy:
		name := renderTypeName(v.Name, prog)
		if len(v.Parameters) == 0 {
			return name
		}
		return name + "<" + renderParameters(v.Parameters, prog) + ">"
	case ProjectionTy:
		datum, ok := prog.AssociatedTyDatum(v.AssocTypeID)
		if !ok {
			return t.String()
		}
		trait, ownParams, traitParams := splitForRender(datum, v.Parameters)
		return fmt.Sprintf("<%s as %s<%s>>::%s<%s>",
			renderParameters(trait, prog), datum.TraitID, renderParameters(traitParams, prog),
			datum.Name, renderParameters(ownParams, prog))
	case UnselectedProjectionTy:
		return renderTypeName(v.TypeName, prog) + "::(" + renderParameters(v.Parameters, prog) + ")"
	case QuantifiedTy:
		return fmt.Sprintf("for<%d> %s", v.NumBinders, renderTy(v.Inner, prog))
	default:
		return t.String()
	}
}

// splitForRender partitions a projection's parameters the same way
// SplitProjection does, without requiring the caller to carry a full
// ProjectionTy just for rendering: [self, ...traitParams, ...ownParams]
// where traitParams count is len(Parameters)-NumOwnParameters-1.
func splitForRender(datum AssociatedTyDatum, params []Parameter) (self []Parameter, ownParams []Parameter, traitParams []Parameter) {
	n := len(params)
	own := datum.NumOwnParameters
	if own > n {
		own = 0
	}
	traitEnd := n - own
	if traitEnd < 1 {
		traitEnd = n
	}
	if traitEnd == 0 {
		return nil, params, nil
	}
	return params[:1], params[traitEnd:], params[1:traitEnd]
}

func renderTypeName(n TypeName, prog Program) string {
	switch v := n.(type) {
	case ItemTypeName:
		if k, ok := prog.TypeKind(v.ID); ok {
			return k.Name
		}
		return n.String()
	case AssocTypeName:
		if d, ok := prog.AssociatedTyDatum(v.ID); ok {
			return d.Name
		}
		return n.String()
	default:
		return n.String()
	}
}

func renderParameters(params []Parameter, prog Program) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if tp, ok := p.(TyParameter); ok {
			parts[i] = renderTy(tp.Ty, prog)
		} else {
			parts[i] = p.String()
		}
	}
	return strings.Join(parts, ", ")
}
