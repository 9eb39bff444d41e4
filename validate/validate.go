package validate

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/skyarc-format/skyarc/ir"
	"github.com/skyarc-format/skyarc/registry"
	"github.com/skyarc-format/skyarc/schema"
)

// ArrayValue is implemented by array-backed leaf payloads that expose their
// dimensionality and element type without forcing the bulk payload.
type ArrayValue interface {
	NDim() int
	DatatypeName() string
}

// Validator checks generic trees against schemas. A registry, when present,
// resolves the schemas of nested tagged subtrees; without one, tagged
// subtrees are checked for tag shape only.
type Validator struct {
	reg *registry.Registry

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
	checks   map[string]*vm.Program
}

func New(reg *registry.Registry) *Validator {
	return &Validator{
		reg:      reg,
		patterns: map[string]*regexp.Regexp{},
		checks:   map[string]*vm.Program{},
	}
}

// Validate checks y against s and returns nil or an Issues error. It is a
// no-op while validation is disabled process-wide.
func (v *Validator) Validate(y *ir.Node, s *schema.Schema) error {
	if !Enabled() {
		return nil
	}
	return v.check(y, s, nil).OrNil()
}

func (v *Validator) check(y *ir.Node, s *schema.Schema, iss Issues) Issues {
	for _, sub := range s.AllOf {
		iss = v.check(y, sub, iss)
	}
	if len(s.AnyOf) > 0 {
		var best Issues
		ok := false
		for _, sub := range s.AnyOf {
			branch := v.check(y, sub, nil)
			if len(branch) == 0 {
				ok = true
				break
			}
			if best == nil || len(branch) < len(best) {
				best = branch
			}
		}
		if !ok {
			iss = append(iss, best...)
		}
	}
	return v.checkOwn(y, s, iss)
}

// checkOwn applies the keywords declared directly on s; combinator branches
// are handled by check.
func (v *Validator) checkOwn(y *ir.Node, s *schema.Schema, iss Issues) Issues {
	if s.Tag != "" {
		return v.checkTagged(y, s, iss)
	}
	if k := s.ExplicitKind(); k != schema.Unknown {
		if !kindMatches(k, y) {
			return append(iss, Issue{
				Path:    y.Path(),
				Code:    CodeInvalidType,
				Message: fmt.Sprintf("want %s, have %s", k, y.Type),
			})
		}
	}
	if len(s.Enum) > 0 {
		found := false
		for _, e := range s.Enum {
			if ir.Equal(y, e) {
				found = true
				break
			}
		}
		if !found {
			iss = append(iss, Issue{
				Path:    y.Path(),
				Code:    CodeInvalidEnum,
				Message: fmt.Sprintf("%v not among the allowed values", y.Any()),
			})
		}
	}
	switch y.Type {
	case ir.ObjectType:
		iss = v.checkObject(y, s, iss)
	case ir.ArrayType:
		iss = v.checkArray(y, s, iss)
	case ir.StringType:
		iss = v.checkString(y, s, iss)
	case ir.NumberType:
		iss = v.checkNumber(y, s, iss)
	}
	if s.Check != "" {
		iss = v.checkExpr(y, s.Check, iss)
	}
	return iss
}

func kindMatches(k schema.Kind, y *ir.Node) bool {
	switch k {
	case schema.Object:
		return y.Type == ir.ObjectType
	case schema.Array:
		return y.Type == ir.ArrayType
	case schema.String:
		return y.Type == ir.StringType
	case schema.Integer:
		return y.Type == ir.NumberType && y.Int64 != nil
	case schema.Number:
		return y.Type == ir.NumberType
	case schema.Boolean:
		return y.Type == ir.BoolType
	case schema.Null:
		return y.Type == ir.NullType
	}
	return true
}

func (v *Validator) checkObject(y *ir.Node, s *schema.Schema, iss Issues) Issues {
	for _, name := range s.Required {
		if ir.Get(y, name) == nil {
			iss = append(iss, Issue{
				Path:    y.Path(),
				Code:    CodeRequired,
				Message: fmt.Sprintf("missing required field %q", name),
			})
		}
	}
	for _, p := range s.Properties {
		val := ir.Get(y, p.Name)
		if val == nil {
			continue
		}
		iss = v.check(val, p.Schema, iss)
	}
	return iss
}

func (v *Validator) checkArray(y *ir.Node, s *schema.Schema, iss Issues) Issues {
	n := len(y.Values)
	if s.MinItems != nil && n < *s.MinItems {
		iss = append(iss, Issue{
			Path:    y.Path(),
			Code:    CodeTooShort,
			Message: fmt.Sprintf("%d items, want at least %d", n, *s.MinItems),
		})
	}
	if s.MaxItems != nil && n > *s.MaxItems {
		iss = append(iss, Issue{
			Path:    y.Path(),
			Code:    CodeTooLong,
			Message: fmt.Sprintf("%d items, want at most %d", n, *s.MaxItems),
		})
	}
	switch {
	case s.Items != nil:
		for _, elem := range y.Values {
			iss = v.check(elem, s.Items, iss)
		}
	case len(s.TupleItems) > 0:
		// elements past the last positional schema repeat it
		for i, elem := range y.Values {
			sub := s.TupleItems[min(i, len(s.TupleItems)-1)]
			iss = v.check(elem, sub, iss)
		}
	}
	return iss
}

func (v *Validator) checkString(y *ir.Node, s *schema.Schema, iss Issues) Issues {
	if s.Pattern == "" {
		return iss
	}
	re, err := v.pattern(s.Pattern)
	if err != nil {
		return append(iss, Issue{
			Path:    y.Path(),
			Code:    CodePattern,
			Message: fmt.Sprintf("bad pattern %q: %v", s.Pattern, err),
		})
	}
	if !re.MatchString(y.String) {
		iss = append(iss, Issue{
			Path:    y.Path(),
			Code:    CodePattern,
			Message: fmt.Sprintf("%q does not match %q", y.String, s.Pattern),
		})
	}
	return iss
}

func (v *Validator) checkNumber(y *ir.Node, s *schema.Schema, iss Issues) Issues {
	if s.Minimum == nil && s.Maximum == nil {
		return iss
	}
	f, ok := y.AsFloat()
	if !ok {
		return iss
	}
	if s.Minimum != nil && f < *s.Minimum {
		iss = append(iss, Issue{
			Path:    y.Path(),
			Code:    CodeTooSmall,
			Message: fmt.Sprintf("%v below minimum %v", f, *s.Minimum),
		})
	}
	if s.Maximum != nil && f > *s.Maximum {
		iss = append(iss, Issue{
			Path:    y.Path(),
			Code:    CodeTooBig,
			Message: fmt.Sprintf("%v above maximum %v", f, *s.Maximum),
		})
	}
	return iss
}

func (v *Validator) checkTagged(y *ir.Node, s *schema.Schema, iss Issues) Issues {
	tag := y.Tag
	if y.Type == ir.LeafType && y.Leaf != nil {
		tag = y.Leaf.LeafTag()
	}
	if tag == "" || !registry.MatchPattern(s.Tag, tag) {
		return append(iss, Issue{
			Path:    y.Path(),
			Code:    CodeBadTag,
			Message: fmt.Sprintf("tag %q does not match %q", tag, s.Tag),
		})
	}
	if y.Type == ir.LeafType {
		return v.checkLeaf(y, s, iss)
	}
	// nested tagged object still in generic form: validate its own schema
	if v.reg != nil {
		if sub, err := v.reg.SchemaForTag(tag); err == nil {
			iss = v.check(y, sub, iss)
		}
	}
	return iss
}

func (v *Validator) checkLeaf(y *ir.Node, s *schema.Schema, iss Issues) Issues {
	av, ok := y.Leaf.(ArrayValue)
	if !ok {
		return iss
	}
	ndim, datatype := arrayConstraints(s)
	if ndim != nil && av.NDim() != *ndim {
		iss = append(iss, Issue{
			Path:    y.Path(),
			Code:    CodeBadShape,
			Message: fmt.Sprintf("%d dimensions, want %d", av.NDim(), *ndim),
		})
	}
	if datatype != "" && av.DatatypeName() != datatype {
		iss = append(iss, Issue{
			Path:    y.Path(),
			Code:    CodeBadDatatype,
			Message: fmt.Sprintf("datatype %s, want %s", av.DatatypeName(), datatype),
		})
	}
	return iss
}

// arrayConstraints digs ndim/datatype out of s, looking through the value
// property for quantity-shaped schemas.
func arrayConstraints(s *schema.Schema) (*int, string) {
	ndim := s.GetNDim()
	datatype := s.GetDatatype()
	if ndim == nil && datatype == "" {
		if p := s.GetProperty("value"); p != nil {
			ndim = p.GetNDim()
			datatype = p.GetDatatype()
		}
	}
	return ndim, datatype
}

func (v *Validator) checkExpr(y *ir.Node, src string, iss Issues) Issues {
	prog, err := v.compile(src)
	if err != nil {
		return append(iss, Issue{
			Path:    y.Path(),
			Code:    CodeCheckFailed,
			Message: fmt.Sprintf("bad check %q: %v", src, err),
		})
	}
	out, err := expr.Run(prog, map[string]any{"value": y.Any()})
	if err != nil {
		return append(iss, Issue{
			Path:    y.Path(),
			Code:    CodeCheckFailed,
			Message: fmt.Sprintf("check %q: %v", src, err),
		})
	}
	if ok, _ := out.(bool); !ok {
		iss = append(iss, Issue{
			Path:    y.Path(),
			Code:    CodeCheckFailed,
			Message: fmt.Sprintf("check %q failed for %v", src, y.Any()),
		})
	}
	return iss
}

func (v *Validator) pattern(src string) (*regexp.Regexp, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if re, ok := v.patterns[src]; ok {
		return re, nil
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, err
	}
	v.patterns[src] = re
	return re, nil
}

func (v *Validator) compile(src string) (*vm.Program, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if prog, ok := v.checks[src]; ok {
		return prog, nil
	}
	prog, err := expr.Compile(src, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	v.checks[src] = prog
	return prog, nil
}
