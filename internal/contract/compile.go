package contract

import (
	"strings"

	"github.com/caselens/caselens/internal/schema"
)

// Compile maps a schema tree to its contract. The mapping is
// deterministic: field order follows insertion order and nested contract
// names are joined from ancestor names, so compiling the same tree twice
// yields structurally identical contracts.
//
// Nodes whose name is empty after trimming are silently excluded. A
// half-configured field must not break compilation; it simply does not
// appear in the request.
func Compile(name string, tree *schema.Tree) *Contract {
	if name == "" {
		name = "extraction"
	}
	return &Contract{
		Name:   name,
		Fields: compileFields(name, tree.Fields),
	}
}

func compileFields(prefix string, nodes []*schema.Node) []Field {
	var fields []Field
	for _, n := range nodes {
		fieldName := strings.TrimSpace(n.Name)
		if fieldName == "" {
			continue
		}

		f := Field{
			Name:     fieldName,
			Repeated: n.Repeated,
		}

		switch n.Kind {
		case schema.KindObject:
			nested := prefix + "_" + fieldName
			f.Object = &Contract{
				Name:   nested,
				Fields: compileFields(nested, n.Children),
			}
		case schema.KindNumber:
			f.Type = TypeInteger
		case schema.KindDate:
			// Free-form text at the contract level; the hint only
			// affects rendering.
			f.Type = TypeString
			f.Hint = HintDate
		default:
			f.Type = TypeString
		}

		fields = append(fields, f)
	}
	return fields
}
