package declgen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"

	"metareflect/property"
)

// Render emits the registration source file for one scanned package. The
// file belongs next to the scanned sources and registers each generic
// declaration as a package-level var, then binds the instantiations in an
// init function. Returns nil when the package has nothing to register.
func Render(p *Package) ([]byte, error) {
	if len(p.Decls) == 0 && len(p.Bindings) == 0 {
		return nil, nil
	}

	var b bytes.Buffer
	b.WriteString("// Code generated by declgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", p.Name)
	b.WriteString("import (\n\t\"metareflect/typeref\"\n)\n\n")

	for _, d := range p.Decls {
		fmt.Fprintf(&b, "var %s = func() *typeref.Decl {\n", declVar(d.Name))
		fmt.Fprintf(&b, "\td := typeref.NewDecl(%q", d.Name)
		for _, param := range d.Params {
			fmt.Fprintf(&b, ", %q", param)
		}
		b.WriteString(")\n")

		for _, f := range d.Fields {
			fmt.Fprintf(&b, "\td.Field(%q, %s)\n", f.Name, renderExpr(f.Type))
		}

		for _, s := range d.Supers {
			fmt.Fprintf(&b, "\td.Extends(&typeref.Parameterized{Decl: %s, Args: []typeref.Type{%s}})\n",
				declVar(s.Decl), renderSuperArgs(s.Args))
		}

		b.WriteString("\n\treturn d\n}()\n\n")
	}

	if len(p.Bindings) > 0 {
		b.WriteString("func init() {\n")
		for _, bind := range p.Bindings {
			fmt.Fprintf(&b, "\ttyperef.Bind(typeref.Of[%s](), &typeref.Parameterized{\n", bind.Type)
			fmt.Fprintf(&b, "\t\tDecl: %s,\n", declVar(bind.Decl))
			fmt.Fprintf(&b, "\t\tArgs: []typeref.Type{%s},\n", renderClassArgs(bind.Args))
			b.WriteString("\t})\n")
		}
		b.WriteString("}\n")
	}

	src, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}

	return src, nil
}

func declVar(name string) string {
	return property.FieldToProperty(name) + "Decl"
}

func renderExpr(e *TypeExpr) string {
	if e.Param != "" {
		return fmt.Sprintf("d.Param(%q)", e.Param)
	}

	return fmt.Sprintf("&typeref.Array{Elem: %s}", renderExpr(e.Elem))
}

func renderSuperArgs(args []SuperArg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a.Param != "" {
			parts[i] = fmt.Sprintf("d.Param(%q)", a.Param)
			continue
		}

		parts[i] = fmt.Sprintf("typeref.ClassOf[%s]()", a.Type)
	}

	return strings.Join(parts, ", ")
}

func renderClassArgs(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("typeref.ClassOf[%s]()", a)
	}

	return strings.Join(parts, ", ")
}
