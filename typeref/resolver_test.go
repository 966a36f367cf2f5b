package typeref

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type parentOf[T any] struct {
	Value T
}

type childOfString struct {
	parentOf[string]
}

type grandparentOf[A any] struct {
	Items []A
}

type middleOf[B any] struct {
	grandparentOf[B]
}

type leafOfInt struct {
	middleOf[int]
}

func declareParent() *Decl {
	parent := NewDecl("Parent", "T")
	parent.Field("Value", parent.Param("T"))
	parent.Method("GetValue", parent.Param("T"))
	parent.Method("SetValue", nil, parent.Param("T"))
	Bind(Of[parentOf[string]](), &Parameterized{Decl: parent, Args: []Type{ClassOf[string]()}})

	return parent
}

func TestResolveVariableThroughEmbedding(t *testing.T) {
	parent := declareParent()
	src := &Class{T: Of[childOfString]()}

	got, err := ResolveFieldType(parent, "Value", src)
	require.NoError(t, err)

	c, ok := got.(*Class)
	require.Truef(t, ok, "expected *Class, got %s", spew.Sdump(got))
	assert.Equal(t, reflect.TypeOf(""), c.T)
}

func TestResolveReturnAndParamTypes(t *testing.T) {
	parent := declareParent()
	src := &Class{T: Of[childOfString]()}

	ret, err := ResolveReturnType(parent, "GetValue", src)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(""), ReflectType(ret))

	params, err := ResolveParamTypes(parent, "SetValue", src)
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, reflect.TypeOf(""), ReflectType(params[0]))
}

func TestResolveRenamedVariableAcrossChain(t *testing.T) {
	grand := NewDecl("Grandparent", "A")
	grand.Field("Items", &Array{Elem: grand.Param("A")})

	middle := NewDecl("Middle", "B")
	middle.Extends(&Parameterized{Decl: grand, Args: []Type{middle.Param("B")}})
	Bind(Of[middleOf[int]](), &Parameterized{Decl: middle, Args: []Type{ClassOf[int]()}})

	src := &Class{T: Of[leafOfInt]()}

	got, err := ResolveFieldType(grand, "Items", src)
	require.NoError(t, err)

	c, ok := got.(*Class)
	require.Truef(t, ok, "expected *Class, got %s", spew.Sdump(got))
	assert.Equal(t, reflect.TypeOf([]int(nil)), c.T)
}

func TestResolveVariableFallsBackToBound(t *testing.T) {
	d := NewDecl("Container", "E")
	d.Bound("E", ClassOf[error]())
	d.Field("Last", d.Param("E"))

	// The context type never binds E anywhere in its chain.
	got, err := ResolveFieldType(d, "Last", &Class{T: Of[struct{ X int }]()})
	require.NoError(t, err)

	c, ok := got.(*Class)
	require.True(t, ok)
	assert.Equal(t, Of[error](), c.T)
}

func TestResolveUnboundedVariableFallsBackToAny(t *testing.T) {
	d := NewDecl("Container", "E")
	d.Field("Last", d.Param("E"))

	got, err := ResolveFieldType(d, "Last", &Class{T: Of[struct{ X int }]()})
	require.NoError(t, err)

	c, ok := got.(*Class)
	require.True(t, ok)
	assert.Equal(t, anyType, c.T)
}

func TestResolveWildcardBounds(t *testing.T) {
	parent := NewDecl("Parent", "T")
	Bind(Of[parentOf[int]](), &Parameterized{Decl: parent, Args: []Type{ClassOf[int]()}})

	list := NewDecl("List", "E")
	parent.Field("Producers", &Parameterized{
		Decl: list,
		Args: []Type{&Wildcard{Upper: []Type{parent.Param("T")}}},
	})

	type host struct {
		parentOf[int]
	}

	got, err := ResolveFieldType(parent, "Producers", &Class{T: Of[host]()})
	require.NoError(t, err)

	p, ok := got.(*Parameterized)
	require.True(t, ok)
	require.Len(t, p.Args, 1)

	w, ok := p.Args[0].(*Wildcard)
	require.True(t, ok)
	require.Len(t, w.Upper, 1)
	assert.Equal(t, reflect.TypeOf(0), ReflectType(w.Upper[0]))
}

func TestResolveRejectsMalformedContext(t *testing.T) {
	d := NewDecl("Parent", "T")
	d.Field("Value", d.Param("T"))

	_, err := Resolve(d.Param("T"), &Array{Elem: ClassOf[int]()}, d)
	assert.Error(t, err)
}

func TestResolveConcretePassThrough(t *testing.T) {
	d := NewDecl("Parent", "T")

	got, err := Resolve(ClassOf[int](), &Class{T: Of[childOfString]()}, d)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(0), ReflectType(got))
}

func TestOf(t *testing.T) {
	assert.Equal(t, reflect.TypeOf(""), Of[string]())
	assert.Equal(t, reflect.TypeOf(map[string][]int(nil)), Of[map[string][]int]())

	// Interface types cannot be captured by reflect.TypeOf on a value.
	assert.Equal(t, reflect.Interface, Of[error]().Kind())
}

func TestResolveThroughBoundSupers(t *testing.T) {
	parent := NewDecl("Parent", "T")
	parent.Field("Value", parent.Param("T"))

	// outsider declares no embedded supertype, the registry supplies one
	type outsider struct{ Y int }
	BindSupers(Of[outsider](), &Parameterized{Decl: parent, Args: []Type{ClassOf[float64]()}})

	got, err := ResolveFieldType(parent, "Value", &Class{T: Of[outsider]()})
	require.NoError(t, err)

	c, ok := got.(*Class)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(0.0), c.T)
}

func TestBindSupersConcurrentRegistration(t *testing.T) {
	type detached struct{ N int }
	target := Of[detached]()

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		d := NewDecl(fmt.Sprintf("Mixin%d", i))
		g.Go(func() error {
			BindSupers(target, &Parameterized{Decl: d})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Len(t, supersOfClass(target), 16)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Class", KindClass.String())
	assert.Equal(t, "Array", KindArray.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
