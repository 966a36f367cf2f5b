package meta

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metareflect/property"
	"metareflect/reflector"
)

type address struct {
	City string
	Zip  string
}

type customer struct {
	Name    string
	Address *address
}

type item struct {
	Name  string
	Price float64
}

type order struct {
	ID     int
	Items  []item
	Labels map[string]string
	Payer  *customer
	Extra  any
}

func sampleOrder() *order {
	return &order{
		ID: 7,
		Items: []item{
			{Name: "keyboard", Price: 49.5},
			{Name: "mouse", Price: 19.0},
		},
		Labels: map[string]string{"color": "black"},
	}
}

func TestGetValuePaths(t *testing.T) {
	m := SystemMetaObject(sampleOrder())

	tests := []struct {
		path string
		want any
	}{
		{"ID", 7},
		{"items[0].name", "keyboard"},
		{"items[1].price", 19.0},
		{"labels[color]", "black"},
		{"payer", nil},
		{"payer.name", nil},
		{"payer.address.city", nil},
	}
	for _, tt := range tests {
		got, err := m.GetValue(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestGetValueErrors(t *testing.T) {
	m := SystemMetaObject(sampleOrder())

	_, err := m.GetValue("missing")
	assert.ErrorContains(t, err, `no getter for property named "missing"`)

	_, err = m.GetValue("items[9].name")
	assert.ErrorContains(t, err, "out of range")

	_, err = m.GetValue("items[x]")
	assert.ErrorContains(t, err, "not a number")

	_, err = m.GetValue("id[0]")
	assert.ErrorContains(t, err, "does not take an index")
}

func TestSetValueMutatesOriginal(t *testing.T) {
	o := sampleOrder()
	m := SystemMetaObject(o)

	require.NoError(t, m.SetValue("ID", 8))
	require.NoError(t, m.SetValue("items[0].price", 59.5))
	require.NoError(t, m.SetValue("labels[color]", "silver"))

	assert.Equal(t, 8, o.ID)
	assert.Equal(t, 59.5, o.Items[0].Price)
	assert.Equal(t, "silver", o.Labels["color"])
}

func TestSetValueInstantiatesNilLinks(t *testing.T) {
	o := sampleOrder()
	m := SystemMetaObject(o)

	require.NoError(t, m.SetValue("payer.address.city", "Oslo"))

	require.NotNil(t, o.Payer)
	require.NotNil(t, o.Payer.Address)
	assert.Equal(t, "Oslo", o.Payer.Address.City)
}

func TestSetValueNilThroughNilLinkIsNoOp(t *testing.T) {
	o := sampleOrder()
	m := SystemMetaObject(o)

	require.NoError(t, m.SetValue("payer.name", nil))
	assert.Nil(t, o.Payer)
}

func TestSetValueNilZeroesLeaf(t *testing.T) {
	o := sampleOrder()
	o.Payer = &customer{Name: "bob", Address: &address{City: "Bergen"}}
	m := SystemMetaObject(o)

	require.NoError(t, m.SetValue("payer.name", nil))
	require.NoError(t, m.SetValue("payer.address", nil))

	assert.Equal(t, "", o.Payer.Name)
	assert.Nil(t, o.Payer.Address)
}

func TestMapNavigation(t *testing.T) {
	doc := map[string]any{
		"server": map[string]any{
			"host":  "localhost",
			"ports": []any{8080, 8443},
		},
	}
	m := SystemMetaObject(doc)

	got, err := m.GetValue("server.host")
	require.NoError(t, err)
	assert.Equal(t, "localhost", got)

	got, err = m.GetValue("server.ports[1]")
	require.NoError(t, err)
	assert.Equal(t, 8443, got)

	// absent keys read as nil, at any depth
	got, err = m.GetValue("server.user")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = m.GetValue("cluster.name")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMapSetCreatesNestedMaps(t *testing.T) {
	doc := map[string]any{}
	m := SystemMetaObject(doc)

	require.NoError(t, m.SetValue("server.tls.cert", "/etc/cert.pem"))

	server, ok := doc["server"].(map[string]any)
	require.True(t, ok)
	tls, ok := server["tls"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/etc/cert.pem", tls["cert"])
}

func TestMapWrapperQueries(t *testing.T) {
	m := SystemMetaObject(map[string]any{"a": 1, "b": "two"})

	assert.Equal(t, []string{"a", "b"}, m.GetterNames())
	assert.True(t, m.HasGetter("a"))
	assert.False(t, m.HasGetter("c"))
	assert.True(t, m.HasSetter("c"))
	assert.Equal(t, "a", m.FindProperty("a", false))

	gt, err := m.GetterType("b")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(""), gt)

	gt, err = m.GetterType("c")
	require.NoError(t, err)
	assert.Equal(t, anyType, gt)
}

func TestListAccess(t *testing.T) {
	nums := []int{1, 2, 3}
	m := SystemMetaObject(nums)

	require.True(t, m.IsCollection())

	got, err := m.GetValue("[1]")
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	require.NoError(t, m.SetValue("[0]", 10))
	assert.Equal(t, 10, nums[0])

	_, err = m.GetValue("[5]")
	assert.ErrorContains(t, err, "out of range")

	_, err = m.GetValue("length")
	assert.ErrorContains(t, err, "[index] access")
}

func TestListAddRequiresPointer(t *testing.T) {
	nums := []int{1}
	assert.ErrorContains(t, SystemMetaObject(nums).Add(2), "pointer")

	m := SystemMetaObject(&nums)
	require.NoError(t, m.Add(2))
	require.NoError(t, m.AddAll([]any{3, 4}))
	assert.Equal(t, []int{1, 2, 3, 4}, nums)
}

func TestBeanIsNotACollection(t *testing.T) {
	m := SystemMetaObject(sampleOrder())

	assert.False(t, m.IsCollection())
	assert.ErrorContains(t, m.Add("x"), "not a collection")
}

func TestGetterTypePrefersRuntimeType(t *testing.T) {
	o := sampleOrder()
	m := SystemMetaObject(o)

	// declared any, no value present
	gt, err := m.GetterType("extra")
	require.NoError(t, err)
	assert.Equal(t, anyType, gt)

	o.Extra = &customer{Name: "eve"}

	got, err := m.GetValue("extra.name")
	require.NoError(t, err)
	assert.Equal(t, "eve", got)

	gt, err = m.GetterType("extra.name")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(""), gt)
}

func TestHasGetterFollowsValues(t *testing.T) {
	m := SystemMetaObject(sampleOrder())

	assert.True(t, m.HasGetter("items[0].name"))
	assert.True(t, m.HasGetter("payer.address.city")) // type metadata across the nil link
	assert.False(t, m.HasGetter("payer.phone"))
	assert.True(t, m.HasSetter("payer.address.zip"))
}

func TestMetaObjectForProperty(t *testing.T) {
	o := sampleOrder()
	m := SystemMetaObject(o)

	sub, err := m.MetaObjectForProperty("items[0]")
	require.NoError(t, err)
	assert.Equal(t, item{Name: "keyboard", Price: 49.5}, sub.Original())

	require.NoError(t, sub.SetValue("price", 99.0))
	assert.Equal(t, 99.0, o.Items[0].Price)

	null, err := m.MetaObjectForProperty("payer.address")
	require.NoError(t, err)
	assert.True(t, null.IsNull())
	assert.Nil(t, null.Original())
}

func TestFindPropertyOnBean(t *testing.T) {
	m := SystemMetaObject(sampleOrder())

	assert.Equal(t, "payer.name", m.FindProperty("PAYER.NAME", false))
	assert.Equal(t, "ID", m.FindProperty("_i_d", true))
}

func TestNullMetaObject(t *testing.T) {
	m := ForObject(nil, DefaultObjectFactory{}, DefaultWrapperFactory{}, reflector.NewFactory())

	assert.True(t, m.IsNull())
	assert.Nil(t, m.Original())
	assert.False(t, m.HasGetter("x"))

	got, err := m.GetValue("x.y")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorContains(t, m.SetValue("x", 1), "nil object")
}

type maskedSecret struct {
	value string
}

type maskedWrapper struct {
	secret *maskedSecret
}

func (w *maskedWrapper) Get(tok property.Tokenizer) (reflect.Value, error) {
	if tok.Name() != "value" {
		return reflect.Value{}, fmt.Errorf("no property %q", tok.Name())
	}

	return reflect.ValueOf("***"), nil
}

func (w *maskedWrapper) Set(property.Tokenizer, reflect.Value) error { return errors.New("read only") }

func (w *maskedWrapper) FindProperty(name string, _ bool) string { return name }

func (w *maskedWrapper) GetterNames() []string { return []string{"value"} }

func (w *maskedWrapper) SetterNames() []string { return nil }

func (w *maskedWrapper) GetterType(string) (reflect.Type, error) { return reflect.TypeOf(""), nil }

func (w *maskedWrapper) SetterType(string) (reflect.Type, error) {
	return nil, errors.New("read only")
}

func (w *maskedWrapper) HasGetter(name string) bool { return name == "value" }

func (w *maskedWrapper) HasSetter(string) bool { return false }

func (w *maskedWrapper) Instantiate(property.Tokenizer, ObjectFactory) (*MetaObject, error) {
	return nil, errors.New("read only")
}

func (w *maskedWrapper) IsCollection() bool { return false }

func (w *maskedWrapper) Add(reflect.Value) error { return errors.New("read only") }

func (w *maskedWrapper) AddAll([]reflect.Value) error { return errors.New("read only") }

type maskedWrapperFactory struct{}

func (maskedWrapperFactory) HasWrapperFor(o any) bool {
	_, ok := o.(*maskedSecret)
	return ok
}

func (maskedWrapperFactory) WrapperFor(_ *MetaObject, o any) ObjectWrapper {
	return &maskedWrapper{secret: o.(*maskedSecret)}
}

type vault struct {
	Token *maskedSecret
}

func TestCustomWrapperFactory(t *testing.T) {
	v := &vault{Token: &maskedSecret{value: "hunter2"}}
	m := ForObject(v, DefaultObjectFactory{}, maskedWrapperFactory{}, reflector.NewFactory())

	// the custom wrapper takes over when navigation reaches the secret
	got, err := m.GetValue("token.value")
	require.NoError(t, err)
	assert.Equal(t, "***", got)

	assert.ErrorContains(t, m.SetValue("token.value", "x"), "read only")
}

func TestObjectFactoryCreate(t *testing.T) {
	f := DefaultObjectFactory{}

	v, err := f.Create(reflect.TypeOf(map[string]int{}))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{}, v)

	v, err = f.Create(reflect.TypeOf([]string{}))
	require.NoError(t, err)
	assert.Equal(t, []string{}, v)

	v, err = f.Create(reflect.TypeOf(address{}))
	require.NoError(t, err)
	assert.Equal(t, &address{}, v)

	v, err = f.Create(anyType)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, v)

	_, err = f.Create(reflect.TypeOf(0))
	assert.ErrorContains(t, err, "cannot instantiate")

	assert.True(t, f.IsCollection(reflect.TypeOf([]int{})))
	assert.False(t, f.IsCollection(reflect.TypeOf(map[string]int{})))
}
