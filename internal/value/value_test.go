package value

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	invalid := []any{nil, ""}
	for _, v := range invalid {
		assert.False(t, IsValid(v), "%#v", v)
	}

	valid := []any{0, false, "x", " ", json.Number("0"), []any{}, map[string]any{}, 0.0}
	for _, v := range valid {
		assert.True(t, IsValid(v), "%#v", v)
	}
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy(false))
	assert.False(t, Truthy(0))
	assert.False(t, Truthy(json.Number("0")))
	assert.False(t, Truthy(0.0))

	assert.True(t, Truthy("0"))
	assert.True(t, Truthy(true))
	assert.True(t, Truthy(json.Number("2")))
	assert.True(t, Truthy([]any{}))
	assert.True(t, Truthy(map[string]any{}))
}

func TestString(t *testing.T) {
	assert.Equal(t, "4.99", String(4.99))
	assert.Equal(t, "4.99", String(json.Number("4.99")))
	assert.Equal(t, "12", String(12))
	assert.Equal(t, "abc", String("abc"))
	assert.Equal(t, "true", String(true))
	assert.Equal(t, "", String(nil))
	assert.Equal(t, `{"a":1}`, String(map[string]any{"a": 1}))
}

func TestNumber(t *testing.T) {
	f, ok := Number("9.99")
	assert.True(t, ok)
	assert.Equal(t, 9.99, f)

	f, ok = Number(json.Number("3"))
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)

	_, ok = Number("abc")
	assert.False(t, ok)

	_, ok = Number(map[string]any{})
	assert.False(t, ok)
}

func TestInteger(t *testing.T) {
	n, ok := Integer("2")
	assert.True(t, ok)
	assert.Equal(t, int64(2), n)

	n, ok = Integer(json.Number("2.7"))
	assert.True(t, ok)
	assert.Equal(t, int64(2), n)

	_, ok = Integer("two")
	assert.False(t, ok)
}
