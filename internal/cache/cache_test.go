package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheClonerx/gecko/internal/ast"
	"github.com/TheClonerx/gecko/internal/cache"
	"github.com/TheClonerx/gecko/internal/token"
)

func TestMintBindingID_Monotonic(t *testing.T) {
	c := cache.New()
	a := c.MintBindingID()
	b := c.MintBindingID()
	assert.NotEqual(t, a, b)
	assert.Less(t, uint64(a), uint64(b))
}

// TestGetBeforeBindFails checks P1: "every get(b) before bind(b, _) fails".
func TestGetBeforeBindFails(t *testing.T) {
	c := cache.New()
	id := c.MintBindingID()
	_, err := c.Get(id)
	require.Error(t, err)
}

func TestBindThenGet(t *testing.T) {
	c := cache.New()
	id := c.MintBindingID()
	param := &ast.Parameter{
		Span_: token.Span{Start: token.Token{Lexeme: "x"}, End: token.Token{Lexeme: "x"}},
		ID:    id,
		Name:  "x",
	}
	c.Bind(id, param)

	got, err := c.Get(id)
	require.NoError(t, err)
	assert.Same(t, ast.Node(param), got)
}

func TestImplsOf(t *testing.T) {
	c := cache.New()
	structID := c.MintBindingID()
	m1 := c.MintBindingID()
	m2 := c.MintBindingID()

	c.AddImpl(structID, m1, "area")
	c.AddImpl(structID, m2, "perimeter")

	impls := c.ImplsOf(structID)
	require.Len(t, impls, 2)
	assert.Equal(t, "area", impls[0].MethodName)
	assert.Equal(t, "perimeter", impls[1].MethodName)
}

func TestMustGetPanicsOnMissing(t *testing.T) {
	c := cache.New()
	id := c.MintBindingID()
	assert.Panics(t, func() {
		c.MustGet(id)
	})
}
