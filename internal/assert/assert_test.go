package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type store struct{}

func TestNotNil(t *testing.T) {
	var typedNil *store
	var iface any = typedNil

	require.PanicsWithValue(t, "store must not be nil", func() { NotNil(nil, "store") })
	require.PanicsWithValue(t, "store must not be nil", func() { NotNil(iface, "store") })
	require.NotPanics(t, func() { NotNil(&store{}, "store") })
	require.NotPanics(t, func() { NotNil(0, "count") })
}

func TestNotEmpty(t *testing.T) {
	require.PanicsWithValue(t, "callback scheme must not be empty", func() { NotEmpty("", "callback scheme") })
	require.NotPanics(t, func() { NotEmpty("inventoryapp", "callback scheme") })
}
