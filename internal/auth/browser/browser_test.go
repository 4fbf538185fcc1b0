package browser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsCallback(t *testing.T) {
	table := []struct {
		target   string
		expected bool
	}{
		{target: "inventoryapp://auth/success?username=alice&session_token=x", expected: true},
		{target: "InventoryApp://auth/error", expected: true},
		{target: "https://accounts.google.com/o/oauth2/auth", expected: false},
		{target: "https://inventory.example.com/google-login?mobile=true", expected: false},
		{target: "inventoryapplication://x", expected: false},
	}

	for _, test := range table {
		require.Equal(t, test.expected, IsCallback(test.target, "inventoryapp"), test.target)
	}
}
