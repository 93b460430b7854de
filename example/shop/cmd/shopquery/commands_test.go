package main

import (
	"bytes"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/query-criteria-go/example/shop"
)

func Test_Products_Command_Prints_A_Table(t *testing.T) {
	// act
	output, err := executeCommand(t, "products", "--description-like", "%phone%", "--sort", "price", "--fetch-category")

	// assert
	require.NoError(t, err)

	lines := nonEmptyLines(output)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[1], "Headphones")
	assert.Contains(t, lines[1], "Accessories")
	assert.Contains(t, lines[2], "Smartphone")
	assert.Contains(t, lines[2], "Electronics")
}

func Test_Products_Command_Prints_JSON(t *testing.T) {
	// act
	output, err := executeCommand(t, "products", "--min-quantity", "12", "--format", "json")

	// assert
	require.NoError(t, err)

	var products []shop.Product
	require.NoError(t, jsonAPI.UnmarshalFromString(output, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Smartphone", products[0].Name)
}

func Test_Products_Command_Pages_And_Gets(t *testing.T) {
	testCases := []struct {
		name          string
		args          []string
		expectedNames []string
	}{
		{name: "page", args: []string{"--sort", "name", "--limit", "2", "--offset", "1"}, expectedNames: []string{"Laptop", "Monitor"}},
		{name: "first", args: []string{"--sort", "price_desc", "--first"}, expectedNames: []string{"Laptop"}},
		{name: "first without match", args: []string{"--id", "99", "--first"}, expectedNames: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			output, err := executeCommand(t, append([]string{"products", "--format", "json"}, tc.args...)...)

			// assert
			require.NoError(t, err)

			var products []shop.Product
			require.NoError(t, jsonAPI.UnmarshalFromString(output, &products))

			names := make([]string, 0, len(products))
			for _, product := range products {
				names = append(names, product.Name)
			}

			assert.Equal(t, tc.expectedNames, names)
		})
	}
}

func Test_Orders_Command_Fetches_Items_And_Products(t *testing.T) {
	// act
	output, err := executeCommand(t,
		"orders", "--status-in", "SHIPPED,COMPLETED", "--sort-id", "--fetch-items", "--fetch-products",
	)

	// assert
	require.NoError(t, err)

	lines := nonEmptyLines(output)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "1x Laptop, 2x Headphones")
	assert.Contains(t, lines[2], "2x Monitor, 3x Headphones, 1x Smartphone")
}

func Test_Commands_Reject_Invalid_Input(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{name: "unknown format", args: []string{"products", "--format", "xml"}},
		{name: "unknown sort", args: []string{"products", "--sort", "color"}},
		{name: "positional argument", args: []string{"orders", "PENDING"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := executeCommand(t, tc.args...)

			// assert
			assert.Error(t, err)
		})
	}
}

/***** Helpers *****/

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("CRITERIA_ADAPTER_TYPE", "sqlx.db")
	t.Setenv("CRITERIA_DRIVER", "sqlite3")
	t.Setenv("CRITERIA_DIALECT", "")
	t.Setenv("CRITERIA_DSN", ":memory:")

	var out bytes.Buffer

	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(slices.Clone(args), "--config="+t.TempDir()))

	err := cmd.Execute()

	return out.String(), err
}

func nonEmptyLines(output string) []string {
	var lines []string
	for _, line := range bytes.Split([]byte(output), []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			lines = append(lines, string(line))
		}
	}

	return lines
}
