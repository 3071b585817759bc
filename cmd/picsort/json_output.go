package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSONList encodes items as an indented JSON array on stdout. An empty
// result prints [] so scripts can always iterate it.
func writeJSONList[T any](cmd *cobra.Command, items []T) error {
	if items == nil {
		items = []T{}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}
