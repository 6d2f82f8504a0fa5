package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"

	"github.com/vipinkashyap/go-guardian/internal/config"
)

func init() {
	var configPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse a route table and run guard propagation without deciding anything",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return err
			}
			switch strings.ToLower(filepath.Ext(configPath)) {
			case ".json", ".jsonc":
				data = jsonc.ToJSON(data)
			}
			if err := config.Validate(data, nil); err != nil {
				return err
			}
			fmt.Printf("%s: ok\n", configPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "routes.yaml", "route-table file (YAML or JSONC)")
	rootCmd.AddCommand(cmd)
}
