/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notargets/resim/InputParameters"
)

// ExampleCmd writes the default scenario, a starting point for new input files
var ExampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print an example scenario file",
	Long: `
Prints the default scenario in YAML, the format read by "resim run -I".

resim example > scenario.yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var data []byte
		if data, err = InputParameters.Example(); err != nil {
			return
		}
		out, _ := cmd.Flags().GetString("output")
		if len(out) == 0 {
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s", data)
			return
		}
		return os.WriteFile(out, data, 0644)
	},
}

func init() {
	rootCmd.AddCommand(ExampleCmd)
	ExampleCmd.Flags().StringP("output", "o", "", "file to write instead of stdout")
}
