// Command pumlconv converts PlantUML diagram source into draw.io
// (mxGraph) XML, and can compare a candidate draw.io document against
// a PlantUML-rendered reference SVG. Generalized from edd's
// flag-driven cmd/import/main.go into cobra subcommands.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jgraph/plantuml-drawio/convert"
	"github.com/jgraph/plantuml-drawio/harness"
)

var (
	cfgFile string
	logger  *slog.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pumlconv",
		Short: "Convert PlantUML diagrams to draw.io XML",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initConfig()
			logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./pumlconv.yaml)")
	root.AddCommand(newConvertCmd(), newCompareCmd())
	return root
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pumlconv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("PUMLCONV")
	viper.AutomaticEnv()
	// A missing config file is not fatal: every setting it could carry
	// (jar path, export binary path, output dir) has a workable zero value.
	_ = viper.ReadInConfig()
}

func newConvertCmd() *cobra.Command {
	var (
		inputFile  string
		outputFile string
		family     string
	)
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a PlantUML source file to draw.io XML",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(inputFile)
			if err != nil {
				return fmt.Errorf("reading input file: %w", err)
			}

			xml, err := convert.Convert(string(content), convert.Family(family))
			if err != nil {
				return fmt.Errorf("converting diagram: %w", err)
			}

			if outputFile == "" {
				fmt.Println(xml)
				return nil
			}
			if err := os.WriteFile(outputFile, []byte(xml), 0o644); err != nil {
				return fmt.Errorf("writing output file: %w", err)
			}
			logger.Info("wrote draw.io document", "path", outputFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "input PlantUML file (required)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&family, "family", "f", "", "diagram family (auto-detected if not specified)")
	cmd.MarkFlagRequired("input")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var (
		referenceSVG string
		candidateXML string
		family       string
		reportDir    string
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a candidate draw.io document against a PlantUML reference SVG",
		RunE: func(cmd *cobra.Command, args []string) error {
			svgBytes, err := os.ReadFile(referenceSVG)
			if err != nil {
				return fmt.Errorf("reading reference SVG: %w", err)
			}
			xmlBytes, err := os.ReadFile(candidateXML)
			if err != nil {
				return fmt.Errorf("reading candidate draw.io document: %w", err)
			}

			ref, err := harness.ExtractSVG(string(svgBytes), family)
			if err != nil {
				return fmt.Errorf("extracting reference: %w", err)
			}
			cand, err := harness.ExtractDrawio(string(xmlBytes), family)
			if err != nil {
				return fmt.Errorf("extracting candidate: %w", err)
			}

			match := harness.MatchDiagrams(ref, cand)
			issues := harness.Diff(match)
			issues = append(issues, harness.DiffActivations(ref, cand)...)
			issues = append(issues, harness.DiffNotesAndDividers(ref, cand)...)

			name := candidateNameFor(candidateXML)
			report := harness.NewReport(name, issues)

			if reportDir != "" {
				if err := harness.WriteArtifacts(reportDir, name, string(xmlBytes), svgBytes, report); err != nil {
					return fmt.Errorf("writing report artifacts: %w", err)
				}
			}

			logger.Info("comparison complete", "name", name, "score", report.Score,
				"blocking", report.Blocking, "important", report.Important, "cosmetic", report.Cosmetic)
			for _, line := range report.Summary {
				fmt.Println(line)
			}

			os.Exit(report.ExitCode())
			return nil
		},
	}
	cmd.Flags().StringVar(&referenceSVG, "reference", "", "PlantUML reference SVG file (required)")
	cmd.Flags().StringVar(&candidateXML, "candidate", "", "candidate draw.io XML file (required)")
	cmd.Flags().StringVar(&family, "family", "sequence", "diagram family")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "directory to write comparison artifacts into")
	cmd.MarkFlagRequired("reference")
	cmd.MarkFlagRequired("candidate")
	return cmd
}

func candidateNameFor(path string) string {
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			base = path[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}
