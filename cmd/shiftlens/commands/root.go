package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"shiftlens/internal/analysis"
	"shiftlens/internal/config"
	"shiftlens/internal/logging"
	"shiftlens/internal/shiftlog"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose     bool
	inputPath   string
	profilePath string
	outputPath  string
	pretty      bool

	cfg *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "shiftlens",
	Short: "shiftlens derives labor-efficiency metrics from warehouse shift logs",
	Long: `shiftlens analyzes warehouse shift-log records (one row per pick/pack/sort task)
and derives throughput, utilization, travel-time decomposition, job timing statistics
and job-type classification for dashboarding and reporting.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("shiftlens starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := uuid.NewString()
		logger := log.With().Str("runId", runID).Logger()

		buffers := cfg.Buffers
		if profilePath != "" {
			var err error
			buffers, err = config.LoadBufferProfile(profilePath, buffers)
			if err != nil {
				return err
			}
		}

		records, err := shiftlog.LoadRecords(inputPath)
		if err != nil {
			return err
		}
		logger.Info().Int("records", len(records)).Msg("Running analysis")

		result := analysis.Analyze(records, buffers)

		var data []byte
		if pretty {
			data, err = json.MarshalIndent(result, "", "  ")
		} else {
			data, err = json.Marshal(result)
		}
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}

		if outputPath == "" {
			fmt.Println(string(data))
		} else {
			if err := os.WriteFile(outputPath, data, 0644); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
			logger.Info().Str("path", outputPath).Msg("Analysis result written")
		}

		logger.Info().
			Int("anomalies", result.Health.AnomalyCount).
			Int("overlaps", result.Health.OverlapCount).
			Bool("gspt", result.Health.GSPTAvailable).
			Msg("Analysis complete")
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to the shift records JSON file")
	rootCmd.Flags().StringVarP(&profilePath, "config", "c", "", "path to a YAML buffer-config profile")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the analysis result to this file instead of stdout")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	_ = rootCmd.MarkFlagRequired("input")
}
