package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yanqian/growth-monitor/internal/domain/assessment"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Assess one child, or a batch read from --in",
	Long:  "Assess one child from flags, or a JSON array of child profiles read from --in (\"-\" for stdin). Results are written to stdout as JSON.",
	RunE:  runAssess,
}

var (
	assessName    string
	assessGender  string
	assessAge     int
	assessWeight  float64
	assessHeight  float64
	assessMUAC    float64
	assessInput   string
	assessCompact bool
)

func init() {
	assessCmd.Flags().StringVar(&assessName, "name", "", "Child name")
	assessCmd.Flags().StringVar(&assessGender, "gender", "", "male or female")
	assessCmd.Flags().IntVar(&assessAge, "age", -1, "Age in completed months (0-60)")
	assessCmd.Flags().Float64Var(&assessWeight, "weight", 0, "Weight in kg")
	assessCmd.Flags().Float64Var(&assessHeight, "height", 0, "Length/height in cm")
	assessCmd.Flags().Float64Var(&assessMUAC, "muac", 0, "Mid-upper arm circumference in cm (optional)")
	assessCmd.Flags().StringVarP(&assessInput, "in", "i", "", "JSON file with an array of profiles (\"-\" for stdin)")
	assessCmd.Flags().BoolVar(&assessCompact, "compact", false, "Write compact JSON")

	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, err := initializeService(ctx)
	if err != nil {
		return fmt.Errorf("failed to wire assessment service: %w", err)
	}

	if assessInput != "" {
		profiles, err := readProfiles(assessInput)
		if err != nil {
			return err
		}
		items, err := svc.AssessBatch(ctx, profiles)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), items, assessCompact)
	}

	profile := assessment.Profile{
		Name:     assessName,
		Gender:   assessGender,
		WeightKg: assessWeight,
		HeightCm: assessHeight,
	}
	if cmd.Flags().Changed("age") {
		age := assessAge
		profile.AgeMonths = &age
	}
	if cmd.Flags().Changed("muac") {
		muac := assessMUAC
		profile.MUACCm = &muac
	}
	res, err := svc.Assess(ctx, profile)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), res, assessCompact)
}

func readProfiles(path string) ([]assessment.Profile, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		r = f
	}
	var profiles []assessment.Profile
	if err := json.NewDecoder(r).Decode(&profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}
	return profiles, nil
}

func writeJSON(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
