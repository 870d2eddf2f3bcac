package main

import (
	"github.com/spf13/cobra"

	"github.com/yanqian/growth-monitor/internal/domain/advice"
	"github.com/yanqian/growth-monitor/internal/domain/assessment"
)

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Run the advice rules for an externally computed classification",
	Long:  "Run the advice rules for a classification vector, e.g. the output of a predictive model. Weight classes: 0 severely thin, 1 thin, 2 normal, 3 overweight, 4 obese. Height classes: 0 severely short, 1 short, 2 normal.",
	RunE:  runAdvise,
}

func init() {
	registerAdviseFlags(adviseCmd)
	rootCmd.AddCommand(adviseCmd)
}

func registerAdviseFlags(cmd *cobra.Command) {
	cmd.Flags().Int("age", -1, "Age in completed months (0-60), required")
	cmd.Flags().Int("weight-class", -1, "Weight class ordinal (0-4), required")
	cmd.Flags().Int("height-class", -1, "Height class ordinal (0-2), required")
	cmd.Flags().Bool("acute", false, "Acute malnutrition flag")
}

// adviceRequestFromFlags leaves unset flags nil so validation reports them
// as missing.
func adviceRequestFromFlags(cmd *cobra.Command) (assessment.AdviceRequest, error) {
	flags := cmd.Flags()
	var req assessment.AdviceRequest
	for name, dst := range map[string]**int{
		"age":          &req.AgeMonths,
		"weight-class": &req.WeightClass,
		"height-class": &req.HeightClass,
	} {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetInt(name)
		if err != nil {
			return assessment.AdviceRequest{}, err
		}
		*dst = &v
	}
	acute, err := flags.GetBool("acute")
	if err != nil {
		return assessment.AdviceRequest{}, err
	}
	req.Acute = &acute
	return req, nil
}

func runAdvise(cmd *cobra.Command, _ []string) error {
	req, err := adviceRequestFromFlags(cmd)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), advice.Advise(*req.AgeMonths, req.Vector()), false)
}
