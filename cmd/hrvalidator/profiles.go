package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"alfredoptarigan/hr-validator/internal/config"
	"alfredoptarigan/hr-validator/internal/services"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the available prompt profiles",
	RunE:  runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	profiles, err := services.NewProfileRegistry(cfg.Evaluation.Profile)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tMODEL\tSAMPLING\tTAGS\tDESCRIPTION")
	for _, p := range profiles.Summaries() {
		version := p.Version
		if p.Default {
			version += " *"
		}
		sampling := "default"
		if p.Temperature != nil && p.TopP != nil {
			sampling = fmt.Sprintf("t=%.2f p=%.2f", *p.Temperature, *p.TopP)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			version, p.DefaultModel, sampling, strings.Join(p.TagFields, ","), p.Description)
	}
	return w.Flush()
}
