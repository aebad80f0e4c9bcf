package main

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guru03-coder/MediVerse/internal/logging"
	"github.com/guru03-coder/MediVerse/internal/models"
	"github.com/guru03-coder/MediVerse/internal/triage"
)

func assessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Triage one set of symptoms and print the prediction as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			symptoms, _ := cmd.Flags().GetString("symptoms")
			fast, _ := cmd.Flags().GetBool("fast")
			if strings.TrimSpace(symptoms) == "" {
				return errors.New("--symptoms is required")
			}

			var vitals models.Vitals
			vitals.HeartRate, _ = cmd.Flags().GetString("hr")
			vitals.BloodPressure, _ = cmd.Flags().GetString("bp")
			vitals.Temperature, _ = cmd.Flags().GetString("temp")
			vitals.SpO2, _ = cmd.Flags().GetString("spo2")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// stdout carries the JSON result
			logger := logging.NewWithWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat, "mediverse")

			cc := triage.ClassifierConfig{ModelTimeout: cfg.AITimeout()}
			if !fast {
				cc.MinLatency, cc.MaxLatency = cfg.RuleLatency()
			}
			assessor := newAssessor(newModel(cfg, logger), cc, logger, nil)

			p := assessor.Assess(cmd.Context(), symptoms, vitals)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}

	cmd.Flags().String("symptoms", "", "Free-text symptom description")
	cmd.Flags().String("hr", "", "Heart rate")
	cmd.Flags().String("bp", "", "Blood pressure, e.g. 120/80")
	cmd.Flags().String("temp", "", "Temperature")
	cmd.Flags().String("spo2", "", "Oxygen saturation")
	cmd.Flags().Bool("fast", false, "Skip the simulated rule-based latency")
	return cmd
}
