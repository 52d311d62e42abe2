package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/hr-validator/internal/config"
	"alfredoptarigan/hr-validator/internal/presenter"
	"alfredoptarigan/hr-validator/internal/services"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one resume against one job description",
	Long:  "Evaluate reads the job description (file or stdin) and the resume file (PDF, DOCX or text), makes one completion call and prints the report.",
	RunE:  runEvaluate,
}

var (
	evalJDFile     string
	evalCVFile     string
	evalProfile    string
	evalModel      string
	evalAPIKey     string
	evalFormat     string
	evalJSONOutput bool
)

func init() {
	evaluateCmd.Flags().StringVar(&evalJDFile, "jd", "", "Path to the job description text file, - for stdin (required)")
	evaluateCmd.Flags().StringVar(&evalCVFile, "cv", "", "Path to the resume file (required)")
	evaluateCmd.Flags().StringVar(&evalProfile, "profile", "", "Prompt profile version (defaults to PROMPT_PROFILE)")
	evaluateCmd.Flags().StringVar(&evalModel, "model", "", "Model name (overrides LLM_MODEL and the profile default)")
	evaluateCmd.Flags().StringVar(&evalAPIKey, "api-key", "", "API key (overrides OPENAI_API_KEY or GEMINI_API_KEY)")
	evaluateCmd.Flags().StringVar(&evalFormat, "format", "", "Resume text style: markdown or plain (defaults to CV_TEXT_STYLE)")
	evaluateCmd.Flags().BoolVar(&evalJSONOutput, "json", false, "Print the raw result and report as JSON")

	_ = evaluateCmd.MarkFlagRequired("jd")
	_ = evaluateCmd.MarkFlagRequired("cv")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if evalFormat != "" {
		cfg.Evaluation.TextStyle = evalFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	jobDescription, err := readJobDescription(cmd.InOrStdin(), evalJDFile)
	if err != nil {
		return err
	}

	cvData, err := os.ReadFile(evalCVFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}
	if int64(len(cvData)) > cfg.Storage.MaxFileSize {
		return fmt.Errorf("resume file too large. Max size: %d bytes", cfg.Storage.MaxFileSize)
	}

	profiles, err := services.NewProfileRegistry(cfg.Evaluation.Profile)
	if err != nil {
		return err
	}
	schemaValidator, err := services.NewSchemaValidator(profiles)
	if err != nil {
		return err
	}

	reportPresenter := presenter.NewPresenter(cfg.Evaluation.QuestionThreshold)
	screening := services.NewScreeningService(
		services.NewTextExtractor(),
		services.NewEvaluatorService(
			services.NewCompletionClient(cfg.LLM),
			profiles,
			schemaValidator,
			services.DefaultModelFor(cfg.LLM),
		),
		reportPresenter,
		nil,
	)

	credential := evalAPIKey
	if credential == "" {
		credential = cfg.DefaultCredential()
	}

	outcome, err := screening.Screen(cmd.Context(), services.ScreeningRequest{
		JobDescription: jobDescription,
		Document:       cvData,
		Filename:       filepath.Base(evalCVFile),
		Style:          services.TextStyle(cfg.Evaluation.TextStyle),
		Credential:     credential,
		Profile:        evalProfile,
		Model:          evalModel,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if evalJSONOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"profile":  outcome.Evaluation.Profile.Version,
			"provider": outcome.Evaluation.Provider,
			"model":    outcome.Evaluation.Model,
			"result":   outcome.Evaluation.Result.Raw,
			"report":   outcome.Report,
			"warnings": outcome.Warnings,
		})
	}

	for _, w := range outcome.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
	}
	_, err = fmt.Fprint(out, reportPresenter.RenderMarkdown(outcome.Report))
	return err
}

func readJobDescription(stdin io.Reader, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}

	jd := strings.TrimSpace(string(data))
	if jd == "" {
		return "", fmt.Errorf("job description is empty")
	}
	return jd, nil
}
