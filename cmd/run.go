package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jasonewillis/usajobs-skill-bridge/internal/ai"
	"github.com/jasonewillis/usajobs-skill-bridge/internal/ai/gemini"
	"github.com/jasonewillis/usajobs-skill-bridge/internal/geo"
	"github.com/jasonewillis/usajobs-skill-bridge/internal/jobs"
	"github.com/jasonewillis/usajobs-skill-bridge/internal/logger"
	"github.com/jasonewillis/usajobs-skill-bridge/internal/matching"
	"github.com/jasonewillis/usajobs-skill-bridge/internal/report"
	"github.com/jasonewillis/usajobs-skill-bridge/internal/secrets"
	"github.com/jasonewillis/usajobs-skill-bridge/internal/usajobs"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowReport           = "Show report"
	PromptExit                 = "Exit"
	PromptReportByOrganization = "Report by organizations"
	PromptMatchesToFile        = "Dump matches to file"
	PromptReportToFile         = "Save report to file"

	defaultReportFile     = "job-matches.md"
	defaultMaxAssessments = 5
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowReport, PromptReportByOrganization, PromptMatchesToFile, PromptReportToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the usajobs-skill-bridge main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("print", "p", false, "print the report once and exit without prompting")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the usajobs-skill-bridge", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Profile == nil {
		logger.Fatal("applicant profile is required under the profile section")
	}

	query, err := buildQuery(config)
	if err != nil {
		logger.Fatal("building the user query", zap.Error(err))
	}

	if err := query.Validate(); err != nil {
		logger.Fatal("validating the user query", zap.Error(err))
	}

	apiKey, err := resolveAPIKey(config)
	if err != nil {
		logger.Fatal(
			"loading usajobs api key",
			zap.Error(err),
			zap.String("hint", "set USAJOBS_API_KEY_FILE environment variable or the 'api-key-file' key in the configuration file"),
		)
	}

	client := usajobs.New(ctx, logger, apiKey)

	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	params := searchParams(config)

	logger.Info("starting the search", zap.String("keyword", params.Keyword))

	fetched, err := fetchPostings(client, params, logger)
	if err != nil {
		logger.Fatal("getting available postings", zap.Error(err))
	}

	results := jobs.NormalizeAll(fetched.Items)

	logger.Info("getting postings",
		zap.Int("count", results.Len()),
		zap.String("source", fetched.Source),
	)

	if results.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no postings found"))
		return
	}

	summary := &matching.Summary{
		Degraded: fetched.Degraded,
		Source:   fetched.Source,
	}

	pipeline := preparePipeline(query, logger)

	matched, err := pipeline.Run(ctx, results, summary)
	if err != nil {
		logger.Fatal("matching failed", zap.Error(err))
	}

	if matched.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no postings left after matching"))
		return
	}

	if summary.Degraded {
		logger.Warn("results come from the bundled dataset, not the live API")
	}
	if summary.GeocodingFailed {
		logger.Warn("address could not be resolved, location filtering was skipped")
	}

	annotateMatches(ctx, config, query, matched, logger)

	action := PromptShowReport
	for {
		var err error
		if cmd.Flag("print").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of matches", zap.Int("count", matched.Len()))

		if err := handleAction(action, logger, query, matched, summary); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if cmd.Flag("print").Value.String() == "true" {
			return
		}
	}
}

func handleAction(action string, logger *zap.Logger, query *matching.UserQuery, matched *jobs.Results, summary *matching.Summary) error {
	switch action {
	case PromptShowReport:
		rendered, err := report.Render(query, matched, summary)
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		fmt.Println(rendered)
		return nil
	case PromptReportByOrganization:
		pretty, _ := json.MarshalIndent(matched.ReportByOrganization(), "", "  ")
		logger.Info(string(pretty), zap.Int("matches count", matched.Len()))
		return nil
	case PromptMatchesToFile:
		filename, err := matched.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump matches to file: %w", err)
		}
		logger.Info("dumping matches to file", zap.String("filename", filename))
		return nil
	case PromptReportToFile:
		if err := report.WriteFile(defaultReportFile, query, matched, summary); err != nil {
			return fmt.Errorf("save report to file: %w", err)
		}
		logger.Info("saving report to file", zap.String("filename", defaultReportFile))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func buildQuery(config *Config) (*matching.UserQuery, error) {
	status, err := matching.ParseVeteranStatus(config.Profile.VeteranStatus)
	if err != nil {
		return nil, err
	}

	return &matching.UserQuery{
		Address:             config.Profile.Address,
		RadiusMiles:         config.Radius,
		VeteranStatus:       status,
		EducationField:      config.Profile.Education,
		Keywords:            config.Profile.Keywords,
		IncludeAllLocations: config.AllLocations,
	}, nil
}

func resolveAPIKey(config *Config) (string, error) {
	if config == nil {
		return "", errors.New("config is required")
	}

	keyFile := strings.TrimSpace(config.APIKeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("api-key-file"))
	}

	if keyFile == "" {
		return "", errors.New("usajobs api key file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "usajobs api key",
		File: keyFile,
	})
}

// searchParams builds the API query from the config, hinting job categories
// from the education field when the config does not pin them.
func searchParams(config *Config) *usajobs.SearchParams {
	params := config.Search
	if params == nil {
		params = &usajobs.SearchParams{}
	}

	if params.Keyword == "" && len(config.Profile.Keywords) > 0 {
		params.Keyword = strings.Join(config.Profile.Keywords, " ")
	}

	if len(params.JobCategoryCodes) == 0 {
		params.JobCategoryCodes = jobCategoryHint(config.Profile.Education)
	}

	return params
}

// jobCategoryHint maps a field of study to the OPM occupational series most
// likely to carry matching announcements. Unknown fields get no hint and the
// search stays unrestricted.
func jobCategoryHint(education string) []string {
	switch {
	case containsAny(education, "computer science", "software", "information technology", "cybersecurity"):
		return []string{"2210"} // Information Technology Management
	case containsAny(education, "data analytics", "data science", "statistics"):
		return []string{"1530", "1550"} // Statistics, Computer Science
	case containsAny(education, "business", "administration"):
		return []string{"0391"} // Telecommunications Processing
	default:
		return nil
	}
}

func containsAny(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// fetchPostings queries the live API first and falls back to the bundled
// dataset when it is unavailable.
func fetchPostings(client *usajobs.Client, params *usajobs.SearchParams, logger *zap.Logger) (*usajobs.FetchResult, error) {
	source := usajobs.NewTieredSource(logger,
		usajobs.NewLiveSource(client),
		usajobs.NewFallbackSource(logger),
	)

	return source.Fetch(params)
}

func preparePipeline(query *matching.UserQuery, logger *zap.Logger) *matching.Pipeline {
	distance := matching.NewDistance(query, geo.NewNominatim(logger), logger)
	if query.IncludeAllLocations && strings.TrimSpace(query.Address) == "" {
		distance.Disable("no address provided")
	}

	steps := []matching.Filter{
		distance,
		matching.NewRelevance(query, logger),
		matching.NewRank(logger),
	}

	return matching.New(steps, logger)
}

// annotateMatches asks the AI matcher for a fit assessment of the top
// matches. Failures never drop a match, they are recorded on it instead.
func annotateMatches(ctx context.Context, config *Config, query *matching.UserQuery, matched *jobs.Results, logger *zap.Logger) {
	if config.AI == nil || !config.AI.Enabled {
		return
	}

	matcher, err := newAIMatcher(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("skipping AI assessments", zap.Error(err))
		return
	}

	limit := config.AI.MaxAssessments
	if limit <= 0 {
		limit = defaultMaxAssessments
	}
	if limit > matched.Len() {
		limit = matched.Len()
	}

	for _, result := range matched.Items[:limit] {
		assessment, err := matcher.Evaluate(ctx, query, result)
		if err != nil {
			logger.Warn("AI assessment failed",
				zap.String("posting_id", result.Posting.ID),
				zap.Error(err),
			)
			result.AI = &jobs.AIAssessment{Error: err.Error()}
			continue
		}

		result.AI = &jobs.AIAssessment{
			Fit:     assessment.Fit,
			Score:   assessment.Score,
			Reason:  assessment.Reason,
			Message: assessment.Message,
		}
	}

	logger.Info("AI assessments attached", zap.Int("count", limit))
}

func newAIMatcher(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Matcher, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	minScore := cfg.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	matcherLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
		zap.Float64("minimum_fit_score", minScore),
	)

	return gemini.NewMatcher(generator, minScore, cfg.Gemini.MaxLogLength, matcherLogger), nil
}
