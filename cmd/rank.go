package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/respondent-ranker/internal/apperr"
	"github.com/spigell/respondent-ranker/internal/filtering"
	"github.com/spigell/respondent-ranker/internal/logger"
	"github.com/spigell/respondent-ranker/internal/output"
	"github.com/spigell/respondent-ranker/internal/project"
	"github.com/spigell/respondent-ranker/internal/respondent"
	"github.com/spigell/respondent-ranker/internal/scoring"
)

const (
	PromptPrint               = "Print results"
	PromptReportByCity        = "Report by city"
	PromptDumpToFile          = "Dump results to file"
	PromptAppendToExcludeFile = "Append all respondents to exclude file"
	PromptExit                = "Exit"

	excludeReason = "appended from the results menu"
)

var errExit = errors.New("exit requested")

var rankCmd = &cobra.Command{
	Use:   "rank <project.json> <respondents.csv|respondents.xlsx>",
	Short: "Rank respondents against a project",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		rank(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	flags := rankCmd.Flags()
	flags.BoolP("auto-approve", "y", false, "print results once and exit without the interactive menu")
	flags.Float64("earth-radius", 0, "sphere radius in km used for distances")
	flags.Float64("distance-cutoff", 0, "distance in km at which a respondent is vetoed")
	flags.Float64("fuzzy-cutoff", 0, "similarity (0-100) a fuzzy match must exceed")
	flags.Int("workers", 0, "respondents scored in parallel, 0 means one per CPU")
	flags.String("scorer", "", "fuzzy scorer: ratio, token_sort_ratio or token_set_ratio")
	flags.StringP("exclude-file", "e", "", "JSON file with respondents to exclude")
	flags.Float64("minimum-score", 0, "drop respondents whose total score is below this value")
	flags.Int("limit", 0, "keep only the best N respondents, 0 means all")
	flags.StringP("format", "f", "", "output format: json, table or csv")
	flags.StringP("output", "o", "", "write results to this file instead of stdout")

	for key, flag := range map[string]string{
		"scoring.earth-radius":       "earth-radius",
		"scoring.distance-cutoff":    "distance-cutoff",
		"scoring.fuzzy-match-cutoff": "fuzzy-cutoff",
		"scoring.workers":            "workers",
		"fuzzy.scorer":               "scorer",
		"filters.exclude-file":       "exclude-file",
		"filters.minimum-score":      "minimum-score",
		"filters.limit":              "limit",
		"output.format":              "format",
		"output.file":                "output",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			log.Fatalf("binding %s flag: %v", flag, err)
		}
	}
}

// rank is the main command for the cli.
func rank(cmd *cobra.Command, projectPath, respondentsPath string) {
	ctx := context.Background()

	base, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig(viper.GetViper())
	if err != nil {
		base.Fatal("getting a config", zap.Error(err))
	}

	logger := logger.WithRunFields(base, uuid.NewString(), projectPath, respondentsPath)
	logger.Info("starting the respondent-ranker", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	results, err := rankAndFilter(ctx, config, logger, projectPath, respondentsPath)
	if err != nil {
		logger.Fatal("ranking failed", zap.Error(err))
	}

	sink, closeSink, err := output.Open(config.Output.Format, config.Output.File)
	if err != nil {
		logger.Fatal("opening output", zap.Error(err))
	}
	defer closeSink()

	s := &session{
		logger:      logger,
		results:     results,
		sink:        sink,
		excludeFile: config.Filters.ExcludeFile,
	}

	if results.Len() == 0 || cmd.Flag("auto-approve").Value.String() == "true" {
		if err := s.handle(PromptPrint); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		prompt := promptui.Select{
			Label: "What next?",
			Items: s.menu(),
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current list of respondents", zap.Int("count", s.results.Len()))

		if err := s.handle(action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// rankAndFilter loads both inputs, ranks the respondents and applies the post-ranking filters.
func rankAndFilter(ctx context.Context, config *Config, logger *zap.Logger, projectPath, respondentsPath string) (*scoring.Results, error) {
	criteria, err := project.Load(projectPath)
	if err != nil {
		return nil, eris.Wrap(err, "loading project")
	}

	logger.Info("project loaded",
		zap.Int("cities", len(criteria.Cities)),
		zap.Int("industries", len(criteria.ProfessionalIndustry)),
		zap.Int("job_titles", len(criteria.ProfessionalJobTitles)),
	)

	respondents, err := respondent.Load(respondentsPath)
	if err != nil {
		return nil, eris.Wrap(err, "loading respondents")
	}

	logger.Info("respondents loaded", zap.Int("count", len(respondents)))

	pipeline, err := scoring.New(config.ScoringConfig(), logger)
	if err != nil {
		return nil, err
	}

	results, err := pipeline.Rank(ctx, respondents, criteria)
	if err != nil {
		return nil, err
	}

	steps := filtering.Default()
	if config.Filters.ExcludeFile == "" {
		filtering.DisableByName(steps, "exclude_file", "no exclude file configured")
	}

	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	return filtering.Run(ctx, &config.Filters, filtering.Deps{Logger: logger}, steps, results)
}

// session holds what the interactive menu acts on.
type session struct {
	logger      *zap.Logger
	results     *scoring.Results
	sink        *output.Sink
	excludeFile string
}

func (s *session) menu() []string {
	items := []string{PromptPrint, PromptReportByCity, PromptDumpToFile}
	if s.excludeFile != "" && s.results.Len() != 0 {
		items = append(items, PromptAppendToExcludeFile)
	}
	return append(items, PromptExit)
}

func (s *session) handle(action string) error {
	switch action {
	case PromptPrint:
		if s.results.Len() == 0 {
			s.logger.Info("no respondents left to print")
		}
		return s.sink.Emit(s.results)
	case PromptReportByCity:
		s.logger.Info("report by city", zap.Int("respondents count", s.results.Len()))
		return s.sink.EmitReport(s.results.ReportByCity())
	case PromptDumpToFile:
		filename, err := output.DumpToTmpFile(s.results)
		if err != nil {
			return eris.Wrap(err, "dump results to file")
		}
		s.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return s.appendToExcludeFile()
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return eris.Errorf("invalid action: %s", action)
	}
}

func (s *session) appendToExcludeFile() error {
	if s.excludeFile == "" {
		return eris.Wrap(apperr.ErrConfiguration, "exclude file is not configured")
	}

	excluded, err := respondent.GetExcludedFromFileOrEmpty(s.excludeFile)
	if err != nil {
		return err
	}

	excluded.Append(s.results.ToExcluded(excludeReason))

	if err := excluded.ToFile(s.excludeFile); err != nil {
		return err
	}

	removed := s.results.Exclude(excluded.Names())
	s.logger.Info("appended to exclude file",
		zap.String("filename", s.excludeFile),
		zap.Int("appended", len(removed)),
	)
	return nil
}
