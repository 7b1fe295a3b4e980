package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/respondent-ranker/internal/apperr"
	"github.com/spigell/respondent-ranker/internal/filtering"
	"github.com/spigell/respondent-ranker/internal/fuzzy"
	"github.com/spigell/respondent-ranker/internal/output"
	"github.com/spigell/respondent-ranker/internal/scoring"
)

const (
	app       = "respondent-ranker"
	envPrefix = "RANKER"
)

type Config struct {
	Scoring scoring.Config   `mapstructure:"scoring"`
	Fuzzy   FuzzyConfig      `mapstructure:"fuzzy"`
	Filters filtering.Config `mapstructure:"filters"`
	Output  OutputConfig     `mapstructure:"output"`
}

type FuzzyConfig struct {
	Scorer string `mapstructure:"scorer"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "respondent-ranker scores survey respondents against a project and lists the best fits",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	configureEnv(viper.GetViper())
	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is "+app+".yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

func setDefaults(v *viper.Viper) {
	defaults := scoring.DefaultConfig()

	v.SetDefault("scoring.earth-radius", defaults.EarthRadius)
	v.SetDefault("scoring.distance-cutoff", defaults.DistanceCutoff)
	v.SetDefault("scoring.fuzzy-match-cutoff", defaults.FuzzyMatchCutoff)
	v.SetDefault("scoring.workers", defaults.Workers)
	v.SetDefault("fuzzy.scorer", defaults.Scorer)
	v.SetDefault("filters.exclude-file", "")
	v.SetDefault("filters.minimum-score", 0.0)
	v.SetDefault("filters.limit", 0)
	v.SetDefault("output.format", output.FormatJSON)
	v.SetDefault("output.file", "")
}

func initConfig() {
	// Only the rank command reads the config.
	if rankCmd.CalledAs() == "" {
		return
	}

	// We can't proceed if the config file parsed with error.
	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		log.Fatal(err)
	}
}

// readConfig loads path, or the default file from the working directory when
// path is empty. A missing default file is not an error.
func readConfig(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(app)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return eris.Wrapf(apperr.ErrConfiguration, "read config: %v", err)
	}
	return nil
}

func getConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, eris.Wrapf(apperr.ErrConfiguration, "decode config: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ScoringConfig merges the fuzzy section into the scoring constants.
func (c *Config) ScoringConfig() scoring.Config {
	cfg := c.Scoring
	if c.Fuzzy.Scorer != "" {
		cfg.Scorer = c.Fuzzy.Scorer
	}
	return cfg
}

// Validate reports every configuration problem in one error.
func (c *Config) Validate() error {
	var errs []string

	sc := c.ScoringConfig()
	if sc.EarthRadius <= 0 {
		errs = append(errs, "scoring.earth-radius must be > 0")
	}
	if sc.DistanceCutoff <= 0 {
		errs = append(errs, "scoring.distance-cutoff must be > 0")
	}
	if sc.FuzzyMatchCutoff < 0 || sc.FuzzyMatchCutoff > 100 {
		errs = append(errs, "scoring.fuzzy-match-cutoff must be between 0 and 100")
	}
	if sc.Workers < 0 {
		errs = append(errs, "scoring.workers must be >= 0")
	}
	if _, err := fuzzy.ScorerByName(sc.Scorer); err != nil {
		errs = append(errs, fmt.Sprintf("fuzzy.scorer %q is unknown", sc.Scorer))
	}
	if c.Filters.MinimumScore < 0 || c.Filters.MinimumScore > 1 {
		errs = append(errs, "filters.minimum-score must be between 0 and 1")
	}
	if c.Filters.Limit < 0 {
		errs = append(errs, "filters.limit must be >= 0")
	}
	if !output.ValidFormat(c.Output.Format) {
		errs = append(errs, fmt.Sprintf("output.format %q is not one of %s", c.Output.Format, strings.Join(output.Formats, ", ")))
	}

	if len(errs) > 0 {
		return eris.Wrapf(apperr.ErrConfiguration, "invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}
