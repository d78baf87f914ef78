package cmd

import (
	"log"

	"github.com/jasonewillis/usajobs-skill-bridge/internal/usajobs"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "usajobs-skill-bridge"
)

type Config struct {
	Profile      *ProfileConfig        `mapstructure:"profile"`
	Search       *usajobs.SearchParams `mapstructure:"search"`
	Radius       float64               `mapstructure:"radius-miles"`
	AllLocations bool                  `mapstructure:"all-locations"`
	UserAgent    string                `mapstructure:"user-agent"`
	APIKeyFile   string                `mapstructure:"api-key-file"`
	AI           *AIConfig             `mapstructure:"ai"`
}

type ProfileConfig struct {
	Address       string   `mapstructure:"address"`
	VeteranStatus string   `mapstructure:"veteran-status"`
	Education     string   `mapstructure:"education"`
	Keywords      []string `mapstructure:"keywords"`
}

type AIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Provider        string        `mapstructure:"provider"`
	MinimumFitScore float64       `mapstructure:"minimum-fit-score"`
	MaxAssessments  int           `mapstructure:"max-assessments"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "usajobs-skill-bridge matches federal job postings on USAJOBS against your location, education and skills",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("api-key-file", "USAJOBS_API_KEY_FILE"); err != nil {
		log.Fatalf("binding USAJOBS_API_KEY_FILE environment variable: %v", err)
	}

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is usajobs-skill-bridge.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
