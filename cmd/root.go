package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-screener/internal/events"
	"github.com/spigell/resume-screener/internal/jobs"
	"github.com/spigell/resume-screener/internal/notify"
	"github.com/spigell/resume-screener/internal/resume"
	"github.com/spigell/resume-screener/internal/scoring"
	"github.com/spigell/resume-screener/internal/store"
	"github.com/spigell/resume-screener/internal/vocabulary"
)

const (
	app       = "resume-screener"
	envPrefix = "SCREENER"
)

type Config struct {
	Database     store.Config            `mapstructure:"database" yaml:"database"`
	Jobs         jobs.Config             `mapstructure:"jobs" yaml:"jobs"`
	Resumes      resume.Config           `mapstructure:"resumes" yaml:"resumes"`
	Dedupe       DedupeConfig            `mapstructure:"dedupe" yaml:"dedupe"`
	Scoring      ScoringConfig           `mapstructure:"scoring" yaml:"scoring"`
	NLP          NLPConfig               `mapstructure:"nlp" yaml:"nlp"`
	Notify       notify.Config           `mapstructure:"notify" yaml:"notify"`
	Events       events.Config           `mapstructure:"events" yaml:"events"`
	Vocabularies vocabulary.Vocabularies `mapstructure:"-" yaml:"vocabularies"`
}

type DedupeConfig struct {
	Key string `mapstructure:"key" yaml:"key"`
}

type ScoringConfig struct {
	Threshold float64         `mapstructure:"threshold" yaml:"threshold"`
	Weights   scoring.Weights `mapstructure:"weights" yaml:"weights"`
}

type NLPConfig struct {
	Provider string        `mapstructure:"provider" yaml:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini" yaml:"gemini,omitempty"`
}

type GeminiConfig struct {
	APIKey        string `mapstructure:"api-key" yaml:"api-key,omitempty" json:"-"`
	APIKeyFile    string `mapstructure:"api-key-file" yaml:"api-key-file,omitempty"`
	APIKeyKeyring string `mapstructure:"api-key-keyring" yaml:"api-key-keyring,omitempty"`
	Model         string `mapstructure:"model" yaml:"model"`
	MaxRetries    int    `mapstructure:"max-retries" yaml:"max-retries"`
	MaxLogLength  int    `mapstructure:"max-log-length" yaml:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-screener matches résumés against job descriptions and invites the best candidates",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())

	for key, env := range map[string]string{
		"nlp.gemini.api-key-file":      "GEMINI_API_KEY_FILE",
		"nlp.gemini.api-key":           "GEMINI_API_KEY",
		"notify.password-file":         "SMTP_PASSWORD_FILE",
		"resumes.s3.access-key-id":     "AWS_ACCESS_KEY_ID",
		"resumes.s3.secret-access-key": "AWS_SECRET_ACCESS_KEY",
	} {
		if err := viper.BindEnv(key, envPrefix+"_"+strings.NewReplacer(".", "_", "-", "_").Replace(strings.ToUpper(key)), env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}
}

// setDefaults registers every known key so that environment overrides apply to all of them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", store.DriverSQLite)
	v.SetDefault("database.dsn", store.DefaultDSN)

	v.SetDefault("jobs.file", "job_description.csv")
	v.SetDefault("jobs.encoding", jobs.EncodingLatin1)
	v.SetDefault("jobs.skill-match", string(jobs.SkillMatchToken))

	v.SetDefault("resumes.dir", "CVs")
	v.SetDefault("resumes.extensions", resume.DefaultExtensions)
	v.SetDefault("resumes.s3.bucket", "")
	v.SetDefault("resumes.s3.prefix", "")
	v.SetDefault("resumes.s3.region", "")
	v.SetDefault("resumes.s3.endpoint", "")
	v.SetDefault("resumes.s3.path-style", false)
	v.SetDefault("resumes.s3.secret-access-key-file", "")
	v.SetDefault("resumes.s3.secret-access-key-keyring", "")

	v.SetDefault("dedupe.key", string(store.DedupeNameEducation))

	v.SetDefault("scoring.threshold", 80.0)
	v.SetDefault("scoring.weights.skills", scoring.DefaultWeights.Skills)
	v.SetDefault("scoring.weights.education", scoring.DefaultWeights.Education)
	v.SetDefault("scoring.weights.certifications", scoring.DefaultWeights.Certifications)
	v.SetDefault("scoring.weights.exact-bonus", scoring.DefaultWeights.ExactBonus)

	v.SetDefault("nlp.provider", "prose")
	v.SetDefault("nlp.gemini.model", "gemini-2.5-flash")
	v.SetDefault("nlp.gemini.max-retries", 3)
	v.SetDefault("nlp.gemini.max-log-length", 200)
	v.SetDefault("nlp.gemini.api-key-keyring", "")

	v.SetDefault("notify.host", notify.DefaultHost)
	v.SetDefault("notify.port", notify.DefaultPort)
	v.SetDefault("notify.username", "")
	v.SetDefault("notify.password", "")
	v.SetDefault("notify.password-keyring", "smtp")
	v.SetDefault("notify.from", "")
	v.SetDefault("notify.from-name", "HR Team")
	v.SetDefault("notify.company", "ABC Company")
	v.SetDefault("notify.signature", []string{"HR Team"})
	v.SetDefault("notify.format", notify.DefaultFormat)
	v.SetDefault("notify.template", "")
	v.SetDefault("notify.slots", notify.DefaultSlots)
	v.SetDefault("notify.min-days", notify.DefaultMinDays)
	v.SetDefault("notify.max-days", notify.DefaultMaxDays)
	v.SetDefault("notify.rate-per-second", 0.0)

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.url", "")
	v.SetDefault("events.url-file", "")
	v.SetDefault("events.url-keyring", "")
	v.SetDefault("events.exchange", events.DefaultExchange)
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// An explicitly named config must exist; the default one is optional.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	vocab, err := vocabulary.Parse(viper.GetStringMap("vocabularies"))
	if err != nil {
		return nil, fmt.Errorf("vocabularies: %w", err)
	}
	config.Vocabularies = vocab

	return config, nil
}
