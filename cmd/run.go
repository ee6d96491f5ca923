package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/ai/gemini"
	"github.com/spigell/resume-screener/internal/events"
	"github.com/spigell/resume-screener/internal/jobs"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/nlp"
	"github.com/spigell/resume-screener/internal/notify"
	"github.com/spigell/resume-screener/internal/pipeline"
	"github.com/spigell/resume-screener/internal/resume"
	"github.com/spigell/resume-screener/internal/scoring"
	"github.com/spigell/resume-screener/internal/secrets"
	"github.com/spigell/resume-screener/internal/store"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	skipNotifyReason = "skip-notify flag is set"
	dryRunReason     = "dry-run flag is set"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Ingest jobs and résumés, score candidates and invite the shortlist",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Float64P("threshold", "t", 80, "minimum match score for the shortlist")
	runCmd.Flags().String("jobs", "", "job descriptions CSV file (overrides jobs.file)")
	runCmd.Flags().String("resumes", "", "directory with résumés (overrides resumes.dir)")
	runCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before sending invitations")
	runCmd.Flags().Bool("skip-notify", false, "shortlist candidates without sending invitations")
	runCmd.Flags().Bool("dry-run", false, "do not send invitations or publish events")

	viper.BindPFlag("scoring.threshold", runCmd.Flags().Lookup("threshold"))
	viper.BindPFlag("jobs.file", runCmd.Flags().Lookup("jobs"))
	viper.BindPFlag("resumes.dir", runCmd.Flags().Lookup("resumes"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	lg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		lg.Fatal("getting a config", zap.Error(err))
	}

	runID := uuid.NewString()
	runLog := logger.WithFields(lg, logger.RunFields(runID, "")...)

	runLog.Info("starting the resume-screener", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	lg.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	dryRun := flagSet(cmd, "dry-run")

	dedupe, err := store.ParseDedupeKey(config.Dedupe.Key)
	if err != nil {
		lg.Fatal("invalid dedupe configuration", zap.Error(err))
	}

	skillMatch, err := jobs.ParseSkillMatch(config.Jobs.SkillMatch)
	if err != nil {
		lg.Fatal("invalid jobs configuration", zap.Error(err))
	}

	db, err := store.Open(ctx, config.Database, lg)
	if err != nil {
		lg.Fatal("opening the database", zap.Error(err))
	}
	defer db.Close()

	segmenter := nlp.NewProse()
	names, err := newNameFinder(ctx, &config.NLP, segmenter, lg)
	if err != nil {
		lg.Fatal("preparing the name tagger", zap.Error(err))
	}

	source, err := newResumeSource(ctx, config.Resumes)
	if err != nil {
		lg.Fatal("preparing the résumé source", zap.Error(err))
	}

	publisher := events.Publisher(events.Nop{})
	if config.Events.Enabled && !dryRun {
		publisher, err = newPublisher(config.Events, lg)
		if err != nil {
			lg.Fatal("connecting to the event broker", zap.Error(err))
		}
	}
	defer publisher.Close()

	skipReason := ""
	switch {
	case dryRun:
		skipReason = dryRunReason
	case flagSet(cmd, "skip-notify"):
		skipReason = skipNotifyReason
	}

	notifyStage, err := prepareNotifyStage(cmd, config.Notify, skipReason, lg)
	if err != nil {
		lg.Fatal("preparing the notifier", zap.Error(err))
	}

	stages := []pipeline.Stage{
		pipeline.NewSchema(),
		pipeline.NewJobs(jobs.NewIngestor(config.Vocabularies, segmenter, skillMatch, lg), config.Jobs.File, config.Jobs.Encoding),
		pipeline.NewResumes(source, resume.NewExtractor(config.Vocabularies, names, lg)),
		pipeline.NewScoring(scoring.NewScorer(config.Scoring.Weights)),
		pipeline.NewShortlist(),
		notifyStage,
	}

	for _, s := range pipeline.Describe(stages) {
		lg.Debug("stage", zap.String("name", s.Name), zap.Bool("enabled", s.Enabled), zap.String("reason", s.Reason))
	}

	st := &pipeline.State{RunID: runID}
	cfg := &pipeline.Config{Threshold: config.Scoring.Threshold, Dedupe: dedupe}
	deps := pipeline.Deps{Store: db, Logger: lg, Events: events.NewLogged(publisher, lg)}

	if err := pipeline.Run(ctx, cfg, deps, stages, st); err != nil {
		runLog.Fatal("screening failed", zap.Error(err))
	}

	fmt.Printf("Total number of shortlisted candidates: %d\n", st.Shortlisted)

	failed := 0
	for _, r := range st.Results {
		if !r.Sent() {
			failed++
		}
	}
	runLog.Info("screening finished",
		zap.Int("candidates", st.Candidates),
		zap.Int("shortlisted", st.Shortlisted),
		zap.Int("invitations_sent", len(st.Results)-failed),
		zap.Int("invitations_failed", failed),
	)
}

func flagSet(cmd *cobra.Command, name string) bool {
	flag := cmd.Flag(name)
	return flag != nil && strings.EqualFold(flag.Value.String(), "true")
}

// prepareNotifyStage builds the notify stage. A non-empty skipReason disables
// it without touching the mail settings.
func prepareNotifyStage(cmd *cobra.Command, cfg notify.Config, skipReason string, lg *zap.Logger) (pipeline.Stage, error) {
	var confirm pipeline.Confirm = pipeline.AutoConfirm
	if !flagSet(cmd, "yes") {
		confirm = promptConfirm
	}

	if skipReason != "" {
		stage := pipeline.NewNotify(nil, confirm)
		stage.Disable(skipReason)
		return stage, nil
	}

	notifier, err := newNotifier(cfg, lg)
	if err != nil {
		return nil, fmt.Errorf("%w (fix the notify section or pass --skip-notify)", err)
	}
	return pipeline.NewNotify(notifier, confirm), nil
}

func newNotifier(cfg notify.Config, lg *zap.Logger) (*notify.Notifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	password, err := secrets.Load(secrets.Source{
		Name:           "smtp password",
		Value:          cfg.Password,
		File:           cfg.PasswordFile,
		KeyringAccount: cfg.PasswordKeyring,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set notify.password-file or run `%s secret set %s`)", err, app, cfg.PasswordKeyring)
	}

	from, err := mail.ParseAddress(cfg.From)
	if err != nil {
		return nil, err
	}
	if cfg.FromName != "" {
		from.Name = cfg.FromName
	}

	composer, err := notify.NewComposer(*from, cfg.Template, cfg.Format, cfg.Company, cfg.Signature, nil)
	if err != nil {
		return nil, err
	}

	username := cfg.Username
	if username == "" {
		username = from.Address
	}

	mailer := notify.NewSMTPMailer(cfg.Host, cfg.Port, username, password)
	scheduler := notify.NewScheduler(nil, nil, cfg.MinDays, cfg.MaxDays, cfg.Slots)

	return notify.NewNotifier(mailer, composer, scheduler, cfg.RatePerSecond, lg.Named("notify")), nil
}

func promptConfirm(count int) (bool, error) {
	prompt := promptui.Select{
		Label: fmt.Sprintf("Send %d interview invitation(s)?", count),
		Items: []string{PromptYes, PromptNo},
	}
	_, answer, err := prompt.Run()
	if err != nil {
		return false, err
	}
	return answer == PromptYes, nil
}

func newNameFinder(ctx context.Context, cfg *NLPConfig, fallback nlp.NameFinder, lg *zap.Logger) (nlp.NameFinder, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", "prose":
		return fallback, nil
	case "gemini":
	default:
		return nil, fmt.Errorf("unsupported nlp provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("nlp.gemini section is required for the gemini provider")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:           "gemini api key",
		Value:          cfg.Gemini.APIKey,
		File:           cfg.Gemini.APIKeyFile,
		KeyringAccount: cfg.Gemini.APIKeyKeyring,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set nlp.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := lg.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewNameFinder(generator, genLogger, cfg.Gemini.MaxLogLength), nil
}

func newResumeSource(ctx context.Context, cfg resume.Config) (resume.Source, error) {
	if strings.TrimSpace(cfg.S3.Bucket) == "" {
		return resume.NewDirSource(cfg.Dir, cfg.Extensions), nil
	}

	var secretKey string
	if cfg.S3.AccessKeyID != "" {
		key, err := secrets.Load(secrets.Source{
			Name:           "s3 secret access key",
			Value:          cfg.S3.SecretAccessKey,
			File:           cfg.S3.SecretAccessKeyFile,
			KeyringAccount: cfg.S3.SecretAccessKeyKeyring,
		})
		if err != nil {
			return nil, err
		}
		secretKey = key
	}

	return resume.NewS3Source(ctx, cfg.S3, secretKey, cfg.Extensions)
}

func newPublisher(cfg events.Config, lg *zap.Logger) (events.Publisher, error) {
	url, err := secrets.Load(secrets.Source{
		Name:           "amqp url",
		Value:          cfg.URL,
		File:           cfg.URLFile,
		KeyringAccount: cfg.URLKeyring,
	})
	if err != nil {
		return nil, err
	}
	return events.DialAMQP(url, cfg.Exchange, lg.Named("events"))
}
