package main

import (
	"context"
	"cooked/internal/analysis"
	"cooked/internal/classify"
	"cooked/internal/configuration"
	"cooked/internal/extract"
	"cooked/internal/llm"
	"cooked/internal/logging"
	"cooked/internal/rating"
	"cooked/internal/schedule"
	"cooked/internal/score"
	"cooked/internal/score/rule"
	"cooked/internal/server"
	"cooked/internal/social"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
)

// newClassifier builds the course type classifier chain: CEL rules first,
// then the model, then the configured fallback type.
func newClassifier(config configuration.ClassifierConfig, model *llm.Client) (classify.Classifier, error) {
	var classifiers []classify.Classifier

	if config.Rules != "" {
		rules, err := rule.LoadFromFile(config.Rules)
		if err != nil {
			return nil, err
		}
		slog.Info("Course type rules loaded", "file", config.Rules, "rules", len(rules))
		classifiers = append(classifiers, classify.NewRulesClassifier(rules))
	}
	if config.UseLLM {
		classifiers = append(classifiers, classify.NewLLMClassifier(model))
	}

	return classify.NewCompositeClassifier(classifiers, schedule.CourseType(config.Fallback)), nil
}

// The application exits with code 1 when the configuration, the rules
// or any component cannot be initialized.
func main() {
	configPath := flag.String("config", "/etc/cooked/config.yaml", "configuration file")
	flag.Parse()

	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Unable to load .env", "error", err)
		os.Exit(1)
	}

	config, err := configuration.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Unable to load configuration", "error", err)
		os.Exit(1)
	}
	logCloser := logging.Setup(config.Logger)
	defer logCloser.Close()

	appCtx, appCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer appCancel()

	model := llm.NewClient(config.LLM.APIKey, config.LLM.BaseURL, config.LLM.Model, config.LLM.Timeout)

	classifier, err := newClassifier(config.Classifier, model)
	if err != nil {
		slog.Error("Unable to load course type rules", "error", err)
		os.Exit(1)
	}

	var ratings rating.Lookup
	if config.Ratings.Enabled {
		ratings = rating.NewRMPClient(
			config.Ratings.URL,
			config.Ratings.SchoolID,
			config.Ratings.Authorization,
			config.Ratings.Timeout,
		)
	} else {
		slog.Warn("Professor ratings are disabled, classes are scored without professor data")
	}

	var mentions server.MentionSearcher
	if config.Social.Enabled() {
		mentions = social.NewRedditClient(
			config.Social.ClientID,
			config.Social.ClientSecret,
			config.Social.TokenURL,
			config.Social.APIURL,
			config.Social.Subreddit,
			config.Social.Limit,
			config.Social.Timeout,
		)
	}

	analyzer := analysis.NewAnalyzer(
		classifier,
		ratings,
		extract.NewLLMExtractor(model, config.LLM.MaxTextLength),
		score.NewCalculator(config.Scoring.TypicalHardSemester),
		config.Scoring.Concurrency,
	)

	router := server.NewApiV1Router(
		analyzer,
		ratings,
		mentions,
		config.Server.Static,
		int64(config.Server.MaxUploadMB)<<20,
	)
	srv := server.NewServer(config.Server.Address, router, config.Server.ReadTimeout, config.Server.WriteTimeout)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			appCancel()
		}
	}()
	slog.Info("Server listening " + config.Server.Address)
	<-appCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second*10)
	defer shutdownCancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		slog.Error("Server shutdown", "error", err)
	}
	slog.Info("Server stopped")
}
