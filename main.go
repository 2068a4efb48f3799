package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/SintaW245/unsplash-gallery/internal/gallery"
	"github.com/SintaW245/unsplash-gallery/internal/history"
	"github.com/SintaW245/unsplash-gallery/internal/query"
	"github.com/SintaW245/unsplash-gallery/internal/session"
	"github.com/SintaW245/unsplash-gallery/internal/suggest"
	"github.com/SintaW245/unsplash-gallery/internal/unsplash"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "gallery",
	Short:         "Photo gallery backed by the Unsplash API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gallery JSON API",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", defaultConfigFile, "Configuration file (.json or .yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides debug.logLevel)")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeStore, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	return serve(ctx, cfg.ListenAddr(), newRouter(svc, cfg.Debug.PrettyJson))
}

// setup loads the configuration and applies the log level.
func setup() (*Config, error) {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return nil, err
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level := cfg.Debug.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		logrus.SetLevel(lvl)
	}
	return cfg, nil
}

// newService builds the gallery service and returns a func releasing the
// session store.
func newService(ctx context.Context, cfg *Config) (*gallery.Service, func(), error) {
	if cfg.Unsplash.AccessKey == "" {
		return nil, nil, fmt.Errorf("no Unsplash access key configured (unsplash.com.access or UNSPLASH_ACCESS_KEY)")
	}

	store, err := session.NewFromConfig(ctx, cfg.SessionConfig())
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if c, ok := store.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logrus.WithError(err).Warn("failed to close session store")
			}
		}
	}

	client := unsplash.NewClient(cfg.Unsplash.AccessKey, cfg.Unsplash.URL, unsplash.WithTimeout(cfg.UnsplashTimeout()))
	svc := gallery.NewService(
		client,
		query.NewValidator(cfg.Search.Denylist...),
		history.New(store),
		suggest.Default(),
	)
	return svc, closeStore, nil
}
