package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"smartbudget/internal/api"
	"smartbudget/internal/config"
	"smartbudget/internal/session"

	"github.com/spf13/cobra"
)

var (
	flagServer string
	flagQuiet  bool
)

var rootCmd = &cobra.Command{
	Use:   "smartbudget",
	Short: "Personal finance tracker CLI",
	Long:  "Track income, expenses, and budgets against a SmartBudget server.",
	RunE:  runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagServer, "server", "s", "", "API base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

const requestTimeout = 30 * time.Second

// appEnv bundles the wired client, session store, and config shared by all
// commands.
type appEnv struct {
	cfg    config.Config
	store  *session.Store
	client *api.Client
}

// newEnv builds the client/store pair. The store is the client's token
// source, so it is created first and bound to the client after.
func newEnv() (*appEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	serverURL := config.ServerURL(cfg)
	if flagServer != "" {
		serverURL = flagServer
	}

	store := session.NewStore(config.TokenPath())
	client := api.New(serverURL, store)
	store.Bind(client)
	store.Initialize()

	return &appEnv{cfg: cfg, store: store, client: client}, nil
}

// requireSession is for commands that need an authenticated user.
func requireSession() (*appEnv, error) {
	env, err := newEnv()
	if err != nil {
		return nil, err
	}
	if _, ok := env.store.Current(); !ok {
		return nil, errors.New("not signed in — run `smartbudget login` first")
	}
	return env, nil
}

func cmdCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// friendlyErr rewrites auth failures into an actionable message.
func friendlyErr(err error) error {
	if api.IsUnauthorized(err) {
		return errors.New("session expired — run `smartbudget login` again")
	}
	return err
}

func dateOrToday(date string) string {
	if date == "" {
		return time.Now().Format("2006-01-02")
	}
	return date
}

func progressf(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
