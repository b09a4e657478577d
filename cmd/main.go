package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bryan-cox/taimio-report/internal/clipboard"
	"github.com/bryan-cox/taimio-report/internal/config"
	"github.com/bryan-cox/taimio-report/internal/daterange"
	"github.com/bryan-cox/taimio-report/internal/model"
	"github.com/bryan-cox/taimio-report/internal/projects"
	"github.com/bryan-cox/taimio-report/internal/report"
	"github.com/bryan-cox/taimio-report/internal/taimio"
	"github.com/bryan-cox/taimio-report/internal/token"
)

// --- Cobra Command Definitions ---

var (
	// Used for flags.
	configPath   string
	apiRoot      string
	tokenFile    string
	projectsFile string
	copyReport   bool

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "taimio-report",
		Short: "Summarise tracked Taimio activities by day or by project.",
		Long: `taimio-report fetches the activities carrying a tag from the Taimio API and prints
per-day or per-project hour summaries. Dates may be given as YYYY, YYYY-MM or YYYY-MM-DD.`,
	}

	// dayCmd represents the day command
	dayCmd = &cobra.Command{
		Use:   "day <tag> <start-date> [<end-date>]",
		Short: "Print hours and projects per day.",
		Long:  `Prints one line per day with the total hours and the projects worked on, followed by the overall total.`,
		Args:  cobra.RangeArgs(2, 3),
		RunE:  runDayCommand,
	}

	// projectCmd represents the project command
	projectCmd = &cobra.Command{
		Use:   "project <tag> <start-date> [<end-date>]",
		Short: "Print hours and activity titles per day and project.",
		Long:  `Prints one line per day and project with the hours spent and the distinct activity titles.`,
		Args:  cobra.RangeArgs(2, 3),
		RunE:  runProjectCommand,
	}

	// loginCmd represents the login command
	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Log in and store a new API token.",
		Args:  cobra.NoArgs,
		RunE:  runLoginCommand,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Errors from commands are handled by slog, so we just exit.
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to the YAML config file.")
	rootCmd.PersistentFlags().StringVar(&apiRoot, "api-root", "", "Taimio API root URL (overrides config).")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "Path of the stored API token (overrides config).")
	rootCmd.PersistentFlags().StringVar(&projectsFile, "projects", "", "Path to the tag = project mapping file (overrides config).")
	rootCmd.PersistentFlags().BoolVar(&copyReport, "copy", false, "Also copy the report to the system clipboard.")

	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(loginCmd)
}

// --- Main Application Entry Point ---

func main() {
	// Setup structured JSON logger for errors.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	Execute()
}

// --- Command Execution Logic ---

type reportMode int

const (
	dayMode reportMode = iota
	projectMode
)

func runDayCommand(cmd *cobra.Command, args []string) error {
	return runReport(cmd, args, dayMode)
}

func runProjectCommand(cmd *cobra.Command, args []string) error {
	return runReport(cmd, args, projectMode)
}

func runReport(cmd *cobra.Command, args []string, mode reportMode) error {
	// Argument errors above still print usage; runtime errors do not.
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	tag, startStr := args[0], args[1]
	var endStr string
	if len(args) > 2 {
		endStr = args[2]
	}

	dateRange, err := daterange.Resolve(startStr, endStr)
	if err != nil {
		var dateErr *daterange.InvalidDateError
		if errors.As(err, &dateErr) {
			cmd.PrintErrln(dateErr.Error())
		}
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", configPath)
		return err
	}

	mapping, err := projects.Load(cfg.ProjectsFile)
	if err != nil {
		slog.Error("failed to load project mapping", "error", err, "path", cfg.ProjectsFile)
		return err
	}
	slog.Debug("loaded project mapping", "path", cfg.ProjectsFile, "tags", mapping.Len())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tok, err := obtainToken(ctx, cmd, cfg)
	if err != nil {
		slog.Error("failed to obtain API token", "error", err, "path", cfg.TokenFile)
		return err
	}

	client := taimio.NewClient(ctx, cfg.APIRoot, tok, taimio.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	activities, err := client.FetchActivities(ctx, tag, dateRange)
	if err != nil {
		slog.Error("failed to fetch activities", "error", err, "tag", tag,
			"start_date", dateRange.Start.Format(model.DateLayout),
			"end_date", dateRange.End.Format(model.DateLayout))
		return err
	}
	if cfg.ClientSideFilter {
		activities = report.Filter(activities, tag, dateRange)
	}

	var buf bytes.Buffer
	switch mode {
	case dayMode:
		report.PrintDayReport(&buf, report.DayReport(activities, mapping))
	case projectMode:
		report.PrintProjectReport(&buf, report.ProjectReport(activities, mapping))
	}

	if _, err := io.Copy(cmd.OutOrStdout(), &buf); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if copyReport {
		if err := clipboard.CopyText(buf.String()); err != nil {
			slog.Warn("failed to copy report to clipboard", "error", err)
		}
	}
	return nil
}

func runLoginCommand(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, err := loadConfig(cmd)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", configPath)
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	// The stored token is only replaced once the new login succeeds.
	if _, err := promptAndLogin(ctx, cmd, cfg); err != nil {
		slog.Error("login failed", "error", err, "path", cfg.TokenFile)
		return err
	}
	cmd.Printf("Token saved to %s\n", cfg.TokenFile)
	return nil
}

// --- Helper Functions ---

// loadConfig reads the config file and environment, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-root") {
		cfg.APIRoot = apiRoot
	}
	if flags.Changed("token-file") {
		cfg.TokenFile = tokenFile
	}
	if flags.Changed("projects") {
		cfg.ProjectsFile = projectsFile
	}
	return cfg, nil
}

// obtainToken returns the stored token, or prompts for credentials, logs in and
// stores the new token when none is saved.
func obtainToken(ctx context.Context, cmd *cobra.Command, cfg config.Config) (string, error) {
	store := token.Store{Path: cfg.TokenFile}
	tok, err := store.Load()
	if err == nil {
		return tok, nil
	}
	if !errors.Is(err, token.ErrNotFound) {
		return "", err
	}
	return promptAndLogin(ctx, cmd, cfg)
}

// promptAndLogin asks for credentials, logs in and saves the new token,
// overwriting any stored one. Nothing is written when the login fails.
func promptAndLogin(ctx context.Context, cmd *cobra.Command, cfg config.Config) (string, error) {
	username, password, err := promptCredentials(cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}

	client := taimio.NewClient(ctx, cfg.APIRoot, "", taimio.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	tok, err := client.Login(ctx, username, password)
	if err != nil {
		return "", err
	}

	store := token.Store{Path: cfg.TokenFile}
	if err := store.Save(tok); err != nil {
		return "", err
	}
	slog.Info("saved API token", "path", cfg.TokenFile)
	return tok, nil
}

// promptCredentials asks for a username and password. The password is read
// without echo when in is a terminal.
func promptCredentials(in io.Reader, prompt io.Writer) (string, string, error) {
	reader := bufio.NewReader(in)

	fmt.Fprint(prompt, "Username: ")
	username, err := readLine(reader)
	if err != nil {
		return "", "", fmt.Errorf("failed to read username: %w", err)
	}

	fmt.Fprint(prompt, "Password: ")
	var password string
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	} else {
		password, err = readLine(reader)
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
	}
	return username, password, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
