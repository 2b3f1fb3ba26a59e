package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"reliefnet/cmd/reliefnet/config"
	"reliefnet/cmd/reliefnet/tui"
	"reliefnet/cmd/reliefnet/ui"
	"reliefnet/internal/api"
	"reliefnet/internal/geo"
	"reliefnet/internal/weather"
)

var (
	// Global flags
	verbose bool
	baseURL string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reliefnet",
	Short: "ReliefNet - disaster relief coordination client",
	Long: `ReliefNet is the terminal client for the ReliefNet disaster relief
coordination platform.

Citizens file and track disaster reports; NGO coordinators monitor the
community feed and manage their relief inventory. Both get local weather
and the first-aid knowledge assistant.

Run without arguments to start the interactive interface. Sign in first
with ` + "`reliefnet login`" + `.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real environment always wins.
		_ = godotenv.Load()

		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		// Keep stdout clean for the TUI.
		cfg.OutputPaths = []string{"stderr"}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// loginCmd establishes a session; the cookie persists across invocations.
var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in to the platform",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := buildClient()
		if err != nil {
			return err
		}

		email := ""
		if len(args) == 1 {
			email = args[0]
		} else {
			fmt.Print("Email: ")
			if _, err := fmt.Scanln(&email); err != nil {
				return fmt.Errorf("failed to read email: %w", err)
			}
		}

		fmt.Print("Password: ")
		pwBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		ctx, cancel := commandContext()
		defer cancel()
		identity, err := client.Login(ctx, api.Credentials{
			Email:    strings.TrimSpace(email),
			Password: string(pwBytes),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %s (%s)\n", identity.Name, identity.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := buildClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		// Local cookies are cleared even when the server call fails.
		if err := client.Logout(ctx); err != nil {
			logger.Warn("server-side logout failed", zap.Error(err))
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := buildClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		identity, err := client.Profile(ctx)
		if err != nil {
			if api.IsAuth(err) {
				return fmt.Errorf("not signed in; run `reliefnet login`")
			}
			return err
		}
		fmt.Printf("%s <%s>\nRole: %s\n", identity.Name, identity.Email, identity.Role)
		return nil
	},
}

// askCmd queries the first-aid knowledge base without entering the TUI.
var askCmd = &cobra.Command{
	Use:   "ask [keyword]",
	Short: "Query the first-aid knowledge base",
	Long: `Queries the emergency knowledge base for first-aid guidance.

Example:
  reliefnet ask "Snake/Insect Bite"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := buildClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext()
		defer cancel()
		advice, err := client.Ask(ctx, strings.Join(args, " "))
		if err != nil {
			fmt.Println("No data found for this keyword.")
			return nil
		}
		printAdvice(advice)
		return nil
	},
}

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show current conditions and the forecast",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := buildClient()
		if err != nil {
			return err
		}
		resolver := weather.NewResolver(client, locatorFromConfig(cfg), logger)
		ctx, cancel := commandContext()
		defer cancel()
		bundle, err := resolver.Resolve(ctx)
		if err != nil {
			return err
		}

		cur := bundle.Current
		fmt.Printf("%s  %s  %.1f°C  %s  wind %.0f km/h\n",
			weather.IconFor(cur.Conditions).Glyph(), cur.Location, cur.Temp,
			cur.Conditions, cur.Windspeed)
		for i, day := range bundle.Forecast {
			fmt.Printf("  %-6s %s %.0f°  %s\n",
				weather.DayLabel(i, day.Date),
				weather.IconFor(day.Conditions).Glyph(), day.Temp, day.Conditions)
		}
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "api-url", "", "platform base URL (overrides config)")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, askCmd, weatherCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildClient assembles the gateway from config file, environment, and flags.
func buildClient() (*api.Client, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Debug("config load failed, using defaults", zap.Error(err))
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	cookieFile, err := config.CookieFile()
	if err != nil {
		logger.Debug("no cookie path available, session will not persist", zap.Error(err))
		cookieFile = ""
	}

	client, err := api.New(api.Config{
		BaseURL:    cfg.BaseURL,
		Timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
		CookieFile: cookieFile,
		Logger:     logger,
	})
	if err != nil {
		return nil, cfg, err
	}
	return client, cfg, nil
}

// locatorFromConfig prefers configured coordinates over the environment.
func locatorFromConfig(cfg config.Config) geo.Locator {
	if cfg.Latitude != nil && cfg.Longitude != nil {
		return geo.Static{Coords: api.Coordinates{
			Latitude:  *cfg.Latitude,
			Longitude: *cfg.Longitude,
		}}
	}
	return geo.FromEnv()
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func runInteractive() error {
	client, cfg, err := buildClient()
	if err != nil {
		return err
	}

	theme := ui.DetectTheme()
	switch cfg.Theme {
	case "dark":
		theme = ui.DarkTheme()
	case "light":
		theme = ui.LightTheme()
	}

	model := tui.New(client, locatorFromConfig(cfg), ui.NewStyles(theme), logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("interface error: %w", err)
	}
	return nil
}

func printAdvice(advice api.Advice) {
	if advice.Kind == api.AdvicePlain {
		fmt.Println(advice.Reply)
		return
	}
	if advice.Title != "" {
		fmt.Println(advice.Title)
		fmt.Println(strings.Repeat("-", len(advice.Title)))
	}
	if advice.RecoveryPosition != "" {
		fmt.Println("Recovery Position:")
		fmt.Println("  " + advice.RecoveryPosition)
	}
	if advice.Steps != "" {
		fmt.Println("Steps:")
		fmt.Println("  " + advice.Steps)
	}
	if advice.Precautions != "" {
		fmt.Println("Precautions:")
		fmt.Println("  " + advice.Precautions)
	}
	if advice.Verified {
		fmt.Println("(verified guidance)")
	}
}
