package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/batchtop/api"
	"github.com/teranos/batchtop/config"
	"github.com/teranos/batchtop/console"
	"github.com/teranos/batchtop/logger"
	"github.com/teranos/batchtop/render"
)

// ConsoleCmd starts the interactive operations console.
var ConsoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive operations console",
	Long: `Start the interactive operations console.

The console keeps five resource collections in sync with the platform:
jobs, pipelines, and scheduled jobs refresh on explicit mutation; runtime
metrics and the execution trend refresh on independent timers driven by
the refresh interval (the trend timer is floored at 5 seconds).

Actions are typed at the prompt; 'help' lists them, 'quit' exits.
Editing the config file while the console runs reschedules the timers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if serverURL, _ := cmd.Flags().GetString("server"); serverURL != "" {
			cfg.Server.URL = serverURL
		}
		if seconds, _ := cmd.Flags().GetInt("interval"); seconds > 0 {
			cfg.Console.RefreshIntervalSeconds = seconds
		}

		client, err := api.NewClient(cfg.Server.URL, logger.Logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		configPath := config.UserConfigPath()
		var watcher *config.Watcher

		c := console.New(ctx, console.Options{
			Client:   client,
			Renderer: render.NewTermRenderer(),
			Toasts:   render.NewTermToasts(),
			Logger:   logger.Logger,
			Confirm:  confirmPrompt,
			PersistInterval: func(seconds int) error {
				if configPath == "" {
					return nil
				}
				if watcher != nil {
					watcher.MarkOwnWrite()
				}
				return config.SaveRefreshInterval(configPath, seconds)
			},
		})

		// Hot-reload: an edited refresh interval reschedules both timers.
		if configPath != "" {
			if w, werr := config.NewWatcher(configPath); werr == nil {
				watcher = w
				watcher.OnReload(func(updated *config.Config) error {
					c.Poller().Reschedule(updated.Console.RefreshInterval())
					return nil
				})
				watcher.Start()
				defer watcher.Stop()
			} else {
				logger.Debugw("Config watcher unavailable", "error", werr)
			}
		}

		pterm.Info.Printfln("Connecting to %s (refresh every %ds)", cfg.Server.URL, cfg.Console.RefreshIntervalSeconds)

		wait := c.Start(ctx, cfg.Console.RefreshInterval())
		wait()
		defer c.Stop()

		return runPrompt(ctx, cancel, c)
	},
}

func init() {
	ConsoleCmd.Flags().String("server", "", "Platform base URL (overrides config)")
	ConsoleCmd.Flags().Int("interval", 0, "Refresh interval in seconds (overrides config)")
}

// runPrompt reads operator input lines and feeds them to the dispatch
// table until EOF, 'quit', or an interrupt.
func runPrompt(ctx context.Context, cancel context.CancelFunc, c *console.Console) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		pterm.Info.Println("\nShutting down")
		cancel()
		os.Stdin.Close()
	}()

	dispatcher := c.Dispatcher()
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "quit", "exit":
			return nil
		case "help":
			pterm.Info.Printfln("Actions: %s", strings.Join(dispatcher.Actions(), ", "))
		default:
			if err := dispatcher.Dispatch(ctx, line); err != nil {
				pterm.Error.Println(err.Error())
			}
		}
		if ctx.Err() != nil {
			return nil
		}
		fmt.Print("> ")
	}
	return nil
}

// confirmPrompt blocks for a y/N answer on stdin.
func confirmPrompt(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	var answer string
	if _, err := fmt.Scanln(&answer); err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
