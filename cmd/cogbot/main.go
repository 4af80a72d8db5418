// Command cogbot runs the vision-driven bots from a terminal.
//
// The console subcommand hosts a bot in an interactive loop where plain
// lines become user messages and slash commands inject the events a vision
// pipeline would normally deliver. The token subcommand exchanges a Direct
// Line channel secret for a web chat token.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cogbots "github.com/leeroy79/cog-service-bots"
	"github.com/leeroy79/cog-service-bots/bot"
	"github.com/leeroy79/cog-service-bots/core"
	"github.com/leeroy79/cog-service-bots/directline"
	"github.com/leeroy79/cog-service-bots/logging"
	"github.com/leeroy79/cog-service-bots/state"
	"github.com/leeroy79/cog-service-bots/state/sqlite"
	"github.com/leeroy79/cog-service-bots/vision"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cogbot",
		Short: "Conversational bots driven by external vision analysis",
		Long: `cogbot hosts the face and I-spy bots from a terminal.

Plain input lines are delivered as user messages. Slash commands simulate
the events a vision pipeline would send:

  /join <member-id>       membership change (bot ids start the intro)
  /faces <id>;<name>      face recognition result
  /emotion <label>        detected emotion
  /tags <tag>[,<tag>...]  object tags for an analysed image
  /imageerror             failed image analysis
  /quit                   exit`,
	}

	rootCmd.AddCommand(newConsoleCmd())
	rootCmd.AddCommand(newTokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newConsoleCmd() *cobra.Command {
	var (
		botName        string
		dbPath         string
		conversationID string
		logLevel       string
	)

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Host a bot in an interactive console session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var store core.StateStore = state.NewInMemoryStore()
			if dbPath != "" {
				s, err := sqlite.New(dbPath)
				if err != nil {
					return fmt.Errorf("open state db: %w", err)
				}
				defer s.Close()
				store = s
			}

			logger := logging.NewSlogLogger(parseLevel(logLevel), "text", false)

			app := cogbots.New(func(o *cogbots.Options) {
				o.StateStore = store
				o.Logger = logger
			})
			app.RegisterBot(bot.NewFaceBot())
			app.RegisterBot(bot.NewISpyBot())

			if err := validateBotName(botName); err != nil {
				return err
			}

			return runConsole(cmd.Context(), app, botName, conversationID)
		},
	}

	cmd.Flags().StringVar(&botName, "bot", bot.ISpyBotName, "bot to host (facebot or ispybot)")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path for durable state (empty = in-memory)")
	cmd.Flags().StringVar(&conversationID, "conversation", "console", "conversation identifier")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	return cmd
}

func validateBotName(name string) error {
	switch name {
	case bot.FaceBotName, bot.ISpyBotName:
		return nil
	default:
		return fmt.Errorf("unknown bot %q (expected %q or %q)", name, bot.FaceBotName, bot.ISpyBotName)
	}
}

func runConsole(ctx context.Context, app *cogbots.CogBots, botName, conversationID string) error {
	fmt.Printf("Hosting %s (conversation %s). Type /quit to exit.\n", botName, conversationID)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			return nil
		}

		a, err := parseInput(line)
		if err != nil {
			fmt.Println(err)
			continue
		}

		replies, err := app.Process(ctx, botName, conversationID, a)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		for _, r := range replies {
			fmt.Println(r.Text)
		}
	}
}

func parseInput(line string) (core.Activity, error) {
	if !strings.HasPrefix(line, "/") {
		return core.NewMessageActivity(line), nil
	}

	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "/join":
		if rest == "" {
			return core.Activity{}, fmt.Errorf("usage: /join <member-id>")
		}
		return core.NewConversationUpdateActivity(rest), nil

	case "/faces":
		if rest == "" {
			return core.Activity{}, fmt.Errorf("usage: /faces <id>;<name>")
		}
		return core.NewEventActivity(vision.EventFacesAnalysed, rest), nil

	case "/emotion":
		if rest == "" {
			return core.Activity{}, fmt.Errorf("usage: /emotion <label>")
		}
		return core.NewEventActivity(vision.EventNewEmotion, rest), nil

	case "/tags":
		var objects []vision.Object
		for _, tag := range strings.Split(rest, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				objects = append(objects, vision.Object{Obj: tag})
			}
		}
		return core.NewEventActivity(vision.EventImageAnalysed, objects), nil

	case "/imageerror":
		return core.NewEventActivity(vision.EventImageError, nil), nil

	default:
		return core.Activity{}, fmt.Errorf("unknown command %s", cmd)
	}
}

func parseLevel(s string) logging.LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return logging.LogLevelDebug
	case "info":
		return logging.LogLevelInfo
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelWarn
	}
}

func newTokenCmd() *cobra.Command {
	var (
		secret   string
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Exchange a Direct Line secret for a web chat token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("DIRECTLINE_SECRET")
			}

			client, err := directline.New(secret, directline.WithEndpoint(endpoint))
			if err != nil {
				return err
			}

			cfg, err := client.GenerateToken(cmd.Context())
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Direct Line channel secret (falls back to DIRECTLINE_SECRET)")
	cmd.Flags().StringVar(&endpoint, "endpoint", directline.DefaultEndpoint, "Direct Line service endpoint")

	return cmd
}
