package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/session"
)

var chatServerURL string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run an interactive mock interview in the terminal",
	Long: `Run a mock interview from the terminal. With --server the turns are sent to a running API server; otherwise the conversation engine runs in-process with the configured LLM provider.

Commands: /status shows the session, /reset starts over, /quit exits.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatServerURL, "server", "", "Base URL of a running server (e.g. http://localhost:3000)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var transport session.Transport
	if chatServerURL != "" {
		transport = session.NewHTTPTransport(chatServerURL, nil)
	} else {
		cfg, err := resolveConfig(config.Load(), configPath, verbose)
		if err != nil {
			return err
		}
		registry, err := buildRegistry(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = registry.Close() }()
		transport = session.NewEngineTransport(interview.NewEngine(interview.NewGenerator(registry.Default())))
	}

	return chatLoop(ctx, session.NewStore(transport), cmd.InOrStdin(), cmd.OutOrStdout())
}

// chatLoop reads one user message per line until the interview completes,
// input ends, or the user quits.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func chatLoop(ctx context.Context, store *session.Store, in io.Reader, out io.Writer) error {
	p := observability.NewPrinter(out)
	printLast := func() {
		msgs := store.State().Messages
		if len(msgs) > 0 {
			p.PrintMessage(msgs[len(msgs)-1])
		}
	}

	store.StartConversation()
	printLast()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/status":
			p.PrintProfile(store.State())
			continue
		case "/reset":
			store.ResetConversation()
			store.StartConversation()
			printLast()
			continue
		}

		before := len(store.State().Messages)
		state := store.SendMessage(ctx, line)
		// Skip the echoed user message
		for _, msg := range state.Messages[min(before+1, len(state.Messages)):] {
			p.PrintMessage(msg)
		}

		if store.IsComplete() {
			p.PrintProfile(state)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return scanner.Err()
}
