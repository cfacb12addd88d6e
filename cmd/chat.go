package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"docverify/internal/chat"
	"docverify/internal/config"
	"docverify/internal/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about a verified batch",
	Long: `Start an interactive conversation grounded on the extraction artifacts
of a completed verification run. The extracted text of every document is
loaded and sent as context to an OpenAI chat model; answers are limited
to what the documents contain.

Required environment variables:
  OPENAI_API_KEY - OpenAI API key`,
	Example: `  # Chat about the configured batch output
  docverify chat

  # Chat about a specific artifact folder
  docverify chat --artifacts ./output/extracted

  # Ask a single question and exit
  docverify chat -q "Which documents mention a tax number?"`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().String("artifacts", "", "Artifact folder (default: configured extracted folder)")
	chatCmd.Flags().StringP("question", "q", "", "Ask one question and exit")
}

func runChat(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("chat-cmd")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	artifactsDir, _ := cmd.Flags().GetString("artifacts")
	if artifactsDir == "" {
		artifactsDir = cfg.ExtractedDir()
	}

	store, err := chat.LoadStore(artifactsDir)
	if err != nil {
		return err
	}

	session, err := chat.NewSession(cfg.OpenAIAPIKey, store, cfg.ChatModel, cfg.ChatFallback)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if question, _ := cmd.Flags().GetString("question"); question != "" {
		answer, err := session.Ask(ctx, question)
		if err != nil {
			return err
		}
		fmt.Println(answer)
		return nil
	}

	log.Info().
		Int("documents", len(store.Names())).
		Str("model", cfg.ChatModel).
		Msg("Starting chat session")
	fmt.Printf("Loaded %d documents. Ask a question, or 'exit' to quit.\n", len(store.Names()))

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		answer, err := session.Ask(ctx, question)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error().Err(err).Msg("chat request failed")
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Println(answer)
	}
	return scanner.Err()
}
