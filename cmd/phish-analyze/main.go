package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/phishdrill/phishdrill/internal/adapters/classifier"
	"github.com/phishdrill/phishdrill/internal/heuristics"
	"github.com/phishdrill/phishdrill/internal/logging"
	"github.com/phishdrill/phishdrill/internal/utils"
)

var (
	inputFile = flag.String("file", "", "Input email file (use stdin if not specified)")
	verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog   = flag.Bool("json-log", false, "Output logs in JSON format")

	// Optional LLM second opinion
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI (enables the LLM classifier)")
	openaiModelName = flag.String("openai-model", "gpt-4", "OpenAI model name")
	maxBodySize     = flag.Int("max-body-size", 4096, "Maximum email body size to send to the classifier")
)

func main() {
	flag.Parse()

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Read email from file or stdin
	var emailReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		emailReader = file
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	// Parse email
	msg, err := mail.ReadMessage(bufio.NewReader(emailReader))
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
	}

	subject := msg.Header.Get("Subject")
	senderName, senderEmail := parseFrom(msg.Header.Get("From"))

	bodyBytes, err := io.ReadAll(msg.Body)
	if err != nil {
		logger.Fatal("Failed to read email body", zap.Error(err))
	}
	body := string(bodyBytes)

	// Run the heuristic analyzer
	analyzer := heuristics.NewAnalyzer()
	result := analyzer.Analyze(subject, body, senderEmail, senderName)

	fmt.Printf("Phish score: %d\n", result.PhishScore)
	fmt.Printf("Difficulty:  %s\n", result.Difficulty)
	if len(result.Flags) == 0 {
		fmt.Println("No suspicion signals triggered.")
	} else {
		fmt.Printf("Signals (%d):\n", len(result.Flags))
		for _, f := range result.Flags {
			if f.Detail != "" {
				fmt.Printf("  [%d] %s (%s)\n", f.Weight, f.Label, f.Detail)
			} else {
				fmt.Printf("  [%d] %s\n", f.Weight, f.Label)
			}
		}
		fmt.Println("Top reasons:")
		for _, f := range result.TopReasons {
			fmt.Printf("  - %s\n", f.Label)
		}
	}

	// Optional LLM second opinion
	if *openaiAPIKey != "" {
		textProcessor := utils.NewTextProcessor(logger)
		llm := classifier.NewOpenAIClassifier(*openaiAPIKey, *openaiModelName, *maxBodySize, logger, textProcessor)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		verdict, err := llm.Classify(ctx, subject, body, senderEmail)
		if err != nil {
			logger.Error("Classifier failed", zap.Error(err))
			return
		}
		fmt.Printf("Classifier probability: %.2f\n", verdict.ProbPhish)
		for _, r := range verdict.Reasons {
			fmt.Printf("  - %s\n", r)
		}
	}
}

// parseFrom splits a From header into display name and address. A malformed
// header falls back to the raw string as the address.
func parseFrom(from string) (name, address string) {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return "", from
	}
	return addr.Name, addr.Address
}
