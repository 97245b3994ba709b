package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/citywatch/sentinel/internal/alert"
	"github.com/citywatch/sentinel/internal/analyzer"
	"github.com/citywatch/sentinel/internal/lexicon"
	"github.com/citywatch/sentinel/internal/monitor"
	"github.com/citywatch/sentinel/internal/threatlog"
	"github.com/citywatch/sentinel/pkg/client"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

var (
	serverURL string
	cfgFile   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sentinelctl",
	Short: "Sentinel threat analysis CLI",
	Long: `sentinelctl scores free text for threat content.

By default it analyzes locally using the built-in lexicon. Pass --server to
submit text to a running Sentinel instance instead, which also records
elevated results in its threat log.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(home + "/.sentinel")
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
		viper.AutomaticEnv()
		_ = viper.ReadInConfig()

		if serverURL == "" {
			serverURL = viper.GetString("server_url")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.sentinel/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Sentinel server URL (default: analyze locally)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)
}

// ── analyze ──────────────────────────────────────────────────────────────────

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Score a text for threat content",
	Long: `Analyze scores a text and prints the threat level, score, and evidence.

Reads the text from the argument, or from stdin when no argument is given:

  sentinelctl analyze "going to buy a gun tonight"
  cat message.txt | sentinelctl analyze`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := inputText(args)
		if err != nil {
			return err
		}

		if serverURL != "" {
			return analyzeRemote(cmd.Context(), text)
		}
		return analyzeLocal(text)
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the raw analysis as JSON")
}

func inputText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	var sb strings.Builder
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("no text given (pass an argument or pipe to stdin)")
	}
	return text, nil
}

func analyzeLocal(text string) error {
	lex, err := lexicon.New()
	if err != nil {
		return fmt.Errorf("build lexicon: %w", err)
	}
	a := analyzer.New(lex).Analyze(text)

	if analyzeJSON {
		return printJSON(a)
	}

	fmt.Printf("Level: %s  Score: %d/100\n", a.Level, a.Score)
	if len(a.FoundThreats) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "\nKEYWORD\tWEIGHT\tCATEGORY\tLANG")
		for _, kw := range a.FoundThreats {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", kw.Keyword, kw.Weight, kw.Category, kw.Language)
		}
		w.Flush()
	}
	for _, p := range a.DetectedPatterns {
		fmt.Printf("Pattern [%s]: %q\n", p.Type, p.Match)
	}
	return nil
}

func analyzeRemote(ctx context.Context, text string) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	res, err := client.New(serverURL).Analyze(ctx, text, "cli")
	if err != nil {
		return err
	}

	if analyzeJSON {
		return printJSON(res)
	}

	fmt.Printf("Level: %s  Score: %d/100\n", res.Analysis.ThreatLevel, res.Analysis.ThreatScore)
	if res.Number != "" {
		fmt.Printf("Recorded as %s\n", res.Number)
	}
	fmt.Printf("Prediction: %s (probability %d%%)\n", res.Prediction.Prediction, res.Prediction.Probability)
	return nil
}

// ── scan ─────────────────────────────────────────────────────────────────────

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run the canned demo feed through the scorer",
	Long: `Scan pushes a small set of canned sample posts through the full
check/record/alert path and prints what would be recorded. Demo only; no
live feed is contacted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lex, err := lexicon.New()
		if err != nil {
			return fmt.Errorf("build lexicon: %w", err)
		}
		logger := zap.NewNop()
		mon := monitor.New(analyzer.New(lex), threatlog.New(), alert.NewNoopNotifier(logger), logger)

		hits := mon.ScanSamples(cmd.Context())

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SOURCE\tLEVEL\tSCORE\tRECORDED")
		for _, hit := range hits {
			fmt.Fprintf(w, "%s\t%s\t%d\t%v\n", hit.Source, hit.Level, hit.Score, hit.Recorded)
		}
		return w.Flush()
	},
}

// ── version ──────────────────────────────────────────────────────────────────

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the sentinelctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
