package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mdchunk/chunkdown/internal/config"
	"github.com/mdchunk/chunkdown/internal/logger"
	"github.com/mdchunk/chunkdown/pkg/chunkdown"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configPath string
	chunkSize  int
	overflow   float64
	logLevel   string
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chunkdown [file]",
		Short: "Split a markdown document into ordered, self-contained chunks",
		Long: "chunkdown splits a CommonMark + GFM document into an ordered list of markdown " +
			"chunks sized for embedding or for feeding to a language model, reading from a " +
			"file argument or from stdin when none is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: runSplit,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing chunkdown.yaml")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "target chunk size in visible characters (overrides config)")
	cmd.Flags().Float64Var(&overflow, "max-overflow-ratio", 0, "allowed overflow above chunk-size before a forced split (overrides config)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn, or error (overrides config)")

	return cmd
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Encoding); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	log := logger.GetLogger()

	if chunkSize > 0 {
		cfg.Chunking.ChunkSize = chunkSize
	}
	if overflow > 0 {
		cfg.Chunking.MaxOverflowRatio = overflow
	}

	input, err := readInput(cmd, args)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	splitter, err := chunkdown.New(splitterOptions(cfg.Chunking), log)
	if err != nil {
		return fmt.Errorf("build splitter: %w", err)
	}

	chunks, err := splitter.SplitText(input)
	if err != nil {
		log.Error("split failed", zap.Error(err))
		return err
	}
	log.Sugar().Infow("split complete", "chunks", len(chunks))

	return writeOutput(cmd.OutOrStdout(), chunks, cfg.Output)
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func writeOutput(w io.Writer, chunks []string, out config.OutputConfig) error {
	if out.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(chunks)
	}
	for i, chunk := range chunks {
		if i > 0 {
			fmt.Fprint(w, out.Delimiter)
		}
		fmt.Fprint(w, chunk)
	}
	return nil
}

// splitterOptions translates the CLI-facing config into
// chunkdown.SplitterOptions, applying the library defaults and then the
// overflow ratio, raw-size cap, table-header flag and link/image style
// the config/CLI expose on top of them (spec §3, §4.9).
func splitterOptions(cc config.ChunkingConfig) chunkdown.SplitterOptions {
	opts := chunkdown.DefaultOptions(cc.ChunkSize)
	opts.MaxOverflowRatio = cc.MaxOverflowRatio
	opts.MaxRawSize = cc.MaxRawSize
	opts.Experimental.PreserveTableHeaders = cc.PreserveTableHeaders

	if cc.LinkStyle == "inline" {
		rule := opts.Rules["link"]
		rule.Style = chunkdown.StyleInline
		opts.Rules["link"] = rule
	}
	if cc.ImageStyle == "inline" {
		rule := opts.Rules["image"]
		rule.Style = chunkdown.StyleInline
		opts.Rules["image"] = rule
	}
	return opts
}

func init() {
	viper.AutomaticEnv()
}
