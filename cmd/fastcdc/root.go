package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/contentdefined/fastcdc"
	"github.com/contentdefined/fastcdc/ioadapter"
)

// Version information, set at build time via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func newRootCommand() *cobra.Command {
	var (
		minSize       int
		avgSize       int
		maxSize       int
		normalization int
		enableHash    bool
		keyFile       string
		outputFormat  string
		metricsAddr   string
	)

	v := viper.New()

	root := &cobra.Command{
		Use:   "fastcdc",
		Short: "Split a byte stream into content-defined chunks",
		Long: `fastcdc splits standard input, or a named file, into variable-sized
chunks using the FastCDC rolling-hash algorithm and prints a manifest of
each chunk's offset, length, and (optionally) strong hash.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = time.RFC3339Nano
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.New().String()
			logger := log.With().Str("run_id", runID).Logger()

			bindFlags(v, cmd)
			cfg, err := loadConfig(v)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			config, err := cfg.chunkConfig()
			if err != nil {
				return fmt.Errorf("invalid chunking configuration: %w", err)
			}

			logger.Info().
				Int("min_size", config.MinSize()).
				Int("avg_size", config.AvgSize()).
				Int("max_size", config.MaxSize()).
				Bool("hash_enabled", config.HashConfig().Enabled).
				Msg("starting split")

			var input io.Reader = cmd.InOrStdin()
			if len(args) > 0 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening input: %w", err)
				}
				defer f.Close()
				input = f
			}

			if metricsAddr != "" {
				stop := serveMetrics(metricsAddr, logger)
				defer stop()
			}

			it := ioadapter.NewIterator(input, config)
			defer it.Close()

			writer := newManifestWriter(cmd.OutOrStdout(), outputFormat)
			var chunkCount, byteCount int

			for {
				chunk, err := it.Next()
				if err != nil {
					if chunkErr, ok := err.(*fastcdc.ChunkError); ok && chunkErr.Kind == fastcdc.ErrIO {
						return fmt.Errorf("reading input: %w", chunkErr)
					}
					break
				}
				chunksEmittedTotal.Inc()
				bytesProcessedTotal.Add(float64(chunk.Len()))
				chunkSizeBytes.Observe(float64(chunk.Len()))
				chunkCount++
				byteCount += chunk.Len()

				if err := writer.write(chunk); err != nil {
					return fmt.Errorf("writing manifest entry: %w", err)
				}
			}

			logger.Info().
				Int("chunks", chunkCount).
				Int("bytes", byteCount).
				Msg("split complete")
			return nil
		},
	}

	root.Flags().IntVar(&minSize, "min-size", fastcdc.DefaultMinSize, "minimum chunk size in bytes")
	root.Flags().IntVar(&avgSize, "avg-size", fastcdc.DefaultAvgSize, "target average chunk size in bytes")
	root.Flags().IntVar(&maxSize, "max-size", fastcdc.DefaultMaxSize, "maximum chunk size in bytes")
	root.Flags().IntVar(&normalization, "normalization", fastcdc.DefaultNormalizationLevel, "normalization level")
	root.Flags().BoolVar(&enableHash, "hash", true, "compute a BLAKE3 strong hash for each chunk")
	root.Flags().StringVar(&keyFile, "key-file", "", "path to a 32-byte key for keyed CDC mode")
	root.Flags().StringVar(&outputFormat, "format", "text", "manifest format: text or json")
	root.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (disabled if empty)")

	root.AddCommand(newVersionCommand())
	return root
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	_ = v.BindPFlag("min-size", cmd.Flags().Lookup("min-size"))
	_ = v.BindPFlag("avg-size", cmd.Flags().Lookup("avg-size"))
	_ = v.BindPFlag("max-size", cmd.Flags().Lookup("max-size"))
	_ = v.BindPFlag("normalization", cmd.Flags().Lookup("normalization"))
	_ = v.BindPFlag("hash", cmd.Flags().Lookup("hash"))
	_ = v.BindPFlag("key-file", cmd.Flags().Lookup("key-file"))
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "fastcdc %s (built %s, commit %s)\n", Version, BuildTime, GitCommit)
			return nil
		},
	}
}
