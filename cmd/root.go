package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/jsphweid/phonomidi/codec"
	"github.com/jsphweid/phonomidi/config"
	"github.com/jsphweid/phonomidi/decoder"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "phonomidi",
	Short: "Encodes text as music and decodes it back",
	Long: `phonomidi turns text into a four track MIDI file by way of IPA phonemes,
and recovers the text from the melody track of such a file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file")
}

func setup() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env", "err", err)
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Server.LogLevel.Level()})
	slog.SetDefault(slog.New(handler))
	return nil
}

func loadCodec(cfg *config.Config) (*codec.Codec, error) {
	var opts []decoder.Option
	if cfg.Decode.Fuzzy {
		opts = append(opts, decoder.WithFuzzy(cfg.Decode.FuzzyThreshold))
	}
	return codec.Load(cfg.Dictionary.Path, opts...)
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
