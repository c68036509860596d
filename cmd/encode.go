package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jsphweid/phonomidi/store"
	"github.com/spf13/cobra"
)

var (
	errEmptyText   = errors.New("text cannot be empty")
	errTextTooLong = errors.New("text too long")
)

var encodeOut string

func init() {
	encodeCmd.Flags().StringVarP(&encodeOut, "out", "o", "", "output .mid path (default: a new folder under the outputs dir)")
	rootCmd.AddCommand(encodeCmd)
}

var encodeCmd = &cobra.Command{
	Use:   "encode <text>",
	Short: "Encodes text into a MIDI file",
	Long:  `Encodes text into a four track MIDI file. Multiple arguments are joined with spaces.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := cleanText(strings.Join(args, " "), cfg.Limits.MaxTextLength)
		if err != nil {
			return err
		}

		c, err := loadCodec(cfg)
		if err != nil {
			return err
		}

		path := encodeOut
		if path == "" {
			path = store.NewLocal(cfg.Outputs.Dir).NewOutputPath(time.Now())
		}
		enc, err := c.EncodeFile(text, path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ipa: %s\n", enc.IPA)
		fmt.Fprintf(out, "notes: %d\n", len(enc.Score.Melody.Notes))
		fmt.Fprintf(out, "midi: %s\n", path)
		return nil
	},
}

// cleanText rejects blank and overlong input and trims what it accepts. The
// length limit counts characters, not bytes.
func cleanText(text string, maxLength int) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", errEmptyText
	}
	if utf8.RuneCountInString(text) > maxLength {
		return "", fmt.Errorf("%w (max %d characters)", errTextTooLong, maxLength)
	}
	return trimmed, nil
}
