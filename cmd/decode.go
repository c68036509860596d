package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/jsphweid/phonomidi/codec"
	"github.com/jsphweid/phonomidi/util"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var decodeMax int

func init() {
	decodeCmd.Flags().IntVar(&decodeMax, "max", 0, "decode at most this many files per directory (0 means all)")
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <file.mid|dir>...",
	Short: "Decodes MIDI files back into text",
	Long:  `Decodes MIDI files back into text. Directories are searched for .mid and .midi files.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := expandPaths(args, decodeMax)
		if err != nil {
			return err
		}

		c, err := loadCodec(cfg)
		if err != nil {
			return err
		}
		return decodeAll(cmd.Context(), cmd.OutOrStdout(), c, paths)
	},
}

func expandPaths(args []string, maxNum int) ([]string, error) {
	var res []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			res = append(res, arg)
			continue
		}
		paths, err := util.GatherAllMidiPaths(arg, maxNum)
		if err != nil {
			return nil, err
		}
		res = append(res, paths...)
	}
	return res, nil
}

// decodeAll decodes in parallel and prints results in input order. The
// first failure cancels the rest.
func decodeAll(ctx context.Context, w io.Writer, c *codec.Codec, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]string, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := c.DecodeFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, path := range paths {
		if len(paths) == 1 {
			fmt.Fprintln(w, results[i])
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", path, results[i])
	}
	return nil
}
