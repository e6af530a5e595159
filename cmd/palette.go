package cmd

import (
	"github.com/BitPonyLLC/swatchcard/internal/imageio"
	"github.com/BitPonyLLC/swatchcard/pkg/palette"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	rootCmd.AddCommand(paletteCmd)
}

var paletteCmd = &cobra.Command{
	Use:   "palette <image>...",
	Short: "Prints the dominant colors of images",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := paletteOptions(viper.GetInt("swatches"))
		if err != nil {
			return fail(codeConfig, err)
		}

		printer := message.NewPrinter(language.English)

		for _, arg := range args {
			img, _, err := imageio.Load(arg)
			if err != nil {
				return fail(codeLoad, err)
			}

			p, err := palette.Extract(img, opts)
			if err != nil {
				return fail(codeAnalyze, "can't determine dominant colors of %s: %w", arg, err)
			}

			total := p.Total()
			printer.Fprintf(cmd.OutOrStdout(), "%s (%d pixels analyzed)\n", arg, total)
			for _, s := range p {
				printer.Fprintf(cmd.OutOrStdout(), "  %s %10d %6.2f%%\n", s.Hex(), s.Count, s.Share(total)*100)
			}
		}

		return nil
	},
}
