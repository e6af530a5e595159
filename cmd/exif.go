package cmd

import (
	"errors"

	"github.com/BitPonyLLC/swatchcard/pkg/metadata"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exifCmd)
}

var exifCmd = &cobra.Command{
	Use:   "exif <image>...",
	Short: "Prints the camera settings stored in images",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, arg := range args {
			cmd.Println(arg)

			rec, err := metadata.ReadFile(arg)
			if err != nil {
				if errors.Is(err, metadata.ErrNoMetadata) {
					cmd.Println("  No EXIF data found in the image.")
					continue
				}
				return fail(codeLoad, err)
			}

			for _, line := range rec.Lines() {
				cmd.Println("  " + line)
			}
		}

		return nil
	},
}
