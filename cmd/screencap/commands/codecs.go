package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xurtis/screencap/internal/capture"
	"github.com/xurtis/screencap/internal/ffmpeg"
)

var codecsCmd = &cobra.Command{
	Use:   "codecs",
	Short: "Show ffmpeg capabilities and the codecs that would be used",
	Long: `Query the local ffmpeg build for its container formats and encoders,
and show which codec each configured candidate list would select for a
recording.`,
	RunE: runCodecs,
}

func init() {
	rootCmd.AddCommand(codecsCmd)
}

func runCodecs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	formats, err := ffmpeg.Formats()
	if err != nil {
		return err
	}
	video, err := ffmpeg.VideoEncoders()
	if err != nil {
		return err
	}
	audio, err := ffmpeg.AudioEncoders()
	if err != nil {
		return err
	}

	printRows("Container formats", formats)
	printRows("Video encoders", video)
	printRows("Audio encoders", audio)

	selection, err := capture.SelectCodecs(cfg.Codecs)
	if err != nil {
		return err
	}

	fmt.Println("Selected for recording:")
	fmt.Printf("  container:     %s\n", selection.Container)
	fmt.Printf("  screen input:  %s\n", selection.ScreenInput)
	fmt.Printf("  audio input:   %s\n", selection.AudioInput)
	fmt.Printf("  video encoder: %s\n", selection.VideoEncoder)
	fmt.Printf("  audio encoder: %s\n", selection.AudioEncoder)
	return nil
}

func printRows(title string, rows []ffmpeg.Support) {
	fmt.Printf("%s (%d):\n", title, len(rows))
	for _, row := range rows {
		flags := [2]byte{'.', '.'}
		if row.Decode {
			flags[0] = 'D'
		}
		if row.Encode {
			flags[1] = 'E'
		}
		fmt.Printf("  %s %-24s %s\n", flags[:], strings.Join(row.Names, ","), row.Description)
	}
	fmt.Println()
}
