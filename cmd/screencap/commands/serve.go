package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xurtis/screencap/internal/api"
	"github.com/xurtis/screencap/internal/capture"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the screencap HTTP server",
	Long: `Start an HTTP server exposing the capture engine: inspect ffmpeg
capabilities and the resolved capture region, and trigger captures
remotely. Capture lifecycle events are streamed on /api/events.`,
	Example: `  # Start server on the configured port (default 8080)
  screencap serve

  # Start server on a custom port
  screencap serve --port 9090`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "server port (default is 8080)")
	viper.BindPFlag("server_port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	port := cfg.ServerPort
	if viper.GetInt("server_port") > 0 {
		port = viper.GetInt("server_port")
	}

	capturer, err := capture.New(cfg)
	if err != nil {
		return err
	}
	defer capturer.Close()

	server := api.NewServer(configMgr, capturer)
	return server.Start(port)
}
