// If you are AI: This is the rtmpget entrypoint: fetch an RTMP stream to FLV.
// It builds a session from flags or a profile file and copies the stream out.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rtmpcall/internal/config"
	"rtmpcall/internal/logging"
	"rtmpcall/session"
)

var (
	flagConfig    string
	flagOutput    string
	flagLogLevel  string
	flagPlaypath  string
	flagApp       string
	flagTCURL     string
	flagPageURL   string
	flagAuth      string
	flagSWFURL    string
	flagSWFVerify bool
	flagFlashVer  string
	flagSubscribe string
	flagToken     string
	flagJTV       string
	flagSOCKS     string
	flagConn      []string
	flagLive      bool
	flagStart     int
	flagStop      int
	flagBuffer    int
	flagTimeout   int
)

// rootCmd fetches one RTMP stream and writes the FLV bytes to the output.
var rootCmd = &cobra.Command{
	Use:   "rtmpget [flags] <url>",
	Short: "Fetch an RTMP stream to an FLV file",
	Long: "rtmpget connects to an RTMP server, plays the configured stream, " +
		"and writes the resulting FLV byte stream to a file or stdout.",
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

// init wires all option flags onto the root command.
func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Path to a YAML profile file")
	rootCmd.Flags().StringVarP(&flagOutput, "out", "o", "-", "Output file, - for stdout")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level (trace..error)")
	rootCmd.Flags().StringVar(&flagPlaypath, "playpath", "", "Override the playpath parsed from the URL")
	rootCmd.Flags().StringVar(&flagApp, "app", "", "Override the application name")
	rootCmd.Flags().StringVar(&flagTCURL, "tcurl", "", "URL of the target stream")
	rootCmd.Flags().StringVar(&flagPageURL, "pageurl", "", "URL of the embedding web page")
	rootCmd.Flags().StringVar(&flagAuth, "auth", "", "Authentication string appended to connect")
	rootCmd.Flags().StringVar(&flagSWFURL, "swfurl", "", "URL of the SWF player")
	rootCmd.Flags().BoolVar(&flagSWFVerify, "swfvfy", false, "Compute SWF verification from --swfurl")
	rootCmd.Flags().StringVar(&flagFlashVer, "flashver", "", "Flash plugin version string")
	rootCmd.Flags().StringVar(&flagSubscribe, "subscribe", "", "Live stream name to subscribe to")
	rootCmd.Flags().StringVar(&flagToken, "token", "", "SecureToken key")
	rootCmd.Flags().StringVar(&flagJTV, "jtv", "", "JSON token for Twitch/Justin.tv servers")
	rootCmd.Flags().StringVar(&flagSOCKS, "socks", "", "SOCKS4 proxy host[:port]")
	rootCmd.Flags().StringArrayVar(&flagConn, "conn", nil, "Extra connect parameter (repeatable)")
	rootCmd.Flags().BoolVar(&flagLive, "live", false, "The media is a live stream")
	rootCmd.Flags().IntVar(&flagStart, "start", 0, "Start offset in milliseconds (recorded only)")
	rootCmd.Flags().IntVar(&flagStop, "stop", 0, "Stop offset in milliseconds")
	rootCmd.Flags().IntVar(&flagBuffer, "buffer", 0, "Buffer time in milliseconds")
	rootCmd.Flags().IntVar(&flagTimeout, "timeout", 0, "Session timeout in seconds")
}

// buildOptions merges a profile file with command-line flags; flags win.
func buildOptions(cmd *cobra.Command, args []string) (string, *session.Options, string, string, error) {
	var profile config.Profile
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return "", nil, "", "", err
		}
		profile = *loaded
	}

	url := profile.URL
	if len(args) > 0 {
		url = args[0]
	}
	if url == "" {
		return "", nil, "", "", fmt.Errorf("a stream URL is required")
	}

	opts := &session.Options{
		Playpath:     firstOf(flagPlaypath, profile.Playpath),
		TCURL:        firstOf(flagTCURL, profile.TCURL),
		App:          firstOf(flagApp, profile.App),
		PageURL:      firstOf(flagPageURL, profile.PageURL),
		Auth:         firstOf(flagAuth, profile.Auth),
		SWFHash:      profile.SWFHash,
		SWFSize:      profile.SWFSize,
		SWFURL:       firstOf(flagSWFURL, profile.SWFURL),
		SWFVerify:    flagSWFVerify || profile.SWFVerify,
		FlashVersion: firstOf(flagFlashVer, profile.FlashVersion),
		Subscribe:    firstOf(flagSubscribe, profile.Subscribe),
		Token:        firstOf(flagToken, profile.Token),
		JTV:          firstOf(flagJTV, profile.JTV),
		SOCKS:        firstOf(flagSOCKS, profile.SOCKS),
		Live:         flagLive || profile.Live,
		Start:        firstNonZero(flagStart, profile.Start),
		Stop:         firstNonZero(flagStop, profile.Stop),
		Buffer:       firstNonZero(flagBuffer, profile.Buffer),
		Timeout:      firstNonZero(flagTimeout, profile.Timeout),
	}
	opts.Conn = append(opts.Conn, profile.Conn...)
	opts.Conn = append(opts.Conn, flagConn...)

	output := flagOutput
	if profile.Output != "" && !cmd.Flags().Changed("out") {
		output = profile.Output
	}
	level := flagLogLevel
	if profile.LogLevel != "" && !cmd.Flags().Changed("log-level") {
		level = profile.LogLevel
	}
	return url, opts, output, level, nil
}

// run connects, starts playback, and copies FLV bytes to the output.
func run(cmd *cobra.Command, args []string) error {
	url, opts, output, level, err := buildOptions(cmd, args)
	if err != nil {
		return err
	}

	logger := logging.New("rtmpget", level)
	opts.Logger = &logger

	sess, err := session.New(url, opts)
	if err != nil {
		return err
	}
	defer sess.Close()

	call, err := sess.Connect(nil)
	if err != nil {
		return err
	}
	if _, err := call.Result(0); err != nil {
		return err
	}
	logger.Info().Str("url", url).Msg("connected")

	stream, err := sess.CreateStream(0, false)
	if err != nil {
		return err
	}

	out := os.Stdout
	if output != "" && output != "-" {
		out, err = os.Create(output)
		if err != nil {
			return err
		}
		defer out.Close()
	}

	// Close the session on SIGINT/SIGTERM so the copy loop unblocks
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info().Msg("interrupted, closing")
		sess.Close()
	}()

	written, err := io.Copy(out, stream)
	if err != nil && sess.Connected() {
		return err
	}
	logger.Info().Int64("bytes", written).Msg("stream finished")
	return nil
}

// firstOf returns the first non-empty string.
func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstNonZero returns the first non-zero int.
func firstNonZero(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

// main runs the root command.
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
