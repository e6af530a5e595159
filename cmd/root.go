package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/syslog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/BitPonyLLC/swatchcard/buildinfo"
	"github.com/BitPonyLLC/swatchcard/internal/card"
	"github.com/BitPonyLLC/swatchcard/internal/imageio"
	"github.com/BitPonyLLC/swatchcard/internal/prompt"
	"github.com/BitPonyLLC/swatchcard/internal/viewer"
	"github.com/BitPonyLLC/swatchcard/pkg/canvas"
	"github.com/BitPonyLLC/swatchcard/pkg/palette"
	"github.com/BitPonyLLC/swatchcard/pkg/termwrap"
	"github.com/BitPonyLLC/swatchcard/pkg/util"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute is the primary entrypoint for this CLI
func Execute() int {
	defer atExit()
	defer util.LogRecover()

	tw := termwrap.NewTermWrap(80, 24)
	rootCmd.Long = tw.Paragraph(buildinfo.App.Description) + "\n\n" +
		tw.IndentedParagraph("  ", buildinfo.App.FullDescription, 40)

	rootCmd.SetOut(os.Stdout) // default is stderr

	var cancelCtx context.Context
	cancelCtx, cancelFunc = context.WithCancel(context.Background())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-stop
		log.Info().Str("signal", sig.String()).Msg("stopping")
		cancelFunc()
	}()

	err := rootCmd.ExecuteContext(cancelCtx)
	if err != nil {
		log.Err(err).Msg("command failed")
		cancelFunc()
		return failureCode
	}

	return 0
}

//--------------------------------------------------------------------------------
// private

const logDstLabel = "log-dst"
const minimalTimeFormat = "15:04:05.000"

// exit codes
const (
	codeConfig  = 2
	codeLoad    = 10
	codeAnalyze = 11
	codeSave    = 12
)

var failureCode = 1
var initialized = false

var configPath = "$HOME/." + buildinfo.App.Name
var dumpConfig = false
var logF *os.File

var cancelFunc func()

var rootCmd = &cobra.Command{
	Use:               buildinfo.App.Name + " [image]",
	Short:             buildinfo.App.Description,
	Version:           buildinfo.All,
	SilenceUsage:      true,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: atStart,
	RunE:              runCard,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", configPath, "the configuration file to load")
	rootCmd.Flags().BoolVar(&dumpConfig, "dump-config", dumpConfig, "dump configuration to stdout")

	rootCmd.PersistentFlags().String("log-level", "info", "set logging level: debug, info, warn, error")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String(logDstLabel, "stderr", "write logs to syslog, stdout, stderr, or provide a pathname")
	viper.BindPFlag(logDstLabel, rootCmd.PersistentFlags().Lookup(logDstLabel))

	rootCmd.PersistentFlags().Int("nice", 0, "the priority level of the process (0 leaves it unchanged)")
	viper.BindPFlag("nice", rootCmd.PersistentFlags().Lookup("nice"))

	rootCmd.PersistentFlags().IntP("swatches", "k", palette.DefaultCount, "the number of dominant colors to find")
	viper.BindPFlag("swatches", rootCmd.PersistentFlags().Lookup("swatches"))

	rootCmd.PersistentFlags().String("method", palette.MethodKMeans.String(), "clustering method: kmeans, prominent, weighted")
	viper.BindPFlag("method", rootCmd.PersistentFlags().Lookup("method"))

	rootCmd.PersistentFlags().Uint("analysis-size", palette.DefaultAnalysisSize, "largest width or height analyzed (0 uses the full image)")
	viper.BindPFlag("analysis-size", rootCmd.PersistentFlags().Lookup("analysis-size"))

	rootCmd.PersistentFlags().Int("restarts", palette.DefaultRestarts, "number of k-means runs from random starting points")
	viper.BindPFlag("restarts", rootCmd.PersistentFlags().Lookup("restarts"))

	rootCmd.Flags().StringP("output", "o", card.DefaultOutput, "pathname of the card to write")
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))

	rootCmd.Flags().Int("quality", imageio.DefaultQuality, "JPEG quality of the card")
	viper.BindPFlag("quality", rootCmd.Flags().Lookup("quality"))

	rootCmd.Flags().String("font", canvas.DefaultFontName, "TrueType font for the camera settings")
	viper.BindPFlag("font", rootCmd.Flags().Lookup("font"))

	rootCmd.Flags().String("viewer", viewer.DefaultCommand(), "command used to show the card ({} is replaced with its path)")
	viper.BindPFlag("viewer", rootCmd.Flags().Lookup("viewer"))

	rootCmd.Flags().Bool("show", true, "open the card in the viewer once written")
	viper.BindPFlag("show", rootCmd.Flags().Lookup("show"))

	defaults := canvas.DefaultRatios()
	viper.SetDefault("layout.margin", defaults.Margin)
	viper.SetDefault("layout.gap", defaults.Gap)
	viper.SetDefault("layout.swatch", defaults.Swatch)
	viper.SetDefault("layout.meta", defaults.Meta)
	viper.SetDefault("layout.font", defaults.Font)
	viper.SetDefault("layout.font-min", defaults.FontMin)
	viper.SetDefault("layout.line-spacing", defaults.LineSpacing)
}

func runCard(cmd *cobra.Command, args []string) error {
	if dumpConfig {
		return dump("config", cmd.OutOrStdout())
	}

	count := viper.GetInt("swatches")

	var source string
	if len(args) > 0 {
		source = args[0]
	} else {
		p := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())

		var err error
		source, err = p.Path()
		if err != nil {
			return fail(codeLoad, "unable to read image path: %w", err)
		}

		if !cmd.Flags().Changed("swatches") {
			count = p.Count(palette.DefaultCount)
		}
	}

	opts, err := cardOptions(count)
	if err != nil {
		return fail(codeConfig, err)
	}

	res, err := card.Build(source, opts, &log.Logger)
	if err != nil {
		return fail(stageCode(err), err)
	}

	cmd.Printf("Saved %s\n", res.Output)

	if viper.GetBool("show") {
		err = viewer.Show(cmd.Context(), viper.GetString("viewer"), res.Output, &log.Logger)
		if err != nil {
			log.Warn().Err(err).Str("path", res.Output).Msg("unable to show card")
		}
	}

	return nil
}

// cardOptions gathers the pipeline configuration from viper. An invalid swatch
// count falls back to the default rather than failing.
func cardOptions(count int) (card.Options, error) {
	opts := card.DefaultOptions()

	if count < 1 {
		log.Warn().Int("swatches", count).Int("default", palette.DefaultCount).Msg("invalid swatch count, using default")
		count = palette.DefaultCount
	}

	popts, err := paletteOptions(count)
	if err != nil {
		return opts, err
	}
	opts.Palette = popts

	err = viper.UnmarshalKey("layout", &opts.Ratios)
	if err != nil {
		return opts, fmt.Errorf("unable to read layout settings: %w", err)
	}

	opts.Font = viper.GetString("font")
	opts.Output = viper.GetString("output")
	opts.Quality = viper.GetInt("quality")

	return opts, nil
}

func paletteOptions(count int) (palette.Options, error) {
	opts := palette.DefaultOptions()

	method, err := palette.ParseMethod(viper.GetString("method"))
	if err != nil {
		return opts, err
	}

	opts.Count = count
	opts.Method = method
	opts.AnalysisSize = viper.GetUint("analysis-size")
	opts.Restarts = viper.GetInt("restarts")

	return opts, nil
}

func stageCode(err error) int {
	stage, _ := card.StageOf(err)
	switch stage {
	case card.StageLoad:
		return codeLoad
	case card.StageAnalyze:
		return codeAnalyze
	default:
		return codeSave
	}
}

func atStart(cmd *cobra.Command, _ []string) error {
	if initialized {
		return nil
	}

	initialized = true

	viper.SetConfigName(filepath.Base(configPath))
	viper.SetConfigType("toml")
	viper.AddConfigPath(filepath.Dir(configPath))

	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fail(codeConfig, "unable to read config file: %w", err)
		}
	}

	err = setupLogging(cmd, "")
	if err != nil {
		return err
	}

	log.Debug().Str("file", viper.ConfigFileUsed()).Msg("config")

	nice := viper.GetInt("nice")
	if nice != 0 {
		err = util.BeNice(nice)
		if err != nil {
			log.Warn().Err(err).Msg("continuing at normal priority")
		}
	}

	return nil
}

func atExit() {
	if logF != nil {
		logF.Close()
	}
}

func setupLogging(cmd *cobra.Command, logDst string) error {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	var logWriter io.Writer

	withTime := true

	if logDst == "" {
		logDst = viper.GetString(logDstLabel)
	}

	switch logDst {
	case "syslog":
		syslogger, err := syslog.New(syslog.LOG_INFO, buildinfo.App.Name)
		if err != nil {
			newErr := setupLogging(cmd, "stderr")
			if newErr != nil {
				return newErr
			}

			log.Warn().Err(err).Msg("unable to use syslog: switched to stderr")
			return nil
		}

		withTime = false
		logWriter = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.NoColor = true
			w.PartsExclude = []string{zerolog.TimestampFieldName}
			w.Out = zerolog.SyslogLevelWriter(syslogger)
		})
	case "stdout":
		zerolog.TimeFieldFormat = minimalTimeFormat
		logWriter = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.TimeFormat = minimalTimeFormat
			w.Out = cmd.OutOrStdout()
		})
	case "stderr":
		zerolog.TimeFieldFormat = minimalTimeFormat
		logWriter = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.TimeFormat = minimalTimeFormat
			w.Out = cmd.ErrOrStderr()
		})
	default:
		var err error
		logF, err = os.OpenFile(logDst, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return fail(codeConfig, "unable to open %s: %w", logDst, err)
		}

		logWriter = logF
	}

	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return fail(codeConfig, err)
	}

	zerolog.SetGlobalLevel(level)

	if withTime {
		log.Logger = zerolog.New(logWriter).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(logWriter)
	}

	return nil
}

func fail(code int, formatOrErr interface{}, args ...interface{}) error {
	failureCode = code
	if len(args) == 0 {
		err, ok := formatOrErr.(error)
		if ok {
			return err
		}
		return errors.New(formatOrErr.(string))
	}
	return fmt.Errorf(formatOrErr.(string), args...)
}
