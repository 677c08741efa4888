package cli

import (
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RMahshie/srfresample/internal/config"
	"github.com/RMahshie/srfresample/pkg/models"
)

const version = "0.1.0"

// ErrUsage marks errors caused by missing or invalid arguments
var ErrUsage = errors.New("usage error")

func Execute() {
	cmd := newRootCmd(os.Stderr)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	input    string
	output   string
	logLevel string

	v   *viper.Viper
	cfg *config.Config
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "srfresample",
		Short: "Resample spectral response functions to a uniform sampling",
		Long: `Resample a spectral response function supplied as a delimited text file
(wavelength and normalised response columns) to a fixed sampling interval,
writing the result as a comma separated file.`,
		Example: `  srfresample -i landsat8_b2.txt -o b2_2.5nm.csv --ignore 1 --sample 2.5
  srfresample -i s3://srf/in/b3.txt -o s3://srf/out/b3.csv --sep , --rcol 2`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd, logOut)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResample(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); debug traces every output sample")

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "delimited text file (or s3://bucket/key) with wavelength (nm) and normalised response columns")
	f.StringVarP(&opts.output, "output", "o", "", "file (or s3://bucket/key) the resampled function is written to as comma separated values")
	f.StringP("sep", "s", "", "column separator of the input; default splits on runs of whitespace")
	f.Int("ignore", 0, "number of lines at the beginning of the file to ignore")
	f.Int("wvcol", 0, "wavelength column within the input file (starting at 0)")
	f.Int("rcol", 1, "response function column within the input file (starting at 0)")
	f.Float64("sample", 1, "sampling of the output file")
	f.String("method", string(models.NearNeighbour), "method of resampling: NearNeighbour or Linear")
	f.Int("workers", 1, "goroutines used for the nearest-neighbour search")

	cmd.AddCommand(serveCmd(opts))
	return cmd
}

var flagKeys = map[string]string{
	"sep":       config.KeySeparator,
	"ignore":    config.KeyIgnore,
	"wvcol":     config.KeyWvCol,
	"rcol":      config.KeyRCol,
	"sample":    config.KeySample,
	"method":    config.KeyMethod,
	"workers":   config.KeyWorkers,
	"log-level": config.KeyLogLevel,
}

// setup binds flags over environment and .env configuration and installs the logger
func (o *options) setup(cmd *cobra.Command, logOut io.Writer) error {
	o.v = config.New()
	for name, key := range flagKeys {
		if fl := cmd.Flags().Lookup(name); fl != nil {
			if err := o.v.BindPFlag(key, fl); err != nil {
				return err
			}
		}
	}

	cfg, err := config.Load(o.v)
	if err != nil {
		return errors.Join(ErrUsage, err)
	}
	o.cfg = cfg

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(cfg.Log.Level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: logOut})
	return nil
}
