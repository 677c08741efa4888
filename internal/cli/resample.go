package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RMahshie/srfresample/internal/config"
	"github.com/RMahshie/srfresample/internal/processing"
	"github.com/RMahshie/srfresample/internal/spectral"
	"github.com/RMahshie/srfresample/internal/storage"
)

func runResample(cmd *cobra.Command, o *options) error {
	if o.input == "" {
		return fmt.Errorf("%w: An input file was not specified.", ErrUsage)
	}
	if o.output == "" {
		return fmt.Errorf("%w: An output file was not specified.", ErrUsage)
	}

	in, err := storage.ParseLocation(o.input)
	if err != nil {
		return errors.Join(ErrUsage, err)
	}
	out, err := storage.ParseLocation(o.output)
	if err != nil {
		return errors.Join(ErrUsage, err)
	}

	rc := o.cfg.Resample
	job := processing.Job{
		Input:  in,
		Output: out,
		Parse: spectral.ParseOptions{
			Separator:        rc.Separator,
			SkipLines:        rc.Ignore,
			WavelengthColumn: rc.WavelengthColumn,
			ResponseColumn:   rc.ResponseColumn,
		},
		Step:    rc.Sample,
		Method:  rc.Method,
		Workers: rc.Workers,
	}

	var s3Service storage.S3Service
	if in.IsObject() || out.IsObject() {
		bucket := in.Bucket
		if !in.IsObject() {
			bucket = out.Bucket
		}
		s3Service, err = storage.NewS3Service(cmd.Context(), s3Config(o.cfg, bucket))
		if err != nil {
			return err
		}
	}

	_, err = processing.NewResampler(s3Service).Execute(cmd.Context(), job)
	return err
}

func s3Config(cfg *config.Config, fallbackBucket string) storage.S3Config {
	bucket := cfg.AWS.S3Bucket
	if bucket == "" {
		bucket = fallbackBucket
	}
	return storage.S3Config{
		Bucket:    bucket,
		Endpoint:  cfg.AWS.S3Endpoint,
		Region:    cfg.AWS.Region,
		AccessKey: cfg.AWS.AccessKeyID,
		SecretKey: cfg.AWS.SecretAccessKey,
	}
}
