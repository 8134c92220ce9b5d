package cmd

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/mcpscan/mcpscan/internal/storage"
	"github.com/mcpscan/mcpscan/pkg/shared"
	"github.com/mcpscan/mcpscan/pkg/shared/errors"
	"github.com/mcpscan/mcpscan/pkg/shared/files"
	"github.com/mcpscan/mcpscan/pkg/shared/logger"
)

// UploadOptions holds the arguments for the upload command.
type UploadOptions struct {
	InputFile string
	Bucket    string
	Region    string
	Key       string
}

var uploadOptions UploadOptions

var uploadCmd = &cobra.Command{
	Use:          "upload --input/-i PATH --bucket BUCKET [--region REGION] [--key KEY]",
	SilenceUsage: true,
	Short:        "Upload a report file to an S3 bucket",
	Example: `  # Upload a JSON report
  mcpscan upload -i report.json --bucket my-reports-bucket --region eu-west-2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !shared.HasFlags(cmd.Flags()) {
			return cmd.Help()
		}

		log := logger.NewLogger(AppConfig, "core-upload")

		if uploadOptions.InputFile == "" || uploadOptions.Bucket == "" {
			return errors.NewCommandErrorf(1, "the 'input' and 'bucket' flags must be specified")
		}
		if err := files.ValidatePath(uploadOptions.InputFile); err != nil {
			return errors.NewCommandError(fmt.Errorf("invalid report file: %w", err), 1)
		}

		key := uploadOptions.Key
		if key == "" {
			key = path.Join("mcpscan", path.Base(uploadOptions.InputFile))
		}

		uploader := storage.NewS3Uploader(uploadOptions.Bucket, uploadOptions.Region, log)
		location, err := uploader.Upload(uploadOptions.InputFile, key)
		if err != nil {
			log.Error("upload failed", "error", err)
			return errors.NewCommandError(err, 2)
		}

		fmt.Println("Report uploaded to", location)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVarP(&uploadOptions.InputFile, "input", "i", "", "report filepath")
	uploadCmd.Flags().StringVar(&uploadOptions.Bucket, "bucket", "", "S3 bucket name")
	uploadCmd.Flags().StringVar(&uploadOptions.Region, "region", "eu-west-2", "AWS region")
	uploadCmd.Flags().StringVar(&uploadOptions.Key, "key", "", "object key (default mcpscan/<filename>)")
}
