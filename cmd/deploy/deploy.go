package deploy

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jwilges/drover/cmd/util"
	"github.com/jwilges/drover/pkg/config"
	deployer "github.com/jwilges/drover/pkg/deploy"
	"github.com/jwilges/drover/pkg/errors"
	"github.com/jwilges/drover/pkg/fswatch"
	"github.com/jwilges/drover/pkg/packaging"
)

// New creates a new `deploy` command.
func New() *cobra.Command {
	var settingsFile string
	var installPath string
	var watch bool

	cmd := &cobra.Command{
		Use:   "deploy STAGE",
		Short: "Synchronize a built package with its Lambda function",
		Long: "Partitions the install path into function and requirements files, " +
			"packages each partition into an archive, and uploads only the " +
			"archives whose content digest differs from what was last deployed. " +
			"Requirements are published as a separate layer version so that " +
			"function code updates stay small.",
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			if err := run(args[0], settingsFile, installPath, watch); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&settingsFile, "settings-file", "drover.yaml",
		"Settings file name")
	cmd.Flags().StringVar(&installPath, "install-path", ".",
		"Package install path (e.g. from `pip install -t`)")
	cmd.Flags().BoolVar(&watch, "watch", false,
		"Stay running and redeploy whenever the install path changes")
	return cmd
}

func run(stageName, settingsFile, installPath string, watch bool) error {
	settings, err := config.ParseSettings(settingsFile)
	if err != nil {
		return errors.WithContext(err, "parse settings")
	}

	stage, err := settings.Stage(stageName)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := deployer.NewAWSClient(ctx, stage.RegionName)
	if err != nil {
		return errors.WithContext(err, "create AWS client")
	}

	synchronizer := deployer.NewSynchronizer(stageName, stage, client)
	if err := deployOnce(ctx, synchronizer, installPath); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	changes, err := fswatch.Watch(installPath, stage.FunctionExtraPaths)
	if err != nil {
		return errors.WithContext(err, "watch install path")
	}

	log.Info("Watching for changes. Press Ctrl-C to stop.")
	for range changes {
		if err := deployOnce(ctx, synchronizer, installPath); err != nil {
			// In watch mode a failed deploy isn't fatal; the next change
			// gets a fresh attempt.
			log.Error(errors.GetPrintableMessage(err))
		}
		log.Info("Watching for changes. Press Ctrl-C to stop.")
	}
	return nil
}

func deployOnce(ctx context.Context, synchronizer *deployer.Synchronizer, installPath string) error {
	progress := util.NewProgressPrinter(os.Stdout, "Deploying")
	go progress.Run()
	summary, err := synchronizer.Run(ctx, installPath)
	progress.Stop()
	if err != nil {
		return err
	}

	printSummary(summary)
	return nil
}

func printSummary(summary *deployer.Summary) {
	if summary.UploadedRequirements {
		fmt.Printf("Requirements layer: %s (%s)\n", summary.RequirementsLayerARN,
			packaging.FormatFileSize(float64(summary.RequirementsLayerCodeSize)))
	}
	if summary.UploadedFunction {
		fmt.Printf("Function: %s (%s)\n", summary.FunctionARN,
			packaging.FormatFileSize(float64(summary.FunctionCodeSize)))
	}
	if !summary.UploadedRequirements && !summary.UploadedFunction {
		fmt.Println("Everything is up to date.")
	}
}
