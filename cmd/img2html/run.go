package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gardar/img2html/internal/cli"
	"github.com/gardar/img2html/internal/config"
	"github.com/gardar/img2html/internal/logging"
	"github.com/gardar/img2html/internal/pipeline"
	"github.com/gardar/img2html/pkg/segment"
	"github.com/gardar/img2html/pkg/textextract"
	"github.com/gardar/img2html/pkg/textextract/gdocai"
	"github.com/gardar/img2html/pkg/textextract/tesseract"
)

// runConvert fails only on unusable settings. Once the pipeline runs, stage
// failures are logged and the command exits 0.
func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := flags.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	detector, err := cli.Detector(cfg.Segmenter)
	if err != nil {
		return err
	}

	imagePath := cli.ImagePath(args, cmd.InOrStdin(), cmd.OutOrStdout())

	p := pipeline.New(cfg,
		textextract.New(newEngine(cfg), logger),
		segment.New(detector, logger),
		logger,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res := p.Run(ctx, imagePath)
	logger.WithField("image", imagePath).Infof("Finished: %s", res)
	return nil
}

func newEngine(cfg config.Config) textextract.Engine {
	if cfg.Engine == config.EngineDocAI {
		return gdocai.New(gdocai.Config{
			ProjectID:   cfg.DocAI.ProjectID,
			Location:    cfg.DocAI.Location,
			ProcessorID: cfg.DocAI.ProcessorID,
		})
	}
	return tesseract.New(cfg.Languages...)
}
