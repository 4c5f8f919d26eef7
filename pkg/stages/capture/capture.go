// Package capture implements the batch capture stage.
package capture

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/user/socialimages/pkg/pipeline"
	"github.com/user/socialimages/pkg/ports"
)

// Stage writes one preview image per record from a loaded render target.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new capture stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("capture"),
	}
}

// Execute captures the records in order. Each record's title is applied to
// the target before its screenshot is taken. The first failure stops the
// batch; the returned result then holds the artifacts already written.
func (s *Stage) Execute(ctx context.Context, input pipeline.CaptureInput) (pipeline.CaptureResult, error) {
	result := pipeline.CaptureResult{
		Artifacts: make([]pipeline.Artifact, 0, len(input.Records)),
	}

	if len(input.Records) == 0 {
		s.logger.Debug("No records to capture")
		return result, nil
	}

	s.logger.Debug("Capturing %d previews into %s", len(input.Records), input.PreviewDir)
	start := time.Now()

	for i, record := range input.Records {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("record %d (%s): %w", i, record.ImgName, err)
		}

		found, err := input.Target.Mutate(ctx, record)
		if err != nil {
			return result, fmt.Errorf("record %d (%s): %w", i, record.ImgName, err)
		}
		if !found {
			result.MissingHeading++
		}

		s.logger.Info("Image: %s", record.FileName())
		path := filepath.Join(input.PreviewDir, record.FileName())
		data, err := input.Target.Capture(ctx, path)
		if err != nil {
			return result, fmt.Errorf("record %d (%s): %w", i, record.ImgName, err)
		}

		artifact := pipeline.Artifact{
			Name:  record.ImgName,
			Path:  path,
			Bytes: len(data),
		}
		if input.KeepImages {
			artifact.Image = data
		}
		result.Artifacts = append(result.Artifacts, artifact)

		s.logger.Debug("Captured %s (%d bytes)", path, len(data))
	}

	s.logger.Debug("Captured %d previews in %d ms", len(result.Artifacts), time.Since(start).Milliseconds())
	return result, nil
}
