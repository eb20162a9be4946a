package gdocai

import (
	"context"
	"fmt"
	"os"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// Endpoint is the regional API endpoint serving the processor
func (c Config) Endpoint() string {
	return c.Location + "-documentai.googleapis.com:443"
}

// ProcessorName is the processor's full resource name
func (c Config) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

func (c Config) clientOptions() []option.ClientOption {
	opts := []option.ClientOption{option.WithEndpoint(c.Endpoint())}
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	return opts
}

// processRaw sends content inline to the processor and returns the
// Document of the response
func processRaw(ctx context.Context, content []byte, mimeType string, cfg *Config) (*documentaipb.Document, error) {
	client, err := documentai.NewDocumentProcessorClient(ctx, cfg.clientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	defer client.Close()

	resp, err := client.ProcessDocument(ctx, &documentaipb.ProcessRequest{
		Name: cfg.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{Content: content, MimeType: mimeType},
		},
		SkipHumanReview: true,
	})
	if err != nil {
		return nil, fmt.Errorf("processor %s: %w", cfg.ProcessorID, err)
	}
	if resp.GetDocument() == nil {
		return nil, fmt.Errorf("processor %s returned no document", cfg.ProcessorID)
	}
	return resp.GetDocument(), nil
}
