package ocr

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/vision/v1"
)

// VisionClient extracts text from ID photos through the Cloud Vision API.
type VisionClient struct {
	service *vision.Service
}

func NewVisionClient(ctx context.Context, credentialsPath string) (*VisionClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	service, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision service: %v", err)
	}

	return &VisionClient{service: service}, nil
}

func (c *VisionClient) ExtractText(ctx context.Context, image []byte) (string, error) {
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image: &vision.Image{
					Content: base64.StdEncoding.EncodeToString(image),
				},
				Features: []*vision.Feature{
					{Type: "TEXT_DETECTION"},
				},
			},
		},
	}

	resp, err := c.service.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", err
	}

	if len(resp.Responses) == 0 {
		return "", fmt.Errorf("vision api returned no responses")
	}

	annotated := resp.Responses[0]
	if annotated.Error != nil {
		return "", fmt.Errorf("vision api error: %s", annotated.Error.Message)
	}

	if annotated.FullTextAnnotation == nil {
		return "", nil
	}

	return annotated.FullTextAnnotation.Text, nil
}
