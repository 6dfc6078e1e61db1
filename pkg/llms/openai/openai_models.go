package openai

import (
	"context"

	"github.com/Nephrolytics-ai/voxscribe/pkg/utils"
)

// ListModels returns the ids of the models visible to the API key.
func (t *Transcriber) ListModels(ctx context.Context) ([]string, error) {
	page, err := t.client.apiClient.Models.List(ctx)
	if err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	ids := make([]string, 0, len(page.Data))
	for _, item := range page.Data {
		ids = append(ids, item.ID)
	}
	return ids, nil
}
