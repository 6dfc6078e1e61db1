package mistral

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Nephrolytics-ai/voxscribe/pkg/utils"
)

type modelList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListModels returns the ids of every model visible to the API key.
func (t *Transcriber) ListModels(ctx context.Context) ([]string, error) {
	req, err := t.client.newRequest(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var list modelList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, utils.WrapIfNotNil(err)
	}

	ids := make([]string, 0, len(list.Data))
	for _, item := range list.Data {
		ids = append(ids, item.ID)
	}
	return ids, nil
}
