package deepseek

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

type chatCompletion struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Text string `json:"text"`
}

// Content extracts the assistant text from a chat completion response body.
// Different deployments shape the body slightly differently, so it falls
// back from the first choice's message content, to a top-level text field,
// to a plain rendering of the whole body.
func Content(resp map[string]any) string {
	if resp == nil {
		return ""
	}

	var completion chatCompletion
	cfg := &mapstructure.DecoderConfig{
		Result:  &completion,
		TagName: "json",
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err == nil && decoder.Decode(resp) == nil {
		if len(completion.Choices) > 0 && completion.Choices[0].Message.Content != "" {
			return completion.Choices[0].Message.Content
		}
		if completion.Text != "" {
			return completion.Text
		}
	}

	return fmt.Sprintf("%v", resp)
}
