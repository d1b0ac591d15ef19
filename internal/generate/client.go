// Package generate calls the hosted image-generation model: instruction text
// plus an encoded source image in, an edited image out.
package generate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultInstruction is used when the user submits an empty prompt.
const DefaultInstruction = "Add more detail to this sketch while keeping its composition and style."

const (
	// DefaultEndpoint is the hosted model API base URL.
	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	// DefaultModel is the image-capable model used for edits.
	DefaultModel = "gemini-2.0-flash-preview-image-generation"
)

// ErrNoImage reports a well-formed model response that carried no image data.
// Callers treat this as a failure, not a silent no-op.
var ErrNoImage = errors.New("model response contained no image data")

// APIError is a structured error returned by the remote API, covering quota,
// content-policy, and request failures.
type APIError struct {
	Code    int
	Status  string
	Message string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("model API error %d (%s): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("model API error %d: %s", e.Code, e.Message)
}

// Request is one image-edit invocation.
type Request struct {
	// Instruction is the natural-language edit prompt. Empty falls back to
	// DefaultInstruction.
	Instruction string
	// Image holds the encoded source raster, normally the exported canvas.
	Image []byte
	// MimeType of Image; defaults to image/png.
	MimeType string
}

// Result is a successful generation.
type Result struct {
	Data       []byte
	MimeType   string
	Commentary string
}

// Options configures a Client.
type Options struct {
	Endpoint   string
	Model      string
	APIKey     string
	HTTPClient *http.Client
}

// Client talks to the remote image-generation collaborator. It enforces no
// timeout of its own; deadlines belong to the caller's context or the remote
// end.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	hc       *http.Client
}

// NewClient validates options and returns a client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("model API key is not configured")
	}
	endpoint := strings.TrimRight(opts.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{endpoint: endpoint, model: model, apiKey: opts.APIKey, hc: hc}, nil
}

type wirePart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *wireInlineData `json:"inlineData,omitempty"`
}

type wireInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type wireRequest struct {
	Contents         []wireContent `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"responseModalities"`
	} `json:"generationConfig"`
}

type wireResponse struct {
	Candidates []struct {
		Content wireContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Edit sends the instruction and source image to the model and returns the
// generated image. The source bytes were captured by the caller before the
// call; surface edits made while the request is in flight do not affect it.
func (c *Client) Edit(ctx context.Context, req Request) (*Result, error) {
	if len(req.Image) == 0 {
		return nil, errors.New("source image is empty")
	}
	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		instruction = DefaultInstruction
	}
	mime := req.MimeType
	if mime == "" {
		mime = "image/png"
	}

	body := wireRequest{
		Contents: []wireContent{{
			Role: "user",
			Parts: []wirePart{
				{Text: instruction},
				{InlineData: &wireInlineData{
					MimeType: mime,
					Data:     base64.StdEncoding.EncodeToString(req.Image),
				}},
			},
		}},
	}
	body.GenerationConfig.ResponseModalities = []string{"TEXT", "IMAGE"}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.endpoint, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call model API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read model response: %w", err)
	}

	var decoded wireResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	if decoded.Error != nil {
		return nil, &APIError{Code: decoded.Error.Code, Status: decoded.Error.Status, Message: decoded.Error.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	res := &Result{}
	for _, cand := range decoded.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				if res.Commentary != "" {
					res.Commentary += "\n"
				}
				res.Commentary += part.Text
			}
			if res.Data == nil && part.InlineData != nil && IsSupportedResult(part.InlineData.MimeType) {
				data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					return nil, fmt.Errorf("decode image part: %w", err)
				}
				res.Data = data
				res.MimeType = part.InlineData.MimeType
			}
		}
	}
	if res.Data == nil {
		return nil, ErrNoImage
	}
	return res, nil
}

// IsSupportedResult reports whether the model returned part is a usable
// raster image.
func IsSupportedResult(mime string) bool {
	return strings.HasPrefix(strings.ToLower(mime), "image/")
}
