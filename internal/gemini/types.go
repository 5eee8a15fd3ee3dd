package gemini

import "context"

// Handle identifies a payload held by the remote file service.
type Handle struct {
	Name     string // resource name, e.g. "files/abc123"
	URI      string // download URI referenced from generate requests
	MimeType string
}

// Engine is the capability surface the batch translator depends on.
// A live implementation talks to the Gemini API; tests substitute a fake.
type Engine interface {
	// Upload pushes a text payload to the remote file service.
	Upload(ctx context.Context, displayName string, payload []byte) (Handle, error)
	// Generate runs one generation over the prompt plus the uploaded payload
	// and returns the raw response text.
	Generate(ctx context.Context, prompt string, handle Handle) (string, error)
	// Release deletes the remote-held payload. Callers release handles
	// whether or not Generate succeeded to avoid leaking remote quota.
	Release(ctx context.Context, handle Handle) error
}

// generateRequest mirrors the models.generateContent request body.
type generateRequest struct {
	Contents         []content       `json:"contents"`
	GenerationConfig *generateConfig `json:"generationConfig,omitempty"`
	SafetySettings   []safetySetting `json:"safetySettings,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text     string    `json:"text,omitempty"`
	FileData *fileData `json:"file_data,omitempty"`
}

type fileData struct {
	MimeType string `json:"mime_type"`
	FileURI  string `json:"file_uri"`
}

type generateConfig struct {
	Temperature      float64         `json:"temperature"`
	TopP             float64         `json:"topP,omitempty"`
	TopK             int             `json:"topK,omitempty"`
	MaxOutputTokens  int             `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ThinkingConfig   *thinkingConfig `json:"thinkingConfig,omitempty"`
}

type thinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// generateResponse mirrors the models.generateContent response body.
type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// uploadResponse mirrors the media.upload response body.
type uploadResponse struct {
	File struct {
		Name     string `json:"name"`
		URI      string `json:"uri"`
		MimeType string `json:"mimeType"`
	} `json:"file"`
}
