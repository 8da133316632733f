package api

import "encoding/json"

// Session identifies a logged-in user.
type Session struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResponse is the body of POST /api/auth/login.
type LoginResponse struct {
	OK          bool     `json:"ok"`
	User        *Session `json:"user,omitempty"`
	AccessToken string   `json:"access_token,omitempty"`
	ExpiresIn   int64    `json:"expires_in,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// UsageResponse is the body of GET /api/auth/usage/{username}.
// Limit and Remaining are -1 for unlimited roles.
type UsageResponse struct {
	OK         bool   `json:"ok"`
	UsageCount int    `json:"usage_count"`
	Limit      int    `json:"limit"`
	Remaining  int    `json:"remaining"`
	Role       string `json:"role"`
	Error      string `json:"error,omitempty"`
}

// BlockLayout is the structured result shape.
type BlockLayout struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Layout   string  `json:"layout"` // vertical_steps | timeline | grid
	Palette  string  `json:"palette"`
	Blocks   []Block `json:"blocks"`
}

// Block is one renderable unit of a BlockLayout. Block order is the
// backend's section order and must be preserved.
type Block struct {
	ID      string   `json:"id"`
	IconKey string   `json:"iconKey"`
	Heading string   `json:"heading"`
	Bullets []string `json:"bullets"`
}

// RenderedImage is the image result shape plus its debug metadata.
type RenderedImage struct {
	MIMEType              string
	Base64Data            string
	Blueprint             json.RawMessage
	CompiledPromptPreview string
}

// ImagePayload is the image object inside a generate response.
type ImagePayload struct {
	Data     string `json:"data"` // base64
	MIMEType string `json:"mime_type"`
}

// GenerateResponse carries every field either backend variant may
// return from POST /api/generate. Which result shape is present is
// decided by Result, not assumed up front.
type GenerateResponse struct {
	OK                    bool            `json:"ok"`
	Error                 string          `json:"error,omitempty"`
	Raw                   json.RawMessage `json:"raw,omitempty"`
	Infographic           *BlockLayout    `json:"infographic,omitempty"`
	Image                 *ImagePayload   `json:"image,omitempty"`
	Blueprint             json.RawMessage `json:"blueprint,omitempty"`
	CompiledPromptPreview string          `json:"compiled_prompt_preview,omitempty"`
}

// Result is the tagged union of the two generation result shapes.
// Exactly one of Layout/Image is non-nil on a successful generation.
type Result struct {
	Layout *BlockLayout
	Image  *RenderedImage
}

// Result branches on which discriminating fields the response carries.
// It returns nil when neither shape is present.
func (r *GenerateResponse) Result() *Result {
	switch {
	case r.Infographic != nil:
		return &Result{Layout: r.Infographic}
	case r.Image != nil:
		return &Result{Image: &RenderedImage{
			MIMEType:              r.Image.MIMEType,
			Base64Data:            r.Image.Data,
			Blueprint:             r.Blueprint,
			CompiledPromptPreview: r.CompiledPromptPreview,
		}}
	default:
		return nil
	}
}
