package model

import "time"

// Clip is a saved text excerpt plus optional page metadata, owned by exactly
// one user. The owner is set at creation and never changes. JSON field names
// match what the browser extension already expects.
type Clip struct {
	ID              string    `json:"id"`
	UserID          string    `json:"-"`
	Text            string    `json:"text"`
	SourceURL       string    `json:"sourceUrl,omitempty"`
	PageTitle       string    `json:"pageTitle,omitempty"`
	PageDescription string    `json:"pageDescription,omitempty"`
	PageImage       string    `json:"pageImage,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CreateClipRequest represents a clip save request from the extension. The
// short field names (url, title) are the extension's wire format.
type CreateClipRequest struct {
	Text        string `json:"text"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// UpdateClipRequest represents a clip edit. Only the text is mutable.
type UpdateClipRequest struct {
	Text string `json:"text"`
}

// ClipActionResponse is the success envelope for clip mutations.
type ClipActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
