package models

import (
	"io"
	"strings"
)

// ApplicationForm is a single creator application as submitted by the
// web form. The front-end posts either multipart form fields or JSON
// with the same keys.
type ApplicationForm struct {
	FirstName string `json:"firstName" form:"firstName" validate:"required,min=2"`
	Phone     string `json:"phone" form:"phone" validate:"required,phone"`
	Email     string `json:"email" form:"email" validate:"required,simpleemail"`
	About     string `json:"about" form:"about" validate:"required,min=20,max=600"`

	Age         string `json:"age" form:"age"`
	City        string `json:"city" form:"city"`
	Instagram   string `json:"instagram" form:"instagram"`
	Telegram    string `json:"telegram" form:"telegram"`
	TikTok      string `json:"tiktok" form:"tiktok"`
	YouTube     string `json:"youtube" form:"youtube"`
	Subscribers string `json:"subs" form:"subs"`
	Niche       string `json:"niche" form:"niche"`

	// FunnelChatID is the opaque correlation token the funnel bot put
	// into the hidden "c" field; forwarded as-is in the webhook payload.
	FunnelChatID string `json:"c" form:"c"`
}

// Normalize trims surrounding whitespace from every field. Validation
// and formatting both operate on the trimmed values.
func (f *ApplicationForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Email = strings.TrimSpace(f.Email)
	f.About = strings.TrimSpace(f.About)
	f.Age = strings.TrimSpace(f.Age)
	f.City = strings.TrimSpace(f.City)
	f.Instagram = strings.TrimSpace(f.Instagram)
	f.Telegram = strings.TrimSpace(f.Telegram)
	f.TikTok = strings.TrimSpace(f.TikTok)
	f.YouTube = strings.TrimSpace(f.YouTube)
	f.Subscribers = strings.TrimSpace(f.Subscribers)
	f.Niche = strings.TrimSpace(f.Niche)
	f.FunnelChatID = strings.TrimSpace(f.FunnelChatID)
}

// Attachment is an optional image uploaded with the form. The stream
// is forwarded to Telegram without buffering the whole file.
type Attachment struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64 // declared size in bytes; 0 when unknown
}

// SubmitResponse is the JSON body returned to the form submitter.
type SubmitResponse struct {
	OK     bool              `json:"ok"`
	Errors map[string]string `json:"errors,omitempty"`
	Error  string            `json:"error,omitempty"`
}
