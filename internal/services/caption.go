package services

import (
	"fmt"
	"html"
	"strings"

	"github.com/creatorhub/apply-api/internal/models"
)

// optionalFields declares the fixed order in which non-empty optional
// fields appear in the message.
var optionalFields = []struct {
	label string
	value func(*models.ApplicationForm) string
}{
	{"Age", func(f *models.ApplicationForm) string { return f.Age }},
	{"City / location", func(f *models.ApplicationForm) string { return f.City }},
	{"Instagram", func(f *models.ApplicationForm) string { return f.Instagram }},
	{"Telegram", func(f *models.ApplicationForm) string { return f.Telegram }},
	{"TikTok", func(f *models.ApplicationForm) string { return f.TikTok }},
	{"YouTube", func(f *models.ApplicationForm) string { return f.YouTube }},
	{"Subscribers", func(f *models.ApplicationForm) string { return f.Subscribers }},
	{"Content niche", func(f *models.ApplicationForm) string { return f.Niche }},
}

// BuildCaption renders a validated application as the HTML message
// delivered to the admin chat. Every user-supplied value is escaped
// before insertion so form input can't inject markup.
func BuildCaption(form *models.ApplicationForm) string {
	esc := func(s string) string {
		return html.EscapeString(strings.TrimSpace(s))
	}

	lines := []string{
		"<b>New application</b>",
		fmt.Sprintf("Full name: <b>%s</b>", esc(form.FirstName)),
		fmt.Sprintf("Phone: %s", esc(form.Phone)),
		fmt.Sprintf("Email: %s", esc(form.Email)),
	}

	for _, f := range optionalFields {
		if val := strings.TrimSpace(f.value(form)); val != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", f.label, esc(val)))
		}
	}

	lines = append(lines, "Why do you want to work with us?")
	lines = append(lines, esc(form.About))

	return strings.Join(lines, "\n")
}
