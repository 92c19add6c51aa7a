package validation

import (
	"errors"
	"io"
	"mime"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/creatorhub/apply-api/internal/models"
	"github.com/go-playground/validator/v10"
)

// MaxPhotoSize is the sendPhoto upload limit.
const MaxPhotoSize = 10 * 1024 * 1024

var phoneRe = regexp.MustCompile(`^[0-9+()\s\-]{7,20}$`)

var allowedMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// Validator checks application forms against the submission rules.
// All violations are collected; it never short-circuits and has no
// side effects on its inputs.
type Validator struct {
	validate *validator.Validate
}

// New creates a form validator with the custom phone and email rules
// registered.
func New() *Validator {
	v := validator.New()

	// Report violations under the JSON field names the front-end uses
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	// Deliberately loose: the form only promises an address shape
	_ = v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return strings.Contains(s, "@") && strings.Contains(s, ".")
	})

	return &Validator{validate: v}
}

// Check validates the (already normalized) form and the optional
// photo. The result maps field names to human-readable messages; an
// empty map means the submission is valid.
func (v *Validator) Check(form *models.ApplicationForm, photo *models.Attachment) map[string]string {
	errs := make(map[string]string)

	if err := v.validate.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				if _, seen := errs[fe.Field()]; !seen {
					errs[fe.Field()] = fieldMessage(fe.Field())
				}
			}
		}
	}

	if msg := checkPhoto(photo); msg != "" {
		errs["photo"] = msg
	}

	return errs
}

func fieldMessage(field string) string {
	switch field {
	case "firstName":
		return "Please enter your full name (at least 2 characters)."
	case "phone":
		return "Please enter a valid phone number."
	case "email":
		return "Please enter a valid email address."
	case "about":
		return "Tell us in 1-2 sentences (20-600 characters)."
	}
	return field + " is invalid"
}

// checkPhoto verifies the media type and size of an uploaded image.
// The declared content type wins; otherwise the filename extension is
// checked and its inferred type has to land in the allow-list too.
// Size is determined without consuming the stream.
func checkPhoto(photo *models.Attachment) string {
	if photo == nil || photo.Filename == "" {
		return ""
	}

	mimeType := normalizeMediaType(photo.ContentType)
	if !allowedMIMEs[mimeType] {
		ext := strings.ToLower(filepath.Ext(photo.Filename))
		if !allowedExts[ext] {
			return "Allowed formats: JPG/PNG/WEBP/GIF."
		}
		if inferred := normalizeMediaType(mime.TypeByExtension(ext)); inferred != "" && !allowedMIMEs[inferred] {
			return "Allowed formats: JPG/PNG/WEBP/GIF."
		}
	}

	size := photo.Size
	if size <= 0 {
		size = seekableSize(photo.Reader)
	}
	if size > MaxPhotoSize {
		return "Image must not exceed 10 MB."
	}

	return ""
}

// seekableSize measures a stream by seeking to its end and restoring
// the position. Returns 0 when the stream doesn't support seeking.
func seekableSize(r io.Reader) int64 {
	seeker, ok := r.(io.Seeker)
	if !ok {
		return 0
	}
	cur, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0
	}
	end, err := seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return 0
	}
	_, _ = seeker.Seek(cur, io.SeekStart)
	return end
}

func normalizeMediaType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}
