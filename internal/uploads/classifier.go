package uploads

import (
	"path/filepath"
	"strings"
)

// IncomingFile is one uploaded file, fully buffered, for the duration of a request.
type IncomingFile struct {
	// Field names the semantic role of the upload ("image", "profilePhoto", ...).
	Field    string
	MimeType string
	// FileName is the client-supplied name; only its extension is used.
	FileName string
	Data     []byte
}

// Ext returns the original extension including the dot, e.g. ".png".
func (f IncomingFile) Ext() string {
	return filepath.Ext(f.FileName)
}

// Category is the logical destination of an upload.
type Category string

const (
	CategoryNewsImage         Category = "news-image"
	CategoryLawyerPhoto       Category = "lawyer-photo"
	CategoryLawyerLicense     Category = "lawyer-license"
	CategoryPDF               Category = "generic-pdf"
	CategoryChatPDF           Category = "chat-pdf"
	CategoryPaymentScreenshot Category = "payment-screenshot"
	CategoryMisc              Category = "misc"
)

// localRoot is the first segment of every local directory. Remote folders
// swap it for the application namespace.
const localRoot = "uploads"

var categoryDirs = map[Category]string{
	CategoryNewsImage:         "uploads/news",
	CategoryLawyerPhoto:       "uploads/lawyers/photo",
	CategoryLawyerLicense:     "uploads/lawyers/license",
	CategoryPDF:               "uploads/pdf",
	CategoryChatPDF:           "uploads/chatpdf",
	CategoryPaymentScreenshot: "uploads/payment",
	CategoryMisc:              "uploads/misc",
}

// Dir returns the local directory for the category. Unknown values map to misc.
func (c Category) Dir() string {
	if dir, ok := categoryDirs[c]; ok {
		return dir
	}
	return categoryDirs[CategoryMisc]
}

type rule struct {
	match    func(IncomingFile) bool
	category Category
}

func fieldIs(name string) func(IncomingFile) bool {
	return func(f IncomingFile) bool { return f.Field == name }
}

func mimeIs(mime string) func(IncomingFile) bool {
	return func(f IncomingFile) bool { return f.MimeType == mime }
}

// rules is evaluated top to bottom; the first match wins. The PDF MIME rule
// sits above "chatpdf", so chat PDFs declared as application/pdf land in generic-pdf.
var rules = []rule{
	{fieldIs("image"), CategoryNewsImage},
	{fieldIs("profilePhoto"), CategoryLawyerPhoto},
	{fieldIs("licenseFile"), CategoryLawyerLicense},
	{mimeIs("application/pdf"), CategoryPDF},
	{fieldIs("chatpdf"), CategoryChatPDF},
	{fieldIs("screenshot"), CategoryPaymentScreenshot},
}

// Classify maps a file to exactly one category. It does no I/O and cannot fail.
func Classify(f IncomingFile) Category {
	for _, r := range rules {
		if r.match(f) {
			return r.category
		}
	}
	return CategoryMisc
}

var allowedTypes = []string{"jpeg", "jpg", "png", "pdf"}

// Allowed reports whether the extension OR the declared MIME type mentions an
// allowed type. Either signal alone is enough.
func Allowed(f IncomingFile) bool {
	ext := strings.ToLower(strings.TrimPrefix(f.Ext(), "."))
	mime := strings.ToLower(f.MimeType)
	for _, t := range allowedTypes {
		if strings.Contains(ext, t) || strings.Contains(mime, t) {
			return true
		}
	}
	return false
}

// Validate returns ErrUnsupportedFileType when Allowed is false.
func Validate(f IncomingFile) error {
	if !Allowed(f) {
		return ErrUnsupportedFileType
	}
	return nil
}
