package notification

import "fmt"

// Title is shown on every notification.
const Title = "TextShot"

const (
	FailureMessage = "Unable to read text from image, did not copy"
	EngineMissing  = "Tesseract is either not installed or cannot be reached.\n" +
		"Have you installed it and added the install directory to your system path?"
)

const maxPreviewRunes = 200

// CopiedMessage reports a successful clipboard write.
func CopiedMessage(text string) string {
	return fmt.Sprintf("Copied \"%s\" to the clipboard", preview(text))
}

// ErrorMessage reports a recognition error.
func ErrorMessage(err error) string {
	return fmt.Sprintf("An error occurred when trying to process the image: %v", err)
}

func preview(text string) string {
	r := []rune(text)
	if len(r) > maxPreviewRunes {
		return string(r[:maxPreviewRunes]) + "..."
	}
	return text
}
