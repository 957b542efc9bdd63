// Package dialog shows native file pickers and message boxes.
package dialog

import (
	"errors"

	"github.com/ncruces/zenity"
)

// ImagePatterns lists the file patterns offered by SelectImage.
var ImagePatterns = []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp", "*.webp"}

// SelectImage asks the user for an image file. A cancelled dialog returns an
// empty path and no error.
func SelectImage() (string, error) {
	path, err := zenity.SelectFile(
		zenity.Title("Upload Image"),
		zenity.FileFilters{{
			Name:     "Images",
			Patterns: ImagePatterns,
		}},
	)
	return selection(path, err)
}

func selection(path string, err error) (string, error) {
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", err
	}
	return path, nil
}

// Alerter shows alerts in a native error box.
type Alerter struct {
	Title string
}

// Alert shows msg and blocks until the box is dismissed.
func (a Alerter) Alert(msg string) {
	title := a.Title
	if title == "" {
		title = "Matrix Portrait"
	}
	_ = zenity.Error(msg, zenity.Title(title), zenity.ErrorIcon)
}
