package extract

import "inventory-adapter/pkg/htmlutil"

var errorFlashSelector = ".alert-danger, .alert-error, .flash-error, .error-message, .flash.error"

// ErrorFlash returns the message of an error alert on a page that was
// otherwise served successfully, or "".
func ErrorFlash(p *Page) string {
	return htmlutil.Text(p.Doc.Find(errorFlashSelector).First())
}
