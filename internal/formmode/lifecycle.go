package formmode

import "strings"

// CreationVariants are the variants whose forms survive a page-load reset.
var CreationVariants = []Variant{Announcement, TwitchAnnouncement, YouTubeAnnouncement}

// ResetStaleForms resets every form on the page except the creation forms of
// the given variants, so values cached by the browser across reloads do not
// reappear. It returns the number of forms reset.
func ResetStaleForms(doc Document, variants ...Variant) int {
	if doc == nil {
		return 0
	}
	if len(variants) == 0 {
		variants = CreationVariants
	}
	var reset int
	for _, form := range doc.FindAll("form") {
		id, _ := form.Attr("id")
		if isCreationForm(id, variants) {
			continue
		}
		form.Reset()
		reset++
	}
	return reset
}

func isCreationForm(id string, variants []Variant) bool {
	if id == "" {
		return false
	}
	for _, v := range variants {
		if v.FormIDSuffix != "" && strings.HasSuffix(id, v.FormIDSuffix) {
			return true
		}
	}
	return false
}
