package formmode

import "strings"

// Wrapper identifies the element that groups a form's controls.
type Wrapper int

const (
	// Fieldset wrappers have a legend heading and are always expanded.
	Fieldset Wrapper = iota
	// Details wrappers have a summary heading and collapse in create mode.
	Details
)

func (w Wrapper) selector() string {
	if w == Details {
		return "details"
	}
	return "fieldset"
}

func (w Wrapper) headingSelector() string {
	if w == Details {
		return "summary b"
	}
	return "legend b"
}

// Fields holds the CSS selectors of the entity inputs, relative to the form.
type Fields struct {
	Primary string
	Channel string
	Text    string
}

// Variant configures the controller for one announcement entity type.
type Variant struct {
	Name            string
	FormIDSuffix    string
	SummaryIDSuffix string
	CreateRoute     string
	EditRoute       string
	// CancelRoute is the page the cancel link leads to when no script
	// handles the click.
	CancelRoute string
	CreateLabel string
	EditLabel   string
	Fields      Fields
	// TextLabel names the summary body line holding the announcement text.
	// Empty means the first body line.
	TextLabel string
	Wrapper   Wrapper
}

// Routes accepted by the submission receiver.
const (
	PageRoute                 = "/discord"
	AnnouncementAddRoute      = "/discord/announcement/add"
	AnnouncementEditRoute     = "/discord/announcement/edit"
	AnnouncementDeleteRoute   = "/discord/announcement/delete"
	YTAnnouncementAddRoute    = "/discord/ytannouncement/add"
	YTAnnouncementEditRoute   = "/discord/ytannouncement/edit"
	YTAnnouncementDeleteRoute = "/discord/ytannouncement/delete"
)

const (
	// RecordIDField is the name of the hidden input carrying the edited record.
	RecordIDField        = "announcementID"
	ButtonContainerClass = "buttonContainer"
	// CancelAction and EditAction are the data-action values of the controls
	// that trigger transitions.
	CancelAction = "cancel-edit"
	EditAction   = "edit-announcement"
)

const (
	summaryHeadingSelector   = "legend"
	summaryBodySelector      = "span"
	defaultTextLabel         = "Text"
	submitSelector           = `input[type="submit"]`
	recordIDSelector         = `input[name="` + RecordIDField + `"]`
	cancelSelector           = `[data-action="` + CancelAction + `"]`
	buttonContainerSelector  = "." + ButtonContainerClass
	streamFormIDSuffix       = "-newAnnouncementForm"
	streamSummaryIDSuffix    = "-manageAnnouncementForm"
	youtubeFormIDSuffix      = "-newYTAnnouncementForm"
	youtubeSummaryIDSuffix   = "-manageYTAnnouncementForm"
	streamPrimarySelector    = `[name="streamName"]`
	youtubePrimarySelector   = `[name="youtubeChannel"]`
	channelSelector          = `select[name="channel"]`
	announcementTextSelector = `[name="announcementText"]`
)

var (
	// Announcement is the generic stream announcement form.
	Announcement = Variant{
		Name:            "announcement",
		FormIDSuffix:    streamFormIDSuffix,
		SummaryIDSuffix: streamSummaryIDSuffix,
		CreateRoute:     AnnouncementAddRoute,
		EditRoute:       AnnouncementEditRoute,
		CancelRoute:     PageRoute,
		CreateLabel:     "Add Announcement",
		EditLabel:       "Edit Announcement",
		Fields: Fields{
			Primary: streamPrimarySelector,
			Channel: channelSelector,
			Text:    announcementTextSelector,
		},
		TextLabel: defaultTextLabel,
		Wrapper:   Fieldset,
	}

	// TwitchAnnouncement is the stream announcement form with Twitch labels.
	TwitchAnnouncement = Variant{
		Name:            "twitch",
		FormIDSuffix:    streamFormIDSuffix,
		SummaryIDSuffix: streamSummaryIDSuffix,
		CreateRoute:     AnnouncementAddRoute,
		EditRoute:       AnnouncementEditRoute,
		CancelRoute:     PageRoute,
		CreateLabel:     "Add Twitch Announcement",
		EditLabel:       "Edit Twitch Announcement",
		Fields: Fields{
			Primary: streamPrimarySelector,
			Channel: channelSelector,
			Text:    announcementTextSelector,
		},
		TextLabel: defaultTextLabel,
		Wrapper:   Fieldset,
	}

	// YouTubeAnnouncement is the YouTube announcement form.
	YouTubeAnnouncement = Variant{
		Name:            "youtube",
		FormIDSuffix:    youtubeFormIDSuffix,
		SummaryIDSuffix: youtubeSummaryIDSuffix,
		CreateRoute:     YTAnnouncementAddRoute,
		EditRoute:       YTAnnouncementEditRoute,
		CancelRoute:     PageRoute,
		CreateLabel:     "Add YouTube Announcement",
		EditLabel:       "Edit YouTube Announcement",
		Fields: Fields{
			Primary: youtubePrimarySelector,
			Channel: channelSelector,
			Text:    announcementTextSelector,
		},
		TextLabel: defaultTextLabel,
		Wrapper:   Details,
	}
)

// FormID returns the id of the variant's creation form inside a scope.
func (v Variant) FormID(scopeID string) string {
	return strings.TrimSpace(scopeID) + v.FormIDSuffix
}

// SummaryID returns the id of the record summary for an announcement.
func (v Variant) SummaryID(recordID string) string {
	return strings.TrimSpace(recordID) + v.SummaryIDSuffix
}

func (v Variant) cancelRoute() string {
	if v.CancelRoute == "" {
		return PageRoute
	}
	return v.CancelRoute
}

// VariantByName returns the preset with the given Name.
func VariantByName(name string) (Variant, bool) {
	for _, v := range []Variant{Announcement, TwitchAnnouncement, YouTubeAnnouncement} {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}
