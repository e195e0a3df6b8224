package formmode

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBindMissingForm(t *testing.T) {
	doc := newFixture(t)
	if _, err := Bind(doc, TwitchAnnouncement, "unknown"); !errors.Is(err, ErrMissingFormElement) {
		t.Fatalf("expected ErrMissingFormElement, got %v", err)
	}
	if _, err := Bind(nil, TwitchAnnouncement, "g1"); !errors.Is(err, ErrMissingFormElement) {
		t.Fatalf("expected ErrMissingFormElement for nil document, got %v", err)
	}
}

func TestBindStartsInCreateMode(t *testing.T) {
	c := bindFixture(t, newFixture(t), TwitchAnnouncement)
	if c.Mode() != Create {
		t.Fatalf("expected create mode, got %s", c.Mode())
	}
	if _, ok := c.ActiveRecord(); ok {
		t.Fatalf("expected no active record")
	}
	if c.FormID() != "g1-newAnnouncementForm" {
		t.Fatalf("unexpected form id %q", c.FormID())
	}
}

func TestEnterCreateIsIdempotent(t *testing.T) {
	doc := newFixture(t)
	c := bindFixture(t, doc, TwitchAnnouncement)
	if err := c.EditRecord("a1", "c2"); err != nil {
		t.Fatalf("edit: %v", err)
	}

	if err := c.EnterCreate(); err != nil {
		t.Fatalf("first create: %v", err)
	}
	first := doc.String()
	if err := c.EnterCreate(); err != nil {
		t.Fatalf("second create: %v", err)
	}
	if diff := cmp.Diff(first, doc.String()); diff != "" {
		t.Fatalf("second EnterCreate changed the DOM (-first +second):\n%s", diff)
	}
}

func TestEnterEditSameRecordIsNoOp(t *testing.T) {
	doc := newFixture(t)
	c := bindFixture(t, doc, TwitchAnnouncement)
	if err := c.EditRecord("a1", "c1"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	before := doc.String()
	if err := c.EditRecord("a1", "c1"); err != nil {
		t.Fatalf("repeat edit: %v", err)
	}
	if doc.String() != before {
		t.Fatalf("repeat edit changed the DOM")
	}

	form := c.FormID()
	if n := count(t, doc, form, `input[name="announcementID"]`); n != 1 {
		t.Fatalf("expected 1 hidden id input, got %d", n)
	}
	if n := count(t, doc, form, ".buttonContainer"); n != 1 {
		t.Fatalf("expected 1 button container, got %d", n)
	}
	if n := count(t, doc, form, `a[data-action="cancel-edit"]`); n != 1 {
		t.Fatalf("expected 1 cancel link, got %d", n)
	}
}

func TestEnterEditDifferentRecordReplacesState(t *testing.T) {
	doc := newFixture(t)
	c := bindFixture(t, doc, TwitchAnnouncement)
	if err := c.EditRecord("a1", "c1"); err != nil {
		t.Fatalf("edit a1: %v", err)
	}
	if err := c.EditRecord("a2", "c2"); err != nil {
		t.Fatalf("edit a2: %v", err)
	}

	form := mustFind(t, doc, c.FormID())
	hidden := form.FindAll(`input[name="announcementID"]`)
	if len(hidden) != 1 || hidden[0].Value() != "a2" {
		t.Fatalf("expected a single hidden input holding a2, got %d", len(hidden))
	}
	if n := len(form.FindAll(".buttonContainer")); n != 1 {
		t.Fatalf("expected 1 button container, got %d", n)
	}
	if n := len(form.FindAll(`.buttonContainer a[data-action="cancel-edit"]`)); n != 1 {
		t.Fatalf("expected 1 cancel link, got %d", n)
	}
	if id, ok := c.ActiveRecord(); !ok || id != "a2" {
		t.Fatalf("expected active record a2, got %q", id)
	}

	got, err := c.Values()
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	want := Values{
		Action:   AnnouncementEditRoute,
		Primary:  "OtherStream",
		Channel:  "c2",
		Text:     "we are live: come join\nbring snacks",
		RecordID: "a2",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("form values mismatch (-want +got):\n%s", diff)
	}
}

func TestEditCancelCreateRestoresCreateState(t *testing.T) {
	doc := newFixture(t)
	c := bindFixture(t, doc, TwitchAnnouncement)
	if err := c.EditRecord("a1", "c2"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := c.CancelEdit(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := c.EnterCreate(); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := c.Values()
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	want := Values{Action: AnnouncementAddRoute, Channel: "c1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("form values mismatch (-want +got):\n%s", diff)
	}

	form := mustFind(t, doc, c.FormID())
	if n := len(form.FindAll(`input[name="announcementID"]`)); n != 0 {
		t.Fatalf("expected hidden id input to be removed, found %d", n)
	}
	if n := len(form.FindAll(".buttonContainer")); n != 0 {
		t.Fatalf("expected button container to be removed, found %d", n)
	}
	submit, ok := form.Find(`fieldset > input[type="submit"]`)
	if !ok {
		t.Fatalf("expected submit to be back inside the fieldset")
	}
	if submit.Value() != "Add Twitch Announcement" {
		t.Fatalf("unexpected submit label %q", submit.Value())
	}
	heading, _ := form.Find("legend b")
	if heading.Text() != "Add Twitch Announcement" {
		t.Fatalf("unexpected heading %q", heading.Text())
	}
	if c.Mode() != Create {
		t.Fatalf("expected create mode")
	}
}

func TestCancelEditInCreateModeIsNoOp(t *testing.T) {
	doc := newFixture(t)
	c := bindFixture(t, doc, TwitchAnnouncement)
	before := doc.String()
	if err := c.CancelEdit(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if doc.String() != before {
		t.Fatalf("cancel in create mode changed the DOM")
	}
}

func TestEnterEditExtractsSummaryFields(t *testing.T) {
	doc := newFixture(t)
	c := bindFixture(t, doc, TwitchAnnouncement)
	if err := c.EditRecord("a1", "c2"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	got, err := c.Values()
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	want := Values{
		Action:   AnnouncementEditRoute,
		Primary:  "MyStream",
		Channel:  "c2",
		Text:     "hello world",
		RecordID: "a1",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("form values mismatch (-want +got):\n%s", diff)
	}

	form := mustFind(t, doc, c.FormID())
	heading, _ := form.Find("legend b")
	if heading.Text() != "Edit Twitch Announcement" {
		t.Fatalf("unexpected heading %q", heading.Text())
	}
	if _, ok := form.Find(`.buttonContainer > input[type="submit"]`); !ok {
		t.Fatalf("expected submit inside the button container")
	}
	cancel, ok := form.Find(`.buttonContainer > a[data-action="cancel-edit"]`)
	if !ok {
		t.Fatalf("expected cancel link")
	}
	if href, _ := cancel.Attr("href"); href != PageRoute {
		t.Fatalf("cancel link should lead back to %s without script, got %q", PageRoute, href)
	}
	if target, _ := cancel.Attr("data-form"); target != c.FormID() {
		t.Fatalf("cancel button targets %q", target)
	}
	if strings.TrimSpace(cancel.Text()) != "Cancel" {
		t.Fatalf("unexpected cancel label %q", cancel.Text())
	}
}

func TestEnterEditRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		primary string
		text    string
	}{
		{"plain", "Stream", "going live"},
		{"colon in text", "Stream", "now: playing: chess"},
		{"multi line", "Stream_2", "line one\nline two"},
		{"padded", "  Spaced  ", "  padded text  "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := newFixture(t)
			summary := doc.Create("div")
			legend := doc.Create("legend")
			legend.SetText(tc.primary + ":")
			body := doc.Create("span")
			body.SetText("Channel: general\nText: " + tc.text)
			summary.Append(legend)
			summary.Append(body)

			c := bindFixture(t, doc, TwitchAnnouncement)
			if err := c.EnterEdit("r1", summary, "c1"); err != nil {
				t.Fatalf("edit: %v", err)
			}
			got, err := c.Values()
			if err != nil {
				t.Fatalf("values: %v", err)
			}
			if got.Primary != strings.TrimSpace(tc.primary) {
				t.Fatalf("primary: want %q, got %q", strings.TrimSpace(tc.primary), got.Primary)
			}
			if got.Text != strings.TrimSpace(tc.text) {
				t.Fatalf("text: want %q, got %q", strings.TrimSpace(tc.text), got.Text)
			}
		})
	}
}

func TestEnterEditMalformedSummaryLeavesFormUntouched(t *testing.T) {
	cases := []struct {
		name    string
		heading string
		body    string
	}{
		{"heading without colon", "MyStream", "Channel: general\nText: hi"},
		{"empty heading", ":", "Channel: general\nText: hi"},
		{"empty body", "MyStream:", "   "},
		{"first line without separator", "MyStream:", "general\nText: hi"},
		{"missing text line", "MyStream:", "Channel: general"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := newFixture(t)
			summary := doc.Create("div")
			legend := doc.Create("legend")
			legend.SetText(tc.heading)
			body := doc.Create("span")
			body.SetText(tc.body)
			summary.Append(legend)
			summary.Append(body)

			c := bindFixture(t, doc, TwitchAnnouncement)
			before := doc.String()
			err := c.EnterEdit("r1", summary, "c1")
			if !errors.Is(err, ErrMalformedRecordSummary) {
				t.Fatalf("expected ErrMalformedRecordSummary, got %v", err)
			}
			if doc.String() != before {
				t.Fatalf("failed transition mutated the DOM")
			}
			if c.Mode() != Create {
				t.Fatalf("expected create mode after failure")
			}
		})
	}
}

func TestEditRecordMalformedMarkup(t *testing.T) {
	doc := newFixture(t)
	c := bindFixture(t, doc, TwitchAnnouncement)
	if err := c.EditRecord("bad1", "c1"); !errors.Is(err, ErrMalformedRecordSummary) {
		t.Fatalf("expected ErrMalformedRecordSummary, got %v", err)
	}
	if err := c.EditRecord("missing", "c1"); !errors.Is(err, ErrMalformedRecordSummary) {
		t.Fatalf("expected ErrMalformedRecordSummary for unknown summary, got %v", err)
	}
	if err := c.EnterEdit("a1", nil, "c1"); !errors.Is(err, ErrMalformedRecordSummary) {
		t.Fatalf("expected ErrMalformedRecordSummary for nil summary, got %v", err)
	}
}

func TestEnterEditUnknownChannelLeavesFormUntouched(t *testing.T) {
	doc := newFixture(t)
	c := bindFixture(t, doc, TwitchAnnouncement)
	before := doc.String()
	if err := c.EditRecord("a1", "nope"); !errors.Is(err, ErrMissingFormElement) {
		t.Fatalf("expected ErrMissingFormElement, got %v", err)
	}
	if doc.String() != before {
		t.Fatalf("failed transition mutated the DOM")
	}
}

func TestMissingFieldReportsMissingFormElement(t *testing.T) {
	doc := newFixture(t)
	broken := TwitchAnnouncement
	broken.Fields.Text = `[name="doesNotExist"]`
	c := bindFixture(t, doc, broken)
	before := doc.String()
	if err := c.EditRecord("a1", "c1"); !errors.Is(err, ErrMissingFormElement) {
		t.Fatalf("expected ErrMissingFormElement, got %v", err)
	}
	if err := c.EnterCreate(); !errors.Is(err, ErrMissingFormElement) {
		t.Fatalf("expected ErrMissingFormElement from EnterCreate, got %v", err)
	}
	if doc.String() != before {
		t.Fatalf("failed transition mutated the DOM")
	}
}

func TestYouTubeVariantTogglesDetails(t *testing.T) {
	doc := newFixture(t)
	c := bindFixture(t, doc, YouTubeAnnouncement)
	details := mustFind(t, doc, "g1-newYTAnnouncementForm")

	if err := c.EditRecord("y1", "c2"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	wrapper, _ := details.Find("details")
	if _, open := wrapper.Attr("open"); !open {
		t.Fatalf("expected details to be open in edit mode")
	}
	got, err := c.Values()
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	want := Values{
		Action:   YTAnnouncementEditRoute,
		Primary:  "@somechannel",
		Channel:  "c2",
		Text:     "new video is up",
		RecordID: "y1",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("form values mismatch (-want +got):\n%s", diff)
	}
	heading, _ := details.Find("summary b")
	if heading.Text() != "Edit YouTube Announcement" {
		t.Fatalf("unexpected heading %q", heading.Text())
	}

	if err := c.CancelEdit(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, open := wrapper.Attr("open"); open {
		t.Fatalf("expected details to be closed in create mode")
	}
}

func TestVariantsShareOneFormIndependently(t *testing.T) {
	doc := newFixture(t)
	stream := bindFixture(t, doc, TwitchAnnouncement)
	yt := bindFixture(t, doc, YouTubeAnnouncement)
	if err := stream.EditRecord("a1", "c1"); err != nil {
		t.Fatalf("edit stream: %v", err)
	}
	if err := yt.EditRecord("y1", "c1"); err != nil {
		t.Fatalf("edit youtube: %v", err)
	}
	if err := stream.CancelEdit(); err != nil {
		t.Fatalf("cancel stream: %v", err)
	}
	if yt.Mode() != Edit {
		t.Fatalf("youtube form should still be in edit mode")
	}
	if n := count(t, doc, yt.FormID(), `input[name="announcementID"]`); n != 1 {
		t.Fatalf("expected youtube hidden input to survive, got %d", n)
	}
}

func TestBindAdoptsRenderedEditState(t *testing.T) {
	doc := newFixture(t)
	c := bindFixture(t, doc, TwitchAnnouncement)
	if err := c.EditRecord("a1", "c2"); err != nil {
		t.Fatalf("edit: %v", err)
	}

	reloaded, err := ParseHTML(strings.NewReader(doc.String()))
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	adopted := bindFixture(t, reloaded, TwitchAnnouncement)
	if id, ok := adopted.ActiveRecord(); !ok || id != "a1" {
		t.Fatalf("expected adopted edit state for a1, got %q", id)
	}

	before := reloaded.String()
	if err := adopted.EditRecord("a1", "c2"); err != nil {
		t.Fatalf("repeat edit: %v", err)
	}
	if reloaded.String() != before {
		t.Fatalf("repeat edit on adopted state changed the DOM")
	}

	if err := adopted.EditRecord("a2", "c1"); err != nil {
		t.Fatalf("edit a2: %v", err)
	}
	if n := count(t, reloaded, adopted.FormID(), `a[data-action="cancel-edit"]`); n != 1 {
		t.Fatalf("expected adopted cancel link to be reused, got %d", n)
	}

	if err := adopted.CancelEdit(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if n := count(t, reloaded, adopted.FormID(), ".buttonContainer"); n != 0 {
		t.Fatalf("expected adopted container to be removed, got %d", n)
	}
	if n := count(t, reloaded, adopted.FormID(), `fieldset > input[type="submit"]`); n != 1 {
		t.Fatalf("expected submit back in fieldset, got %d", n)
	}
}

func TestGenericAnnouncementLabels(t *testing.T) {
	doc := newFixture(t)
	c := bindFixture(t, doc, Announcement)
	if err := c.EditRecord("a1", "c1"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	submit, _ := mustFind(t, doc, c.FormID()).Find(`input[type="submit"]`)
	if submit.Value() != "Edit Announcement" {
		t.Fatalf("unexpected submit label %q", submit.Value())
	}
	if err := c.EnterCreate(); err != nil {
		t.Fatalf("create: %v", err)
	}
	if submit.Value() != "Add Announcement" {
		t.Fatalf("unexpected submit label %q", submit.Value())
	}
}
