package formmode

import (
	"strings"
	"testing"
)

const fixturePage = `<!DOCTYPE html>
<html><head><title>Announcements</title></head><body>
<section id="g1-guild">
<form id="a1-manageAnnouncementForm" method="post" action="/discord/announcement/delete"><fieldset>
<legend>MyStream:</legend>
<span>Channel: general<br>Text: hello world</span>
<input type="hidden" name="announcementID" value="a1">
<input type="submit" value="Delete">
</fieldset></form>
<form id="a2-manageAnnouncementForm" method="post" action="/discord/announcement/delete"><fieldset>
<legend>OtherStream:</legend>
<span>Channel: alerts<br>Text: we are live: come join<br>bring snacks</span>
<input type="hidden" name="announcementID" value="a2">
<input type="submit" value="Delete">
</fieldset></form>
<form id="bad1-manageAnnouncementForm"><fieldset>
<legend>NoColon</legend>
<span>Channel: general<br>Text: x</span>
</fieldset></form>
<form id="g1-newAnnouncementForm" method="post" action="/discord/announcement/add"><fieldset>
<legend><b>Add Twitch Announcement</b></legend>
<input type="hidden" name="guild" value="g1">
<input type="text" name="streamName">
<select name="channel"><option value="c1">general</option><option value="c2">alerts</option></select>
<textarea name="announcementText"></textarea>
<input type="submit" value="Add Twitch Announcement">
</fieldset></form>
<form id="y1-manageYTAnnouncementForm" method="post" action="/discord/ytannouncement/delete"><fieldset>
<legend>@somechannel:</legend>
<span>Channel: alerts<br>Text: new video is up</span>
<input type="hidden" name="announcementID" value="y1">
<input type="submit" value="Delete">
</fieldset></form>
<form id="g1-newYTAnnouncementForm" method="post" action="/discord/ytannouncement/add"><details>
<summary><b>Add YouTube Announcement</b></summary>
<input type="hidden" name="guild" value="g1">
<input type="text" name="youtubeChannel">
<select name="channel"><option value="c1">general</option><option value="c2">alerts</option></select>
<textarea name="announcementText"></textarea>
<input type="submit" value="Add YouTube Announcement">
</details></form>
<form id="g1-config" method="post" action="/discord/config">
<input type="text" name="spamProtectionAnnounceDelay" value="10">
<textarea name="notes">keep</textarea>
<select name="timeZone"><option value="UTC" selected>UTC</option><option value="Europe/Oslo">Oslo</option></select>
</form>
</section>
</body></html>`

func newFixture(t *testing.T) *HTMLDocument {
	t.Helper()
	doc, err := ParseHTML(strings.NewReader(fixturePage))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func bindFixture(t *testing.T, doc *HTMLDocument, v Variant) *Controller {
	t.Helper()
	c, err := Bind(doc, v, "g1")
	if err != nil {
		t.Fatalf("bind %s: %v", v.Name, err)
	}
	return c
}

func mustFind(t *testing.T, doc Document, id string) Element {
	t.Helper()
	el, ok := doc.ByID(id)
	if !ok {
		t.Fatalf("element #%s not found", id)
	}
	return el
}

func count(t *testing.T, doc Document, formID, selector string) int {
	t.Helper()
	return len(mustFind(t, doc, formID).FindAll(selector))
}
