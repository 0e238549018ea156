package core

import (
	"net/mail"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplates(t *testing.T) {
	fsys := fstest.MapFS{
		"assets/templates/email/_base.txt":      {Data: []byte(`{{template "content" .}} -- {{.AppName}}`)},
		"assets/templates/email/_base.gohtml":   {Data: []byte(`<p>{{template "content" .}}</p>`)},
		"assets/templates/email/welcome.txt":    {Data: []byte(`{{define "content"}}Hi {{.Data.Name}}{{end}}`)},
		"assets/templates/email/welcome.gohtml": {Data: []byte(`{{define "content"}}<b>{{.Data.Name}}</b>{{end}}`)},
		"assets/templates/email/notes.md":       {Data: []byte(`ignored`)},
		"assets/templates/email/plain.txt":      {Data: []byte(`{{define "content"}}plain{{end}}`)},
	}

	cache, err := parseTemplates(fsys, true)
	require.NoError(t, err)
	require.Len(t, cache, 2)
	assert.NotNil(t, cache["welcome"].text)
	assert.NotNil(t, cache["welcome"].html)
	assert.NotNil(t, cache["plain"].text)
	assert.Nil(t, cache["plain"].html)

	msg := &EmailMessage{TemplateData: map[string]string{"Name": "<Amina>"}}
	data := msg.getContextData(&Config{AppName: "Madrasa"})
	require.NoError(t, msg.renderText(cache["welcome"], data))
	require.NoError(t, msg.renderHTML(cache["welcome"], data))
	assert.Equal(t, "Hi <Amina> -- Madrasa", msg.TextContent)
	assert.Equal(t, "<p><b>&lt;Amina&gt;</b></p>", msg.HTMLContent)

	// strict mode rejects missing keys
	msg = &EmailMessage{TemplateData: map[string]string{}}
	assert.Error(t, msg.renderText(cache["welcome"], msg.getContextData(&Config{})))
}

func TestEmailMessage_Render(t *testing.T) {
	conf := &Config{AppName: "Madrasa", FrontendBaseURL: "https://madrasa.test", TestMode: true}

	msg := &EmailMessage{BodyStr: "plain body"}
	require.NoError(t, msg.Render(conf))
	assert.Equal(t, "plain body", msg.TextContent)
	assert.Empty(t, msg.HTMLContent)

	msg = &EmailMessage{TemplateName: "lol"}
	assert.EqualError(t, msg.Render(conf), `email template "lol" not found`)

	msg = &EmailMessage{
		TemplateName: "newsletter",
		TemplateData: map[string]interface{}{
			"Badge":      "News & Events",
			"BadgeColor": "#1d4ed8",
			"Title":      "Open Day",
			"Lines":      []string{"Join us", "on Saturday"},
			"Link":       "https://madrasa.test/news",
			"LinkLabel":  "Read more",
		},
	}
	require.NoError(t, msg.Render(conf))
	assert.True(t, msg.HasContent())
	assert.Contains(t, msg.TextContent, "[News & Events] Open Day")
	assert.Contains(t, msg.TextContent, "Read more: https://madrasa.test/news")
	assert.Contains(t, msg.TextContent, "Unsubscribe: https://madrasa.test/newsletter/unsubscribe")
	assert.Contains(t, msg.HTMLContent, "Join us<br>on Saturday")
	assert.Contains(t, msg.HTMLContent, `href="https://madrasa.test/news"`)
	assert.Contains(t, msg.HTMLContent, "News &amp; Events")
}

func TestEmailMessage_Clone(t *testing.T) {
	orig := EmailMessage{To: []mail.Address{{Address: "a@example.com"}, {Address: "b@example.com"}}, Subject: "Hi"}

	clone := orig.Clone(mail.Address{Address: "c@example.com"})
	assert.Equal(t, "Hi", clone.Subject)
	assert.Equal(t, []mail.Address{{Address: "c@example.com"}}, clone.To)
	assert.Len(t, orig.To, 2)
	assert.True(t, clone.HasRecipients())
}
