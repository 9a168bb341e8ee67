package delivery

import (
	"bytes"
	"fmt"
	"github.com/maxaizer/job-monitor/internal/entities"
	"html/template"
	textTemplate "text/template"
	"time"
)

const dateLayout = "02 Jan 2006"

type DigestItem struct {
	Title   string
	URL     string
	Company string
}

type DigestGroup struct {
	Label    string
	Postings []DigestItem
}

// Digest is one subscriber's email: unsent postings grouped by source in first-seen order.
type Digest struct {
	Date   time.Time
	Total  int
	Groups []DigestGroup
}

func NewDigest(postings []entities.Posting, date time.Time) Digest {
	digest := Digest{Date: date, Total: len(postings)}
	index := make(map[entities.Source]int)

	for _, posting := range postings {
		i, ok := index[posting.Source]
		if !ok {
			i = len(digest.Groups)
			index[posting.Source] = i
			digest.Groups = append(digest.Groups, DigestGroup{Label: SourceLabel(posting.Source)})
		}

		item := DigestItem{Title: posting.Title, URL: posting.URL}
		if posting.Company != "" && posting.Company != digest.Groups[i].Label {
			item.Company = posting.Company
		}
		digest.Groups[i].Postings = append(digest.Groups[i].Postings, item)
	}

	return digest
}

func (d Digest) IsEmpty() bool {
	return d.Total == 0
}

func (d Digest) FormattedDate() string {
	return d.Date.Format(dateLayout)
}

func (d Digest) Subject() string {
	return fmt.Sprintf("📋 Job Digest, %s (%d new)", d.FormattedDate(), d.Total)
}

var htmlDigest = template.Must(template.New("digest.html").Parse(
	`<html><body style="font-family: Arial, sans-serif; max-width: 700px; margin: auto; color: #333;">
<h2 style="color:#1a1a2e;">📋 Job Digest, {{.FormattedDate}}</h2>
<p>{{.Total}} new matching position(s).</p>
<hr>
{{range .Groups}}<h3 style="color:#444; border-bottom:1px solid #ddd; padding-bottom:4px;">{{.Label}}</h3>
<ul>
{{range .Postings}}<li style="margin-bottom:8px;"><a href="{{.URL}}" style="color:#0057b8; font-weight:bold;">{{.Title}}</a>{{if .Company}} · {{.Company}}{{end}}</li>
{{end}}</ul>
{{end}}<hr>
<p style="font-size:12px;color:#999;">Nordic Executive List · your personalized job digest</p>
</body></html>
`))

var textDigest = textTemplate.Must(textTemplate.New("digest.txt").Parse(
	`Job Digest, {{.FormattedDate}}
{{.Total}} new matching position(s).
{{range .Groups}}
{{.Label}}
{{range .Postings}}- {{.Title}}{{if .Company}} ({{.Company}}){{end}}
  {{.URL}}
{{end}}{{end}}
Nordic Executive List · your personalized job digest
`))

func (d Digest) RenderHTML() (string, error) {
	var buf bytes.Buffer
	if err := htmlDigest.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render html digest: %w", err)
	}
	return buf.String(), nil
}

func (d Digest) RenderText() (string, error) {
	var buf bytes.Buffer
	if err := textDigest.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render text digest: %w", err)
	}
	return buf.String(), nil
}

// Message renders the digest into an email for one recipient.
func (d Digest) Message(recipient string) (Message, error) {
	html, err := d.RenderHTML()
	if err != nil {
		return Message{}, err
	}
	text, err := d.RenderText()
	if err != nil {
		return Message{}, err
	}
	return Message{To: []string{recipient}, Subject: d.Subject(), HTML: html, Text: text}, nil
}
