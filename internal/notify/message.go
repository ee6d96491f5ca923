package notify

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/emersion/go-message/mail"
)

const DefaultFormat = "Virtual (Google Meet)"

// DefaultBody is the invitation text. Fields: Name, Date, Time, Format, Company, Signature.
const DefaultBody = `Dear {{.Name}},

Congratulations! You have been shortlisted for the next round of interviews for our open positions.

Interview Date: {{.Date}}
Interview Time: {{.Time}}
Interview Format: {{.Format}}

Please confirm your availability by replying to this email. We look forward to speaking with you.

Best regards,
{{.Company}}
{{- range .Signature}}
{{.}}
{{- end}}
`

type bodyData struct {
	Name      string
	Date      string
	Time      string
	Format    string
	Company   string
	Signature []string
}

// Composer renders invitation messages.
type Composer struct {
	from      mail.Address
	body      *template.Template
	format    string
	company   string
	signature []string
	now       func() time.Time
}

func NewComposer(from mail.Address, body, format, company string, signature []string, now func() time.Time) (*Composer, error) {
	if strings.TrimSpace(body) == "" {
		body = DefaultBody
	}
	tmpl, err := template.New("invitation").Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing invitation template: %w", err)
	}
	if strings.TrimSpace(format) == "" {
		format = DefaultFormat
	}
	if now == nil {
		now = time.Now
	}
	return &Composer{from: from, body: tmpl, format: format, company: company, signature: signature, now: now}, nil
}

// Subject returns the subject line for name.
func Subject(name string) string {
	return "Interview Invitation - " + name
}

// Compose renders a plain-text message to the given recipient.
func (c *Composer) Compose(name string, to mail.Address, slot Slot) ([]byte, error) {
	var body bytes.Buffer
	err := c.body.Execute(&body, bodyData{
		Name:      name,
		Date:      slot.Date,
		Time:      slot.Time,
		Format:    c.format,
		Company:   c.company,
		Signature: c.signature,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering invitation: %w", err)
	}

	var h mail.Header
	h.SetDate(c.now())
	h.SetAddressList("From", []*mail.Address{&c.from})
	h.SetAddressList("To", []*mail.Address{&to})
	h.SetSubject(Subject(name))
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var msg bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&msg, h)
	if err != nil {
		return nil, fmt.Errorf("writing message header: %w", err)
	}
	if _, err := io.Copy(w, &body); err != nil {
		return nil, fmt.Errorf("writing message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing message: %w", err)
	}

	return msg.Bytes(), nil
}
