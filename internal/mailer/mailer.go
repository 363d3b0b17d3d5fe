// Package mailer delivers best-effort owner notifications over SMTP. Sending
// is fire-and-forget from the triggering handler: a nil Mailer (missing
// configuration) and a failed delivery both degrade to a log line.
package mailer

import (
	"fmt"
	"html"
	"log"
	"strings"

	"gopkg.in/gomail.v2"

	"brainiax-backend/internal/config"
	"brainiax-backend/internal/model"
)

// Mailer wraps a lazily-dialed SMTP transport.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	owner  string
}

// New builds a Mailer from the process configuration. It returns nil when
// credentials are incomplete; every notify method on a nil Mailer is a no-op,
// so misconfiguration disables notifications for the process lifetime.
func New(cfg *config.Config) *Mailer {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		log.Println("Email configuration incomplete - notifications disabled")
		return nil
	}

	owner := cfg.OwnerEmail
	if owner == "" {
		owner = cfg.SMTPUser
	}

	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.SMTPUser,
		owner:  owner,
	}
}

// NotifyNewContact mails the owner about a contact form submission, with
// reply-to set to the submitter.
func (m *Mailer) NotifyNewContact(contact model.Contact) error {
	if m == nil {
		return nil
	}

	var b strings.Builder
	b.WriteString("<h2>New Contact Inquiry</h2><table>")
	writeRow(&b, "Name", contact.Name)
	writeRow(&b, "Email", contact.Email)
	writeRow(&b, "Phone", contact.Phone)
	writeRow(&b, "Company", contact.Company)
	writeRow(&b, "Preferred Date", contact.PreferredDate)
	writeRow(&b, "Preferred Time", contact.PreferredTime)
	b.WriteString("</table>")
	if contact.Message != "" {
		fmt.Fprintf(&b, "<h3>Message</h3><p>%s</p>", html.EscapeString(contact.Message))
	}
	b.WriteString("<p>Reply directly to this email to contact the submitter.</p>")

	subject := fmt.Sprintf("New Contact Form Submission - %s", contact.Name)
	return m.send(subject, contact.Email, b.String())
}

// NotifyNewApplication mails the owner about a job application. The job may
// be nil when the applicant did not reference a posting.
func (m *Mailer) NotifyNewApplication(resume model.Resume, job *model.Job) error {
	if m == nil {
		return nil
	}

	jobTitle := "General Application"
	if job != nil && job.Title != "" {
		jobTitle = job.Title
	} else if resume.Position != "" {
		jobTitle = resume.Position
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>New Job Application</h2><p>Position: %s</p><table>", html.EscapeString(jobTitle))
	writeRow(&b, "Name", resume.Name)
	writeRow(&b, "Email", resume.Email)
	writeRow(&b, "Phone", resume.Phone)
	writeRow(&b, "Resume", resume.ResumeFileName)
	b.WriteString("</table>")
	fmt.Fprintf(&b, "<p>The resume file is available from the admin dashboard or at <code>%s</code>.</p>", html.EscapeString(resume.ResumeURL))

	subject := fmt.Sprintf("New Job Application - %s for %s", resume.Name, jobTitle)
	return m.send(subject, resume.Email, b.String())
}

func (m *Mailer) send(subject, replyTo, body string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, "Brainiax Website")
	msg.SetHeader("To", m.owner)
	msg.SetHeader("Reply-To", replyTo)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	return m.dialer.DialAndSend(msg)
}

func writeRow(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "<tr><td><strong>%s:</strong></td><td>%s</td></tr>", label, html.EscapeString(value))
}
